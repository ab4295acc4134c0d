package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

const identityKey = "auth.identity"

// Identity is the resolved caller of a request. User is nil for anonymous
// viewers; those may watch streams and read chat but not post.
type Identity struct {
	User *models.User
}

func (i Identity) Authenticated() bool {
	return i.User != nil
}

// Middleware resolves a bearer token to a user record. Resolution failures
// leave the request anonymous instead of rejecting it: watching an auction
// never requires identity, and write surfaces check for themselves.
func Middleware(jwt JWT, repo repository.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c.GetHeader("Authorization"))
		if tok == "" {
			c.Next()
			return
		}
		claims, err := jwt.Verify(tok)
		if err != nil {
			if logger != nil {
				logger.Debug("bearer token rejected", zap.Error(err))
			}
			c.Next()
			return
		}

		var user *models.User
		if claims.UserID != "" {
			user, err = repo.GetUserByID(c.Request.Context(), claims.UserID)
		} else if claims.WalletAddress != "" {
			user, err = repo.GetUserByWallet(c.Request.Context(), claims.WalletAddress)
		}
		if err != nil && logger != nil {
			logger.Warn("identity lookup failed", zap.Error(err))
		}
		if user != nil {
			c.Set(identityKey, Identity{User: user})
		}
		c.Next()
	}
}

// FromContext returns the caller identity; the zero value means anonymous.
func FromContext(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
