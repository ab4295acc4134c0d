package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/auction"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/auth"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/presence"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/stream"
)

type LiveHandler struct {
	Repo      repository.Repository
	Lifecycle *auction.Lifecycle
	Pricing   auction.PricingEngine
	Presence  *presence.Tracker
	Logger    *zap.Logger

	TickInterval      time.Duration
	HeartbeatInterval time.Duration
}

func (h *LiveHandler) Register(r *gin.Engine) {
	r.GET("/api/auctions/:key/live", h.live)
}

// @Summary Live auction event stream
// @Description Server-sent events: JSON snapshots once per second plus comment heartbeats.
// @Tags auctions
// @Param key path string true "auction id or slug"
// @Param wallet query string false "viewer wallet address for presence"
// @Produce text/event-stream
// @Router /api/auctions/{key}/live [get]
func (h *LiveHandler) live(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	a, err := h.Repo.FindAuctionByIDOrSlug(ctx, c.Param("key"))
	if err != nil {
		Fail(c, core.Transient("auction lookup failed", err))
		return
	}
	if a == nil {
		Fail(c, core.NotFound("auction not found"))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	sess := &stream.Session{
		Repo:              h.Repo,
		Lifecycle:         h.Lifecycle,
		Pricing:           h.Pricing,
		Presence:          h.Presence,
		Logger:            h.Logger,
		TickInterval:      h.TickInterval,
		HeartbeatInterval: h.HeartbeatInterval,
		AuctionID:         a.ID,
		ViewerID:          h.viewerID(c),
		Out:               &ssePusher{w: c.Writer},
	}
	if err := sess.Run(ctx); err != nil && h.Logger != nil {
		h.Logger.Warn("broadcast session ended with error",
			zap.String("auction_id", a.ID),
			zap.Error(err),
		)
	}
}

// viewerID prefers the authenticated wallet, then an explicit wallet query
// parameter, then a generated anonymous id.
func (h *LiveHandler) viewerID(c *gin.Context) string {
	if id := auth.FromContext(c); id.Authenticated() {
		return id.User.WalletAddress
	}
	if wallet := strings.TrimSpace(c.Query("wallet")); wallet != "" {
		return wallet
	}
	return "anon-" + uuid.NewString()
}

type ssePusher struct {
	w gin.ResponseWriter
}

func (p *ssePusher) PushSnapshot(s stream.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	p.w.Flush()
	return nil
}

func (p *ssePusher) PushHeartbeat() error {
	if _, err := io.WriteString(p.w, ": hb\n\n"); err != nil {
		return err
	}
	p.w.Flush()
	return nil
}
