package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// Fail renders a domain error. Specific failure reasons reach the client so the
// UI can show them; anything unclassified degrades to a generic 500.
func Fail(c *gin.Context, err error) {
	kind := core.KindOf(err)
	Error(c, statusOf(kind), core.MessageOf(err), map[string]any{"kind": string(kind)})
}

func statusOf(kind core.Kind) int {
	switch kind {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindUnauthenticated:
		return http.StatusUnauthorized
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindInvalidState:
		return http.StatusConflict
	case core.KindInvalidInput:
		return http.StatusBadRequest
	case core.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
