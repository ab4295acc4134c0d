package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/auth"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/chat"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
)

type ChatHandler struct {
	Gate *chat.Gate
}

func (h *ChatHandler) Register(r *gin.Engine) {
	group := r.Group("/api/auctions/:key/messages")
	group.POST("", h.postMessage)
	group.GET("", h.listMessages)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// @Summary Post a chat message
// @Tags chat
// @Param key path string true "auction id or slug"
// @Param body body postMessageRequest true "message"
// @Success 200 {object} apiResponse
// @Router /api/auctions/{key}/messages [post]
func (h *ChatHandler) postMessage(c *gin.Context) {
	if h.Gate == nil {
		Error(c, http.StatusInternalServerError, "chat unavailable", nil)
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, core.InvalidInput("malformed request body"))
		return
	}
	msg, err := h.Gate.Post(c.Request.Context(), auth.FromContext(c).User, c.Param("key"), req.Content)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, msg, nil)
}

// @Summary Chat messages in chronological order
// @Tags chat
// @Param key path string true "auction id or slug"
// @Param limit query int false "page size (max 50)"
// @Param before query string false "createdAt cursor of the oldest message already seen (RFC3339)"
// @Success 200 {object} apiResponse
// @Router /api/auctions/{key}/messages [get]
func (h *ChatHandler) listMessages(c *gin.Context) {
	if h.Gate == nil {
		Error(c, http.StatusInternalServerError, "chat unavailable", nil)
		return
	}
	page, err := h.Gate.ListPage(c.Request.Context(), c.Param("key"), timeQuery(c, "before"), intQuery(c, "limit", 0))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, page.Messages, map[string]any{"hasMore": page.HasMore})
}
