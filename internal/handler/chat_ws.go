package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/chat"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
)

// ChatFeedHandler pushes newly admitted chat messages over a websocket. It is
// a convenience feed on top of the paginated read; clients without websocket
// support poll the REST page instead.
type ChatFeedHandler struct {
	Gate       *chat.Gate
	Logger     *zap.Logger
	PollPeriod time.Duration
}

func (h *ChatFeedHandler) Register(r *gin.Engine) {
	r.GET("/api/auctions/:key/chat/ws", h.feed)
}

func (h *ChatFeedHandler) pollPeriod() time.Duration {
	if h.PollPeriod > 0 {
		return h.PollPeriod
	}
	return time.Second
}

// @Summary Websocket chat feed
// @Tags chat
// @Param key path string true "auction id or slug"
// @Router /api/auctions/{key}/chat/ws [get]
func (h *ChatFeedHandler) feed(c *gin.Context) {
	key := c.Param("key")
	ctx := c.Request.Context()

	// Reject unknown auctions before upgrading.
	if _, err := h.Gate.ListPage(ctx, key, nil, 1); err != nil {
		Fail(c, err)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Debug("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusInternalError, "feed closed")

	if err := h.run(ctx, conn, key); err != nil && h.Logger != nil {
		h.Logger.Debug("chat feed ended", zap.String("auction", key), zap.Error(err))
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *ChatFeedHandler) run(ctx context.Context, conn *websocket.Conn, key string) error {
	ticker := time.NewTicker(h.pollPeriod())
	defer ticker.Stop()

	var lastSeen time.Time

	// Send the current tail first so the client does not render an empty room.
	page, err := h.Gate.ListPage(ctx, key, nil, 0)
	if err != nil {
		return err
	}
	for _, m := range page.Messages {
		if err := wsjson.Write(ctx, conn, m); err != nil {
			return err
		}
		lastSeen = m.CreatedAt
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		page, err := h.Gate.ListPage(ctx, key, nil, 0)
		if err != nil {
			if core.KindOf(err) == core.KindNotFound {
				return err
			}
			// Transient read hiccup: keep the connection, try next poll.
			continue
		}
		for _, m := range page.Messages {
			if !m.CreatedAt.After(lastSeen) {
				continue
			}
			if err := wsjson.Write(ctx, conn, m); err != nil {
				return err
			}
			lastSeen = m.CreatedAt
		}
	}
}
