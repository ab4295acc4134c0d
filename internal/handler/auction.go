package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/auction"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/presence"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

type AuctionHandler struct {
	Repo      repository.Repository
	Lifecycle *auction.Lifecycle
	Pricing   auction.PricingEngine
	Presence  *presence.Tracker
	Logger    *zap.Logger
}

func (h *AuctionHandler) Register(r *gin.Engine) {
	r.GET("/api/auctions/:key", h.getAuction)
}

type auctionDoc struct {
	ID                string                `json:"id"`
	Slug              *string               `json:"slug,omitempty"`
	SellerID          string                `json:"sellerId"`
	Title             string                `json:"title"`
	Status            string                `json:"status"`
	StartPriceSol     decimal.Decimal       `json:"startPriceSol"`
	FloorPriceSol     decimal.Decimal       `json:"floorPriceSol"`
	DecayType         string                `json:"decayType"`
	DecaySteps        []auction.DecayStep   `json:"decaySteps,omitempty"`
	DurationMinutes   int                   `json:"durationMinutes"`
	StartsAt          time.Time             `json:"startsAt"`
	EndsAt            time.Time             `json:"endsAt"`
	Quantity          int                   `json:"quantity"`
	QuantitySold      int                   `json:"quantitySold"`
	QuantityRemaining int                   `json:"quantityRemaining"`
	CurrentPriceSol   decimal.Decimal       `json:"currentPriceSol"`
	Temperature       auction.Temperature   `json:"temperature"`
	TimeRemaining     auction.TimeRemaining `json:"timeRemaining"`
	ViewerCount       int                   `json:"viewerCount"`
	WinnerID          *string               `json:"winnerId,omitempty"`
	WinningPriceSol   *decimal.Decimal      `json:"winningPriceSol,omitempty"`
	MediaExpiresAt    *time.Time            `json:"mediaExpiresAt,omitempty"`
}

// @Summary Auction document with derived pricing
// @Tags auctions
// @Param key path string true "auction id or slug"
// @Success 200 {object} apiResponse
// @Router /api/auctions/{key} [get]
func (h *AuctionHandler) getAuction(c *gin.Context) {
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
	if h.Lifecycle != nil {
		if fresh, err := h.Lifecycle.Reconcile(ctx, a); err == nil && fresh != nil {
			a = fresh
		} else if err != nil && h.Logger != nil {
			h.Logger.Warn("reconcile on read failed", zap.String("auction_id", a.ID), zap.Error(err))
		}
	}
	Ok(c, h.doc(a, time.Now().UTC()), nil)
}

func (h *AuctionHandler) doc(a *models.Auction, now time.Time) auctionDoc {
	doc := auctionDoc{
		ID:                a.ID,
		Slug:              a.Slug,
		SellerID:          a.SellerID,
		Title:             a.Title,
		Status:            a.Status,
		StartPriceSol:     a.StartPriceSol,
		FloorPriceSol:     a.FloorPriceSol,
		DecayType:         a.DecayType,
		DurationMinutes:   a.DurationMinutes,
		StartsAt:          a.StartsAt,
		EndsAt:            a.EndsAt(),
		Quantity:          a.Quantity,
		QuantitySold:      a.QuantitySold,
		QuantityRemaining: a.QuantityRemaining(),
		CurrentPriceSol:   h.Pricing.CurrentPrice(a, now),
		Temperature:       h.Pricing.TemperatureAt(a, now),
		TimeRemaining:     auction.TimeRemainingAt(a, now),
		WinnerID:          a.WinnerID,
		WinningPriceSol:   a.WinningPriceSol,
		MediaExpiresAt:    a.MediaExpiresAt,
	}
	if steps, err := auction.ParseDecaySteps(a.DecaySteps); err == nil {
		doc.DecaySteps = steps
	}
	if h.Presence != nil {
		doc.ViewerCount = h.Presence.Count(a.ID)
	}
	return doc
}
