package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/mw"
	"parksystem-backend/internal/pricing"
)

// GetPricing returns the caller's price list.
func (h *Handler) GetPricing(c *gin.Context) {
	p, err := h.store.Pricing(c.Request.Context(), mw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// PutPricing updates the prices present in the body.
func (h *Handler) PutPricing(c *gin.Context) {
	var patch pricing.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	current, err := h.store.Pricing(ctx, mw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := patch.Apply(current)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SavePricing(ctx, updated); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// EstimatePrice prices a stay from now until returnDate.
func (h *Handler) EstimatePrice(c *gin.Context) {
	returnDate, err := time.Parse(time.RFC3339, c.Query("returnDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "returnDate must be an RFC 3339 timestamp"})
		return
	}

	p, err := h.store.Pricing(c.Request.Context(), mw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	days, price := pricing.Estimate(p, h.now(), returnDate)
	c.JSON(http.StatusOK, gin.H{"days": days, "price": price})
}
