package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/mw"
	"parksystem-backend/internal/reservation"
)

// ListReservations returns all of the caller's reservations.
func (h *Handler) ListReservations(c *gin.Context) {
	list, err := h.store.ListReservations(c.Request.Context(), mw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetReservation returns one reservation of the caller.
func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	r, err := h.store.GetReservation(c.Request.Context(), mw.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// CreateReservation validates a draft and stores it for the caller.
func (h *Handler) CreateReservation(c *gin.Context) {
	var draft reservation.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		h.fail(c, err)
		return
	}

	r := model.Reservation{OwnerID: mw.UserID(c)}
	draft.ApplyTo(&r)
	if err := h.store.CreateReservation(c.Request.Context(), &r); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Mutation("create")

	c.JSON(http.StatusCreated, r)
}

// UpdateReservation applies the fields present in the body to a reservation. Fields left
// out keep their stored value.
func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	r, err := h.store.GetReservation(c.Request.Context(), mw.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	draft := reservation.DraftOf(*r)
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		h.fail(c, err)
		return
	}

	draft.ApplyTo(r)
	if err := h.store.UpdateReservation(c.Request.Context(), r); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Mutation("update")

	c.JSON(http.StatusOK, r)
}

// DeleteReservation removes a reservation of the caller.
func (h *Handler) DeleteReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteReservation(c.Request.Context(), mw.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Mutation("delete")

	c.Status(http.StatusNoContent)
}

// ToggleComplete flips the completion of a reservation and of its flight companions.
func (h *Handler) ToggleComplete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	r, err := h.store.ToggleComplete(c.Request.Context(), mw.UserID(c), id, h.loc)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Mutation("toggle_complete")

	c.JSON(http.StatusOK, r)
}

// TogglePayment flips the paid flag of a reservation.
func (h *Handler) TogglePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	r, err := h.store.TogglePayment(c.Request.Context(), mw.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Mutation("toggle_payment")

	c.JSON(http.StatusOK, r)
}
