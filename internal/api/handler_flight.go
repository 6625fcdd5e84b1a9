package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/mw"
)

// GetFlightStatus returns the arrival status of the flight a reservation returns on.
func (h *Handler) GetFlightStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	r, err := h.store.GetReservation(c.Request.Context(), mw.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	status, err := h.flights.Status(c.Request.Context(), *r)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
