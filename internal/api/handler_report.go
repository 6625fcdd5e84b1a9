package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/i18n"
	"parksystem-backend/internal/mw"
	"parksystem-backend/internal/report"
	"parksystem-backend/internal/reservation"
)

// GetPickupSheet renders today's pickups as a PDF in the caller's language.
func (h *Handler) GetPickupSheet(c *gin.Context) {
	ctx := c.Request.Context()
	uid := mw.UserID(c)

	u, err := h.store.UserByID(ctx, uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	all, err := h.store.ListReservations(ctx, uid)
	if err != nil {
		h.fail(c, err)
		return
	}

	now := h.now()
	items := reservation.GroupByFlight(reservation.Filter(all, reservation.TabToday, "", now), h.loc)
	tr := i18n.For(u.Profile.Language, c.GetHeader("Accept-Language"))

	var buf bytes.Buffer
	if err := report.PickupSheet(&buf, items, now, h.loc, tr); err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("pickups-%s.pdf", now.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
