package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/mw"
	"parksystem-backend/internal/reservation"
)

type reservationItem struct {
	model.Reservation
	IsGroup bool                `json:"isGroup"`
	Urgency reservation.Urgency `json:"urgency"`
}

type groupItem struct {
	IsGroup      bool              `json:"isGroup"`
	ID           string            `json:"id"`
	FlightNumber string            `json:"flightNumber"`
	Reservations []reservationItem `json:"reservations"`
}

type viewResponse struct {
	Tab     reservation.Tab `json:"tab"`
	Items   []any           `json:"items"`
	Visible int             `json:"visible"`
	Total   int             `json:"total"`
	Matched int             `json:"matched"`
	HasMore bool            `json:"hasMore"`
}

func newReservationItem(r model.Reservation, now time.Time) reservationItem {
	return reservationItem{Reservation: r, Urgency: reservation.UrgencyOf(r.ReturnDate, now)}
}

func encodeItems(items []reservation.Item, now time.Time) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		if !it.IsGroup() {
			out = append(out, newReservationItem(*it.Reservation, now))
			continue
		}
		members := make([]reservationItem, 0, len(it.Group.Reservations))
		for _, r := range it.Group.Reservations {
			members = append(members, newReservationItem(r, now))
		}
		out = append(out, groupItem{
			IsGroup:      true,
			ID:           it.Group.ID,
			FlightNumber: it.Group.FlightNumber,
			Reservations: members,
		})
	}
	return out
}

// GetView returns the display list for a tab, search text and number of loaded pages.
func (h *Handler) GetView(c *gin.Context) {
	tab, err := reservation.ParseTab(c.Query("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pages := 1
	if raw := c.Query("pages"); raw != "" {
		pages, err = strconv.Atoi(raw)
		if err != nil || pages < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pages must be a positive number"})
			return
		}
	}

	all, err := h.store.ListReservations(c.Request.Context(), mw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	now := h.now()
	start := time.Now()
	view := reservation.Build(all, tab, c.Query("q"), pages*h.pageSize, now)
	h.metrics.ObserveView(time.Since(start).Seconds())

	c.JSON(http.StatusOK, viewResponse{
		Tab:     view.Tab,
		Items:   encodeItems(view.Items, now),
		Visible: len(view.Items),
		Total:   view.Total,
		Matched: view.Matched,
		HasMore: view.HasMore,
	})
}

type timelineEntry struct {
	ID           int64                      `json:"id"`
	LicensePlate string                     `json:"licensePlate"`
	CustomerName string                     `json:"customerName"`
	FlightNumber string                     `json:"flightNumber"`
	ReturnDate   time.Time                  `json:"returnDate"`
	Status       reservation.TimelineStatus `json:"status"`
	Position     float64                    `json:"position"`
}

type timelineCluster struct {
	Time         time.Time `json:"time"`
	Position     float64   `json:"position"`
	Reservations []int64   `json:"reservations"`
}

type pickup struct {
	Reservation reservationItem       `json:"reservation"`
	Countdown   reservation.Countdown `json:"countdown"`
}

type dashboardResponse struct {
	Active     int               `json:"active"`
	Completed  int               `json:"completed"`
	Today      int               `json:"today"`
	Usage      int               `json:"usage"`
	Limit      int               `json:"limit"`
	Percent    int               `json:"percent"`
	Level      string            `json:"level"`
	Timeline   []timelineEntry   `json:"timeline"`
	Clusters   []timelineCluster `json:"clusters"`
	NextPickup *pickup           `json:"nextPickup"`
	LastPickup *pickup           `json:"lastPickup"`
}

// GetDashboard returns the counters, today's timeline and the surrounding pickups.
func (h *Handler) GetDashboard(c *gin.Context) {
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
	summary := reservation.Summarize(all, now)
	limit := u.Profile.Limit()
	percent, level := reservation.UsageLevel(u.Profile.Usage, limit)

	entries := reservation.Today(all, now)
	resp := dashboardResponse{
		Active:    summary.Active,
		Completed: summary.Completed,
		Today:     summary.Today,
		Usage:     u.Profile.Usage,
		Limit:     limit,
		Percent:   percent,
		Level:     level,
		Timeline:  make([]timelineEntry, 0, len(entries)),
		Clusters:  []timelineCluster{},
	}
	for _, e := range entries {
		resp.Timeline = append(resp.Timeline, timelineEntry{
			ID:           e.Reservation.ID,
			LicensePlate: e.Reservation.LicensePlate,
			CustomerName: e.Reservation.CustomerName,
			FlightNumber: e.Reservation.FlightNumber,
			ReturnDate:   e.Reservation.ReturnDate,
			Status:       e.Status,
			Position:     e.Position,
		})
	}
	for _, cluster := range reservation.Clusters(entries) {
		ids := make([]int64, 0, len(cluster))
		for _, e := range cluster {
			ids = append(ids, e.Reservation.ID)
		}
		resp.Clusters = append(resp.Clusters, timelineCluster{
			Time:         cluster[0].Reservation.ReturnDate,
			Position:     cluster[0].Position,
			Reservations: ids,
		})
	}

	if next, ok := reservation.NextPickup(all, now); ok {
		resp.NextPickup = &pickup{
			Reservation: newReservationItem(next, now),
			Countdown:   reservation.Split(next.ReturnDate.Sub(now)),
		}
	}
	if last, ok := reservation.LastPickup(all, now); ok {
		resp.LastPickup = &pickup{
			Reservation: newReservationItem(last, now),
			Countdown:   reservation.Split(now.Sub(last.ReturnDate)),
		}
	}

	c.JSON(http.StatusOK, resp)
}
