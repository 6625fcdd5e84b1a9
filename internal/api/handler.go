package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/auth"
	"parksystem-backend/internal/flight"
	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/metrics"
	"parksystem-backend/internal/pricing"
	"parksystem-backend/internal/reservation"
	"parksystem-backend/internal/store"
)

// Deps are the services the API handlers are built on.
type Deps struct {
	Store    store.Store
	Auth     *auth.Service
	Flights  *flight.Service
	WebPush  *webpush.Options
	Location *time.Location
	PageSize int
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Clock    func() time.Time // defaults to time.Now
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	auth     *auth.Service
	flights  *flight.Service
	webpush  *webpush.Options
	loc      *time.Location
	pageSize int
	log      logger.Logger
	metrics  *metrics.Metrics
	clock    func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:    d.Store,
		auth:     d.Auth,
		flights:  d.Flights,
		webpush:  d.WebPush,
		loc:      d.Location,
		pageSize: d.PageSize,
		log:      d.Logger,
		metrics:  d.Metrics,
		clock:    time.Now,
	}
	if d.Clock != nil {
		h.clock = d.Clock
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.pageSize <= 0 {
		h.pageSize = reservation.DefaultPageSize
	}
	if h.log == nil {
		h.log = logger.NewNop()
	}
	return h
}

// now is the current time in the configured timezone; calendar days are taken from it.
func (h *Handler) now() time.Time {
	return h.clock().In(h.loc)
}

// fail writes the response for err.
func (h *Handler) fail(c *gin.Context, err error) {
	var invalid *reservation.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "field": invalid.Field})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrPlanLimitReached):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, pricing.ErrNegativePrice),
		errors.Is(err, flight.ErrNoFlight):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrGoogleDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// idParam parses the :id path parameter, answering 400 when it is not a number.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
