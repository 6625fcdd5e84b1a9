package flight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/metrics"
	"parksystem-backend/internal/model"
	"parksystem-backend/internal/store"
)

// Service resolves the flight status of reservations, keeping provider answers in the
// database for ttl.
type Service struct {
	provider Provider
	store    store.Store
	ttl      time.Duration
	loc      *time.Location
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewService creates a flight status service. Flight days are taken in loc.
func NewService(p Provider, s store.Store, ttl time.Duration, loc *time.Location, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{provider: p, store: s, ttl: ttl, loc: loc, log: log, metrics: m, now: time.Now}
}

// Status returns the status of r's flight. A stale cached answer is returned when the
// provider fails.
func (s *Service) Status(ctx context.Context, r model.Reservation) (*Status, error) {
	flight := r.Flight()
	if flight == "" {
		return nil, ErrNoFlight
	}
	date := r.ReturnDate.In(s.loc).Format("2006-01-02")

	cached, err := s.store.FlightStatus(ctx, flight, date)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn("flight cache read failed", "flight", flight, "error", err)
	}
	var stale *Status
	if cached != nil {
		var st Status
		if err := json.Unmarshal(cached.Payload, &st); err == nil {
			if s.now().Sub(cached.LastUpdated) < s.ttl {
				s.metrics.FlightLookup("cache")
				return &st, nil
			}
			stale = &st
		}
	}

	st, err := s.provider.Lookup(ctx, flight, r.ReturnDate)
	if err != nil {
		if stale != nil {
			s.log.Warn("flight provider failed, serving stale status", "flight", flight, "error", err)
			s.metrics.FlightLookup("stale")
			return stale, nil
		}
		s.metrics.FlightLookup("error")
		return nil, fmt.Errorf("flight status lookup failed: %w", err)
	}
	s.metrics.FlightLookup("provider")

	payload, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	entry := &model.FlightStatusCache{FlightNumber: flight, FlightDate: date, Payload: payload, LastUpdated: s.now()}
	if err := s.store.SaveFlightStatus(ctx, entry); err != nil {
		s.log.Warn("flight cache write failed", "flight", flight, "error", err)
	}
	return st, nil
}
