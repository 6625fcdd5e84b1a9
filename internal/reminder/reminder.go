// Package reminder periodically notifies operators about pickups that are coming up.
package reminder

import (
	"context"
	"fmt"
	"time"

	"parksystem-backend/config"
	"parksystem-backend/internal/i18n"
	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/model"
	"parksystem-backend/internal/notification"
	"parksystem-backend/internal/reservation"
	"parksystem-backend/internal/store"
)

// Dispatcher queues push jobs.
type Dispatcher interface {
	Dispatch(job notification.Job)
}

// Service scans for reservations returning within the lead time and sends one reminder per
// flight group or standalone reservation to its owner.
type Service struct {
	cfg   *config.ReminderConfig
	loc   *time.Location
	store store.Store
	pool  Dispatcher
	log   logger.Logger
	now   func() time.Time
}

// NewService creates a reminder service. Reminder texts show times in loc.
func NewService(cfg *config.ReminderConfig, loc *time.Location, s store.Store, pool Dispatcher, log logger.Logger) *Service {
	return &Service{cfg: cfg, loc: loc, store: s, pool: pool, log: log, now: time.Now}
}

// Run starts the reminder loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("reminders are disabled, not starting")
		return
	}
	s.log.Info("starting reminder service", "interval", s.cfg.Interval, "lead", s.cfg.Lead)

	s.runCycle(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder service shutting down")
			return
		case <-timer.C:
			s.runCycle(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	sent, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error("reminder cycle failed", "error", err)
		return
	}
	if sent > 0 {
		s.log.Info("reminders dispatched", "count", sent)
	}
}

// RunOnce dispatches the reminders that are due now and returns how many jobs were queued.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.store.DueReminders(ctx, now, now.Add(s.cfg.Lead))
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	byOwner := make(map[int64][]model.Reservation)
	var owners []int64
	for _, r := range due {
		if _, ok := byOwner[r.OwnerID]; !ok {
			owners = append(owners, r.OwnerID)
		}
		byOwner[r.OwnerID] = append(byOwner[r.OwnerID], r)
	}

	jobs := 0
	for _, ownerID := range owners {
		lang := ""
		if u, err := s.store.UserByID(ctx, ownerID); err != nil {
			s.log.Warn("could not load reminder recipient", "user_id", ownerID, "error", err)
		} else {
			lang = u.Profile.Language
		}
		tr := i18n.For(lang)

		var ids []int64
		for _, item := range reservation.GroupByFlight(byOwner[ownerID], s.loc) {
			s.pool.Dispatch(notification.Job{UserID: ownerID, Message: s.message(tr, item)})
			jobs++
			for _, r := range item.Members() {
				ids = append(ids, r.ID)
			}
		}
		if err := s.store.MarkReminded(ctx, ids, now); err != nil {
			return jobs, fmt.Errorf("failed to mark reminders of user %d: %w", ownerID, err)
		}
	}
	return jobs, nil
}

func (s *Service) message(tr i18n.Translator, item reservation.Item) notification.Message {
	at := item.EffectiveTime().In(s.loc).Format("15:04")
	if item.IsGroup() {
		return notification.Message{
			Head: tr.T(i18n.ReminderHead),
			Body: tr.T(i18n.ReminderGroup, item.Group.FlightNumber, len(item.Group.Reservations), at),
		}
	}
	r := item.Reservation
	return notification.Message{
		Head: tr.T(i18n.ReminderHead),
		Body: tr.T(i18n.ReminderSingle, r.LicensePlate, r.CustomerName, at),
	}
}
