package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/reservation"
)

// ListReservations returns every reservation of ownerID ordered by return date.
func (s *gormStore) ListReservations(ctx context.Context, ownerID int64) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("return_date ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return out, nil
}

func (s *gormStore) GetReservation(ctx context.Context, ownerID, id int64) (*model.Reservation, error) {
	return getReservation(s.db.WithContext(ctx), ownerID, id)
}

func getReservation(tx *gorm.DB, ownerID, id int64) (*model.Reservation, error) {
	var r model.Reservation
	if err := tx.Where("owner_id = ?", ownerID).First(&r, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// CreateReservation stores r. When the owner has a plan, the number of active reservations
// must stay below its limit.
func (s *gormStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile model.UserProfile
		if err := tx.First(&profile, "user_id = ?", r.OwnerID).Error; err != nil {
			return notFound(err)
		}

		if profile.Plan != "" {
			var active int64
			if err := tx.Model(&model.Reservation{}).
				Where("owner_id = ? AND is_completed = ?", r.OwnerID, false).
				Count(&active).Error; err != nil {
				return err
			}
			if int(active) >= profile.Limit() {
				return ErrPlanLimitReached
			}
		}

		r.ReturnDate = r.ReturnDate.UTC()
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return recountUsage(tx, r.OwnerID)
	})
}

// UpdateReservation writes the editable fields of r. A changed reservation is reminded again.
func (s *gormStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	r.ReminderSentAt = nil
	r.ReturnDate = r.ReturnDate.UTC()
	res := s.db.WithContext(ctx).
		Model(r).
		Where("owner_id = ?", r.OwnerID).
		Select(reservationColumns).
		Updates(r)
	if res.Error != nil {
		return fmt.Errorf("failed to update reservation %d: %w", r.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteReservation(ctx context.Context, ownerID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("owner_id = ?", ownerID).Delete(&model.Reservation{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete reservation %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return recountUsage(tx, ownerID)
	})
}

// ToggleComplete flips the completion state of a reservation and sets the same state on every
// reservation of the owner sharing its flight and return day in loc.
func (s *gormStore) ToggleComplete(ctx context.Context, ownerID, id int64, loc *time.Location) (*model.Reservation, error) {
	var toggled *model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := getReservation(tx, ownerID, id)
		if err != nil {
			return err
		}
		r.IsCompleted = !r.IsCompleted

		ids := []int64{r.ID}
		if flight := r.Flight(); flight != "" {
			var candidates []model.Reservation
			if err := tx.Where("owner_id = ? AND id <> ? AND TRIM(flight_number) = ?", ownerID, r.ID, flight).
				Find(&candidates).Error; err != nil {
				return err
			}
			for _, c := range reservation.Companions(candidates, *r, loc) {
				ids = append(ids, c.ID)
			}
		}

		if err := tx.Model(&model.Reservation{}).
			Where("owner_id = ? AND id IN ?", ownerID, ids).
			Update("is_completed", r.IsCompleted).Error; err != nil {
			return fmt.Errorf("failed to toggle reservation %d: %w", id, err)
		}
		toggled = r
		return recountUsage(tx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

func (s *gormStore) TogglePayment(ctx context.Context, ownerID, id int64) (*model.Reservation, error) {
	var toggled *model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := getReservation(tx, ownerID, id)
		if err != nil {
			return err
		}
		r.IsPaid = !r.IsPaid
		if err := tx.Model(r).Update("is_paid", r.IsPaid).Error; err != nil {
			return fmt.Errorf("failed to toggle payment of reservation %d: %w", id, err)
		}
		toggled = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// DueReminders returns active, not yet reminded reservations returning in [from, until].
// Return dates are stored in UTC so SQLite can compare them as text.
func (s *gormStore) DueReminders(ctx context.Context, from, until time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("is_completed = ? AND reminder_sent_at IS NULL AND return_date >= ? AND return_date <= ?", false, from.UTC(), until.UTC()).
		Order("owner_id ASC, return_date ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return out, nil
}

func (s *gormStore) MarkReminded(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id IN ?", ids).
		Update("reminder_sent_at", at).Error
}
