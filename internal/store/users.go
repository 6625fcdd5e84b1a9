package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parksystem-backend/internal/model"
)

// CreateUser stores u together with an empty profile and the default price list.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			return ErrUserExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}

		if err := tx.Omit("Profile").Create(u).Error; err != nil {
			return fmt.Errorf("failed to create user %q: %w", u.Username, err)
		}

		u.Profile.UserID = u.ID
		if err := tx.Create(&u.Profile).Error; err != nil {
			return fmt.Errorf("failed to create profile for user %d: %w", u.ID, err)
		}

		pricing := model.DefaultPricing(u.ID)
		if err := tx.Create(&pricing).Error; err != nil {
			return fmt.Errorf("failed to create pricing for user %d: %w", u.ID, err)
		}
		return nil
	})
}

func (s *gormStore) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *gormStore) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, ErrNotFound
	}
	return s.findUser(ctx, "email = ?", email)
}

func (s *gormStore) findUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Preload("Profile").Where(query, arg).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// SetPlan changes the plan of a user and returns the updated profile.
func (s *gormStore) SetPlan(ctx context.Context, userID int64, plan string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "user_id = ?", userID).Error; err != nil {
			return notFound(err)
		}
		profile.Plan = plan
		return tx.Model(&profile).Update("plan", plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *gormStore) SetLanguage(ctx context.Context, userID int64, language string) error {
	res := s.db.WithContext(ctx).Model(&model.UserProfile{}).Where("user_id = ?", userID).Update("language", language)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// recountUsage stores the number of active reservations of ownerID in the profile.
func recountUsage(tx *gorm.DB, ownerID int64) error {
	var active int64
	if err := tx.Model(&model.Reservation{}).
		Where("owner_id = ? AND is_completed = ?", ownerID, false).
		Count(&active).Error; err != nil {
		return fmt.Errorf("failed to count reservations of user %d: %w", ownerID, err)
	}
	return tx.Model(&model.UserProfile{}).Where("user_id = ?", ownerID).Update("usage", active).Error
}
