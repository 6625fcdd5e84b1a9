package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parksystem-backend/internal/model"
)

// Pricing returns the price list of userID, or the defaults when none was stored.
func (s *gormStore) Pricing(ctx context.Context, userID int64) (model.PricingSettings, error) {
	var p model.PricingSettings
	err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DefaultPricing(userID), nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to load pricing of user %d: %w", userID, err)
	}
	return p, nil
}

func (s *gormStore) SavePricing(ctx context.Context, p model.PricingSettings) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&p).Error
}

// SaveSubscription creates a subscription or moves an existing endpoint to sub's user and keys.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *gormStore) Subscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) Subscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *gormStore) AllSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FlightStatus returns the cached provider answer for a flight and day.
func (s *gormStore) FlightStatus(ctx context.Context, flightNumber, date string) (*model.FlightStatusCache, error) {
	var entry model.FlightStatusCache
	if err := s.db.WithContext(ctx).
		First(&entry, "flight_number = ? AND flight_date = ?", flightNumber, date).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (s *gormStore) SaveFlightStatus(ctx context.Context, entry *model.FlightStatusCache) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "flight_number"}, {Name: "flight_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "last_updated"}),
	}).Create(entry).Error
}
