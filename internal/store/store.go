package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"parksystem-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	SetPlan(ctx context.Context, userID int64, plan string) (*model.UserProfile, error)
	SetLanguage(ctx context.Context, userID int64, language string) error

	ListReservations(ctx context.Context, ownerID int64) ([]model.Reservation, error)
	GetReservation(ctx context.Context, ownerID, id int64) (*model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	DeleteReservation(ctx context.Context, ownerID, id int64) error
	ToggleComplete(ctx context.Context, ownerID, id int64, loc *time.Location) (*model.Reservation, error)
	TogglePayment(ctx context.Context, ownerID, id int64) (*model.Reservation, error)

	Pricing(ctx context.Context, userID int64) (model.PricingSettings, error)
	SavePricing(ctx context.Context, p model.PricingSettings) error

	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	Subscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	Subscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	AllSubscriptions(ctx context.Context) ([]model.PushSubscription, error)

	FlightStatus(ctx context.Context, flightNumber, date string) (*model.FlightStatusCache, error)
	SaveFlightStatus(ctx context.Context, entry *model.FlightStatusCache) error

	DueReminders(ctx context.Context, from, until time.Time) ([]model.Reservation, error)
	MarkReminded(ctx context.Context, ids []int64, at time.Time) error

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB returns the underlying connection.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
