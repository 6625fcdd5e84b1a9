package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrPlanLimitReached is returned when creating a reservation would exceed the plan limit.
	ErrPlanLimitReached = errors.New("plan limit reached")
	// ErrUserExists is returned on registration with a taken username.
	ErrUserExists = errors.New("username already taken")
)

// mutable columns of a reservation
var reservationColumns = []string{
	"license_plate", "customer_name", "phone_number", "return_date", "flight_number",
	"passenger_count", "is_paid", "price", "reminder_sent_at",
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
