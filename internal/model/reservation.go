package model

import (
	"strings"
	"time"
)

// Reservation is a booking for a parked vehicle with an expected return time.
type Reservation struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	OwnerID        int64      `gorm:"index;not null" json:"owner"`
	LicensePlate   string     `gorm:"size:20;not null" json:"licensePlate"`
	CustomerName   string     `gorm:"size:100;not null" json:"customerName"`
	PhoneNumber    string     `gorm:"size:20" json:"phone_number"`
	ReturnDate     time.Time  `gorm:"index;not null" json:"returnDate"`
	FlightNumber   string     `gorm:"size:10;index" json:"flightNumber"`
	PassengerCount int        `gorm:"not null;default:1" json:"passenger_count"`
	IsCompleted    bool       `gorm:"not null;index" json:"is_completed"`
	IsPaid         bool       `gorm:"not null" json:"is_paid"`
	Price          *float64   `json:"price"`
	ReminderSentAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

// Flight returns the trimmed flight number, or "" when the reservation has none.
func (r Reservation) Flight() string {
	return strings.TrimSpace(r.FlightNumber)
}

// HasReturnDate reports whether the return moment is known.
func (r Reservation) HasReturnDate() bool {
	return !r.ReturnDate.IsZero()
}
