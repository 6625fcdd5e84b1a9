package model

import "time"

// FlightStatusCache stores the last provider answer for a flight on a given day.
type FlightStatusCache struct {
	FlightNumber string    `gorm:"primaryKey;size:20"`
	FlightDate   string    `gorm:"primaryKey;size:10"` // YYYY-MM-DD
	Payload      []byte    `gorm:"not null"`
	LastUpdated  time.Time `gorm:"not null;index"`
}
