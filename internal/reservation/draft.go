package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parksystem-backend/internal/model"
)

// ErrInvalidDraft is matched by every ValidationError.
var ErrInvalidDraft = errors.New("invalid reservation")

// ValidationError names the field that made a draft invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDraft
}

// Draft is the editable part of a reservation, as entered on create or edit.
type Draft struct {
	LicensePlate   string    `json:"licensePlate"`
	CustomerName   string    `json:"customerName"`
	PhoneNumber    string    `json:"phone_number"`
	ReturnDate     time.Time `json:"returnDate"`
	FlightNumber   string    `json:"flightNumber"`
	PassengerCount int       `json:"passenger_count"`
	IsPaid         bool      `json:"is_paid"`
	Price          *float64  `json:"price"`
}

// DraftOf returns the editable fields of r.
func DraftOf(r model.Reservation) Draft {
	return Draft{
		LicensePlate:   r.LicensePlate,
		CustomerName:   r.CustomerName,
		PhoneNumber:    r.PhoneNumber,
		ReturnDate:     r.ReturnDate,
		FlightNumber:   r.FlightNumber,
		PassengerCount: r.PassengerCount,
		IsPaid:         r.IsPaid,
		Price:          r.Price,
	}
}

// Normalize trims text fields and defaults the passenger count to one.
func (d *Draft) Normalize() {
	d.LicensePlate = strings.TrimSpace(d.LicensePlate)
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
	d.FlightNumber = strings.TrimSpace(d.FlightNumber)
	if d.PassengerCount == 0 {
		d.PassengerCount = 1
	}
}

// Validate checks the required fields. It does not modify d.
func (d Draft) Validate() error {
	switch {
	case strings.TrimSpace(d.LicensePlate) == "":
		return &ValidationError{Field: "licensePlate", Reason: "required"}
	case len(strings.TrimSpace(d.LicensePlate)) > 20:
		return &ValidationError{Field: "licensePlate", Reason: "at most 20 characters"}
	case strings.TrimSpace(d.CustomerName) == "":
		return &ValidationError{Field: "customerName", Reason: "required"}
	case len(strings.TrimSpace(d.CustomerName)) > 100:
		return &ValidationError{Field: "customerName", Reason: "at most 100 characters"}
	case d.ReturnDate.IsZero():
		return &ValidationError{Field: "returnDate", Reason: "required"}
	case len(strings.TrimSpace(d.FlightNumber)) > 10:
		return &ValidationError{Field: "flightNumber", Reason: "at most 10 characters"}
	case d.PassengerCount < 0:
		return &ValidationError{Field: "passenger_count", Reason: "must be positive"}
	case d.Price != nil && *d.Price < 0:
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// ApplyTo copies the draft onto r.
func (d Draft) ApplyTo(r *model.Reservation) {
	r.LicensePlate = d.LicensePlate
	r.CustomerName = d.CustomerName
	r.PhoneNumber = d.PhoneNumber
	r.ReturnDate = d.ReturnDate
	r.FlightNumber = d.FlightNumber
	r.PassengerCount = d.PassengerCount
	r.IsPaid = d.IsPaid
	r.Price = d.Price
}
