// Package flight looks up the arrival status of the flight a customer returns on.
package flight

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNoFlight is returned for reservations without a flight number.
var ErrNoFlight = errors.New("reservation has no flight number")

// Status is the arrival status of a flight.
type Status struct {
	FlightNumber  string     `json:"flightNumber"`
	Status        string     `json:"status"`
	StatusColor   string     `json:"statusColor"`
	ScheduledTime time.Time  `json:"scheduledTime"`
	ActualTime    *time.Time `json:"actualTime"`
	Terminal      string     `json:"terminal"`
	TrackingLink  string     `json:"trackingLink"`
}

// Provider answers flight status queries.
type Provider interface {
	Lookup(ctx context.Context, flightNumber string, scheduled time.Time) (*Status, error)
}

// ColorOf maps a status text to the colour the clients render it in.
func ColorOf(status string) string {
	switch s := strings.ToLower(status); {
	case strings.Contains(s, "cancel"), strings.Contains(s, "divert"):
		return "red"
	case strings.Contains(s, "delay"):
		return "orange"
	case strings.Contains(s, "on time"), strings.Contains(s, "landed"), strings.Contains(s, "arrived"):
		return "green"
	case strings.Contains(s, "scheduled"), strings.Contains(s, "en route"), strings.Contains(s, "active"):
		return "blue"
	}
	return "gray"
}

// TrackingLink returns a public tracking page for flightNumber.
func TrackingLink(flightNumber string) string {
	return "https://www.flightradar24.com/data/flights/" + strings.ToLower(strings.ReplaceAll(flightNumber, " ", ""))
}

// StaticProvider reports every flight as on time at its scheduled moment, terminal A.
// It is used when no status service is configured.
type StaticProvider struct{}

func (StaticProvider) Lookup(_ context.Context, flightNumber string, scheduled time.Time) (*Status, error) {
	actual := scheduled
	return &Status{
		FlightNumber:  flightNumber,
		Status:        "On Time",
		StatusColor:   ColorOf("On Time"),
		ScheduledTime: scheduled,
		ActualTime:    &actual,
		Terminal:      "A",
		TrackingLink:  TrackingLink(flightNumber),
	}, nil
}
