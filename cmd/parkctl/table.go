package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/reservation"
)

// parseWhen accepts RFC 3339 or "2006-01-02 15:04" in loc.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD HH:MM", s)
	}
	return t, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printRow(tw io.Writer, indent string, r model.Reservation, now time.Time) {
	status := string(reservation.UrgencyOf(r.ReturnDate, now))
	if r.IsCompleted {
		status = "done"
	}
	when := "-"
	if r.HasReturnDate() {
		when = r.ReturnDate.In(now.Location()).Format("2006-01-02 15:04")
	}
	fmt.Fprintf(tw, "%s%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
		indent, r.ID, when, r.LicensePlate, r.CustomerName, r.Flight(), r.PassengerCount, yesNo(r.IsPaid), status)
}

// printView renders a display list, flight groups as a header followed by their members.
func printView(w io.Writer, view reservation.View, now time.Time) error {
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "No reservations.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRETURN\tPLATE\tCUSTOMER\tFLIGHT\tPAX\tPAID\tSTATUS")
	for _, item := range view.Items {
		if !item.IsGroup() {
			printRow(tw, "", *item.Reservation, now)
			continue
		}
		fmt.Fprintf(tw, "flight %s (%d)\t\t\t\t\t\t\t\n", item.Group.FlightNumber, len(item.Group.Reservations))
		for _, r := range item.Group.Reservations {
			printRow(tw, "  ", r, now)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.HasMore {
		fmt.Fprintf(w, "%d of %d shown, use --pages to load more\n", len(view.Items), view.Total)
	}
	return nil
}

// printTimeline renders today's pickups with their timeline status.
func printTimeline(w io.Writer, entries []reservation.TimelineEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No pickups today.")
		return
	}
	for _, cluster := range reservation.Clusters(entries) {
		parts := make([]string, 0, len(cluster))
		for _, e := range cluster {
			parts = append(parts, fmt.Sprintf("%s [%s]", e.Reservation.LicensePlate, e.Status))
		}
		fmt.Fprintf(w, "%s  %s\n", cluster[0].Reservation.ReturnDate.In(now.Location()).Format("15:04"), strings.Join(parts, ", "))
	}
}

func formatCountdown(c reservation.Countdown) string {
	if c.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", c.Days, c.Hours, c.Minutes, c.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}
