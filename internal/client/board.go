package client

import (
	"context"
	"slices"
	"sync"
	"time"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/reservation"
)

// Remote is the part of the API the board mutates through.
type Remote interface {
	Reservations(ctx context.Context) ([]model.Reservation, error)
	CreateReservation(ctx context.Context, d reservation.Draft) (model.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, d reservation.Draft) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64) (model.Reservation, error)
	TogglePayment(ctx context.Context, id int64) (model.Reservation, error)
}

// Board is the operator's local copy of their reservations. Mutations are validated locally,
// sent to the server and, once it accepted them, applied to the copy.
type Board struct {
	mu     sync.Mutex
	remote Remote
	loc    *time.Location
	all    []model.Reservation
}

// NewBoard creates an empty board. Flight days are compared in loc.
func NewBoard(remote Remote, loc *time.Location) *Board {
	return &Board{remote: remote, loc: loc}
}

// Refresh replaces the local copy with the server's list.
func (b *Board) Refresh(ctx context.Context) error {
	all, err := b.remote.Reservations(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.all = all
	b.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the local reservations.
func (b *Board) Snapshot() []model.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.all)
}

// Find returns the local reservation with id.
func (b *Board) Find(id int64) (model.Reservation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return model.Reservation{}, false
	}
	return b.all[i], true
}

func (b *Board) index(id int64) int {
	return slices.IndexFunc(b.all, func(r model.Reservation) bool { return r.ID == id })
}

// Add creates a reservation.
func (b *Board) Add(ctx context.Context, d reservation.Draft) (model.Reservation, error) {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return model.Reservation{}, err
	}
	created, err := b.remote.CreateReservation(ctx, d)
	if err != nil {
		return model.Reservation{}, err
	}
	b.mu.Lock()
	b.all = append(b.all, created)
	b.mu.Unlock()
	return created, nil
}

// Edit replaces the editable fields of reservation id with d.
func (b *Board) Edit(ctx context.Context, id int64, d reservation.Draft) (model.Reservation, error) {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return model.Reservation{}, err
	}
	updated, err := b.remote.UpdateReservation(ctx, id, d)
	if err != nil {
		return model.Reservation{}, err
	}
	b.replace(updated)
	return updated, nil
}

// Remove deletes reservation id.
func (b *Board) Remove(ctx context.Context, id int64) error {
	if err := b.remote.DeleteReservation(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(id); i >= 0 {
		b.all = slices.Delete(b.all, i, i+1)
	}
	return nil
}

// ToggleComplete flips the completion of id; its flight companions follow.
func (b *Board) ToggleComplete(ctx context.Context, id int64) (model.Reservation, error) {
	updated, err := b.remote.ToggleComplete(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	b.mu.Lock()
	b.all = reservation.ApplyCompletion(b.all, updated, b.loc)
	b.mu.Unlock()
	return updated, nil
}

// TogglePayment flips the paid flag of id.
func (b *Board) TogglePayment(ctx context.Context, id int64) (model.Reservation, error) {
	updated, err := b.remote.TogglePayment(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	b.replace(updated)
	return updated, nil
}

func (b *Board) replace(r model.Reservation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(r.ID); i >= 0 {
		b.all[i] = r
		return
	}
	b.all = append(b.all, r)
}
