package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parksystem-backend/config"
	"parksystem-backend/internal/db"
	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/model"
	"parksystem-backend/internal/notification"
	"parksystem-backend/internal/store"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []notification.Job
}

func (d *recordingDispatcher) Dispatch(job notification.Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

func setup(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB), gormDB
}

func TestService_RunOnce(t *testing.T) {
	s, gormDB := setup(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	en := &model.User{Username: "en", Profile: model.UserProfile{Language: "en"}}
	pl := &model.User{Username: "pl"}
	require.NoError(t, s.CreateUser(ctx, en))
	require.NoError(t, s.CreateUser(ctx, pl))

	rows := []model.Reservation{
		{OwnerID: en.ID, LicensePlate: "WA 1", CustomerName: "Jan", FlightNumber: "LO281", ReturnDate: now.Add(15 * time.Minute), PassengerCount: 1},
		{OwnerID: en.ID, LicensePlate: "WA 2", CustomerName: "Ewa", FlightNumber: "LO281", ReturnDate: now.Add(20 * time.Minute), PassengerCount: 1},
		{OwnerID: en.ID, LicensePlate: "WA 3", CustomerName: "Olga", ReturnDate: now.Add(40 * time.Minute), PassengerCount: 1},
		{OwnerID: pl.ID, LicensePlate: "KR 9", CustomerName: "Piotr", ReturnDate: now.Add(30 * time.Minute), PassengerCount: 1},
		{OwnerID: pl.ID, LicensePlate: "KR 8", CustomerName: "Later", ReturnDate: now.Add(3 * time.Hour), PassengerCount: 1},
	}
	require.NoError(t, gormDB.Create(&rows).Error)

	d := &recordingDispatcher{}
	cfg := &config.ReminderConfig{Enabled: true, Interval: time.Minute, Lead: time.Hour}
	svc := NewService(cfg, time.UTC, s, d, logger.NewNop())
	svc.now = func() time.Time { return now }

	sent, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	require.Len(t, d.jobs, 3)
	assert.Equal(t, en.ID, d.jobs[0].UserID)
	assert.Equal(t, notification.Message{Head: "Upcoming pickup", Body: "Flight LO281: 2 reservations, arriving at 08:15"}, d.jobs[0].Message)
	assert.Equal(t, "WA 3 (Olga) returns at 08:40", d.jobs[1].Message.Body)
	assert.Equal(t, pl.ID, d.jobs[2].UserID)
	assert.Equal(t, "Zbliża się odbiór", d.jobs[2].Message.Head)
	assert.Equal(t, "KR 9 (Piotr) wraca o 08:30", d.jobs[2].Message.Body)

	// everything due was marked
	sent, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestService_RunDisabled(t *testing.T) {
	s, _ := setup(t)
	d := &recordingDispatcher{}
	svc := NewService(&config.ReminderConfig{Enabled: false}, time.UTC, s, d, logger.NewNop())

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled service should return immediately")
	}
	assert.Zero(t, d.count())
}

func TestService_RunStopsWithContext(t *testing.T) {
	s, _ := setup(t)
	svc := NewService(&config.ReminderConfig{Enabled: true, Interval: 10 * time.Millisecond, Lead: time.Hour}, time.UTC, s, &recordingDispatcher{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("service did not stop")
	}
}
