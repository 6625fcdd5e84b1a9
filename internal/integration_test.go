package internal

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
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
	"parksystem-backend/internal/reminder"
	"parksystem-backend/internal/store"
)

// syncDispatcher delivers every job right away so the test can inspect the results.
type syncDispatcher struct {
	ctx     context.Context
	pool    *notification.WorkerPool
	jobs    []notification.Job
	results []notification.Result
}

func (d *syncDispatcher) Dispatch(job notification.Job) {
	d.jobs = append(d.jobs, job)
	d.results = append(d.results, d.pool.Deliver(d.ctx, job))
}

// browserKeys returns the keys a browser would hand out with a push subscription.
func browserKeys(t *testing.T) (p256dh, auth string) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()), base64.RawURLEncoding.EncodeToString(secret)
}

// TestReminderLifecycle follows reservations from creation to a delivered reminder,
// including the removal of a subscription the push service reports as gone.
func TestReminderLifecycle(t *testing.T) {
	// --- Test Setup ---

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	// 2. Mock push service: /gone answers like an expired subscription.
	var mu sync.Mutex
	hits := map[string]int{}
	pushService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer pushService.Close()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	options := &webpush.Options{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subscriber:      "mailto:ops@example.com",
		TTL:             60,
	}

	// 3. An English speaking operator with two subscribed browsers.
	ctx := context.Background()
	appStore := store.NewGormStore(testDB)
	user := &model.User{Username: "jan", Email: "jan@example.com"}
	require.NoError(t, appStore.CreateUser(ctx, user))
	require.NoError(t, appStore.SetLanguage(ctx, user.ID, "en"))
	for _, path := range []string{"/ok", "/gone"} {
		p256dh, auth := browserKeys(t)
		require.NoError(t, appStore.SaveSubscription(ctx, &model.PushSubscription{
			Endpoint: pushService.URL + path, UserID: user.ID, P256DH: p256dh, Auth: auth,
		}))
	}

	// 4. Reservations: a flight group and a single car returning within the hour, one later
	// and one already completed.
	now := time.Now().UTC()
	soon := now.Add(20 * time.Minute)
	reservations := []*model.Reservation{
		{LicensePlate: "WA 1", CustomerName: "Anna", FlightNumber: "LO1", ReturnDate: soon},
		{LicensePlate: "WA 2", CustomerName: "Bartek", FlightNumber: "LO1", ReturnDate: soon},
		{LicensePlate: "KR 3", CustomerName: "Celina", ReturnDate: now.Add(40 * time.Minute)},
		{LicensePlate: "GD 4", CustomerName: "Dawid", ReturnDate: now.Add(3 * time.Hour)},
		{LicensePlate: "PO 5", CustomerName: "Ewa", ReturnDate: now.Add(10 * time.Minute), IsCompleted: true},
	}
	for _, r := range reservations {
		r.OwnerID = user.ID
		r.PassengerCount = 1
		require.NoError(t, appStore.CreateReservation(ctx, r))
	}

	pool := notification.NewWorkerPool(1, appStore, options, logger.NewNop(), nil)
	dispatcher := &syncDispatcher{ctx: ctx, pool: pool}
	svc := reminder.NewService(&config.ReminderConfig{Enabled: true, Lead: time.Hour}, time.UTC, appStore, dispatcher, logger.NewNop())

	// --- Cycle 1: due reminders are sent ---
	t.Run("Cycle 1: Reminders Are Sent", func(t *testing.T) {
		jobs, err := svc.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, jobs, "one job for the flight group and one for the single car")

		require.Len(t, dispatcher.jobs, 2)
		assert.Equal(t, "Upcoming pickup", dispatcher.jobs[0].Message.Head)
		assert.Equal(t, "Flight LO1: 2 reservations, arriving at "+soon.Format("15:04"), dispatcher.jobs[0].Message.Body)
		assert.Equal(t, "KR 3 (Celina) returns at "+now.Add(40*time.Minute).Format("15:04"), dispatcher.jobs[1].Message.Body)

		assert.Equal(t, notification.Result{Sent: 1, Expired: 1}, dispatcher.results[0])
		assert.Equal(t, notification.Result{Sent: 1}, dispatcher.results[1])
		assert.Equal(t, map[string]int{"/ok": 2, "/gone": 1}, hits)

		subs, err := appStore.Subscriptions(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, subs, 1, "the expired subscription should be deleted")
		assert.Equal(t, pushService.URL+"/ok", subs[0].Endpoint)

		var reminded []model.Reservation
		require.NoError(t, testDB.Where("reminder_sent_at IS NOT NULL").Order("id").Find(&reminded).Error)
		plates := []string{}
		for _, r := range reminded {
			plates = append(plates, r.LicensePlate)
		}
		assert.Equal(t, []string{"WA 1", "WA 2", "KR 3"}, plates)
	})

	// --- Cycle 2: nothing is sent twice ---
	t.Run("Cycle 2: Nothing Is Repeated", func(t *testing.T) {
		jobs, err := svc.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, jobs)
		assert.Equal(t, map[string]int{"/ok": 2, "/gone": 1}, hits)
	})

	// --- Cycle 3: an edited reservation is reminded again ---
	t.Run("Cycle 3: Edited Reservation Is Reminded Again", func(t *testing.T) {
		celina := reservations[2]
		celina.CustomerName = "Celina Nowak"
		require.NoError(t, appStore.UpdateReservation(ctx, celina))

		jobs, err := svc.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, jobs)
		assert.Contains(t, dispatcher.jobs[len(dispatcher.jobs)-1].Message.Body, "Celina Nowak")
	})
}
