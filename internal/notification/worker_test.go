package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func reply(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

var subscriptionColumns = []string{"endpoint", "user_id", "p256dh", "auth", "created_at"}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, store.NewGormStore(db), &webpush.Options{}, logger.NewNop(), nil)

	// Dispatch a job
	wp.Dispatch(Job{UserID: 123})

	// Check if the job is in the channel
	select {
	case job := <-wp.jobs:
		assert.Equal(t, int64(123), job.UserID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, store.NewGormStore(gormDB), &webpush.Options{}, logger.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification for one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.JSONEq(t, `{"head":"Upcoming pickup","body":"WA 12345 (Jan) returns at 08:15"}`, string(payload))
				wg.Done()
				return reply(http.StatusCreated), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(subscriptionColumns).
				AddRow("https://example.com/push", 7, "test_p256dh", "test_auth", time.Now()))

		wp.Dispatch(Job{UserID: 7, Message: Message{Head: "Upcoming pickup", Body: "WA 12345 (Jan) returns at 08:15"}})
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return reply(http.StatusGone), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs(8).
			WillReturnRows(sqlmock.NewRows(subscriptionColumns).
				AddRow("https://example.com/expired", 8, "k", "a", time.Now()))

		// Expect the delete operation
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(Job{UserID: 8})

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})
}

func TestWorkerPool_Deliver(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, store.NewGormStore(gormDB), &webpush.Options{}, logger.NewNop(), nil)

	calls := 0
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			calls++
			switch sub.Endpoint {
			case "https://push/ok":
				return reply(http.StatusCreated), nil
			case "https://push/bad":
				return reply(http.StatusBadRequest), nil
			}
			return nil, errors.New("connection refused")
		},
	}

	mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns).
			AddRow("https://push/ok", 1, "k", "a", time.Now()).
			AddRow("https://push/bad", 2, "k", "a", time.Now()).
			AddRow("https://push/down", 3, "k", "a", time.Now()))

	res := wp.Deliver(context.Background(), Job{Broadcast: true, Message: Message{Head: "h", Body: "b"}})
	assert.Equal(t, Result{Sent: 1, Failed: 2}, res)
	assert.Equal(t, 3, calls)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id = \$1`).
		WillReturnError(errors.New("db down"))
	assert.Equal(t, Result{}, wp.Deliver(context.Background(), Job{UserID: 5}))
}
