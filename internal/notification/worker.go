package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/metrics"
	"parksystem-backend/internal/model"
	"parksystem-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Message is the push payload shown by the service worker.
type Message struct {
	Head string `json:"head"`
	Body string `json:"body"`
}

// Job is one message for every subscription of a user, or of all users when Broadcast is set.
type Job struct {
	UserID    int64
	Broadcast bool
	Message   Message
}

// Result counts the outcome of one job.
type Result struct {
	Sent    int
	Failed  int
	Expired int
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewWorkerPool creates a new worker pool. m may be nil.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options, log logger.Logger, m *metrics.Metrics) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size), // Buffered channel
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		log:     log,
		metrics: m,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := wp.log.With("worker", id)
	log.Debug("worker started")
	for {
		select {
		case job := <-wp.jobs:
			res := wp.Deliver(ctx, job)
			log.Info("job processed", "user_id", job.UserID, "broadcast", job.Broadcast,
				"sent", res.Sent, "failed", res.Failed, "expired", res.Expired)
		case <-ctx.Done():
			log.Debug("worker shutting down")
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// Deliver sends job synchronously and reports what happened to each subscription.
func (wp *WorkerPool) Deliver(ctx context.Context, job Job) Result {
	var (
		subs []model.PushSubscription
		err  error
	)
	if job.Broadcast {
		subs, err = wp.store.AllSubscriptions(ctx)
	} else {
		subs, err = wp.store.Subscriptions(ctx, job.UserID)
	}
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", "user_id", job.UserID, "error", err)
		return Result{}
	}

	payload, err := json.Marshal(job.Message)
	if err != nil {
		wp.log.Error("failed to encode push payload", "error", err)
		return Result{}
	}

	var res Result
	for _, sub := range subs {
		switch wp.sendNotification(ctx, sub, payload) {
		case http.StatusGone:
			res.Expired++
		case 0:
			res.Failed++
		default:
			res.Sent++
		}
	}
	return res
}

// sendNotification sends a single web push notification and returns the push service status,
// or 0 when the request failed.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) int {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("error sending notification", "endpoint", sub.Endpoint, "error", err)
		wp.metrics.Notification("failed")
		return 0
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", "endpoint", sub.Endpoint)
		wp.metrics.Notification("expired")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", "endpoint", sub.Endpoint, "error", err)
		}
		return resp.StatusCode
	}
	if resp.StatusCode >= 400 {
		wp.log.Warn("push service rejected notification", "endpoint", sub.Endpoint, "status", resp.StatusCode)
		wp.metrics.Notification("failed")
		return 0
	}
	wp.metrics.Notification("sent")
	return resp.StatusCode
}
