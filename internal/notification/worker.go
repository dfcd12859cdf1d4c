package notification

import (
	"context"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"training-portal-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers delivering stored notifications as web
// pushes. Jobs are notification IDs; the feed row is the source of truth and
// the push is best-effort delivery on top of it.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case notificationID := <-wp.jobs:
			wp.deliver(ctx, notificationID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a stored notification for push delivery.
func (wp *WorkerPool) Dispatch(notificationID string) {
	wp.jobs <- notificationID
}

// DispatchAll queues a batch of stored notifications.
func (wp *WorkerPool) DispatchAll(notificationIDs []string) {
	for _, id := range notificationIDs {
		wp.Dispatch(id)
	}
}

// deliver pushes one stored notification to every subscription its user has.
func (wp *WorkerPool) deliver(ctx context.Context, notificationID string) {
	var n model.Notification
	if err := wp.db.WithContext(ctx).First(&n, "id = ?", notificationID).Error; err != nil {
		log.Printf("Error loading notification %s: %v", notificationID, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Where("user_id = ?", n.UserID).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for user %s: %v", n.UserID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Pushing notification %s to %d subscriptions", n.ID, len(subscriptions))
	for _, sub := range subscriptions {
		wp.push(ctx, sub, []byte(n.Message))
	}
}

func (wp *WorkerPool) push(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending push to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions.
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
