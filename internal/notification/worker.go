package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"staffing-agency-backend/internal/model"
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

// WorkerPool manages a pool of goroutines that notify subscribed office
// staff when a worker's availability calendar changes.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
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
	log.Printf("Notifier %d started", id)
	for {
		select {
		case workerID := <-wp.jobs:
			log.Printf("Notifier %d processing schedule change for worker %d", id, workerID)
			wp.sendNotificationsForWorker(ctx, workerID)
		case <-ctx.Done():
			log.Printf("Notifier %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a schedule-change notice for one worker. It never blocks
// the calling request: when the pool is saturated the notice is dropped,
// since the next calendar read shows the change anyway.
func (wp *WorkerPool) Dispatch(workerID int64) {
	select {
	case wp.jobs <- workerID:
	default:
		log.Printf("Notification queue full, dropping notice for worker %d", workerID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// sendNotificationsForWorker fetches subscriptions and sends notifications for a given worker.
func (wp *WorkerPool) sendNotificationsForWorker(ctx context.Context, workerID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_worker_mapping swm ON swm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("swm.worker_id = ?", workerID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for worker %d: %v", workerID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for worker %d", len(subscriptions), workerID)

	var worker model.Worker
	workerLabel := fmt.Sprintf("%d", workerID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&worker, workerID).Error; err != nil {
		log.Printf("Error fetching worker %d: %v", workerID, err)
	} else if worker.Name != "" {
		workerLabel = worker.Name
	}

	message := fmt.Sprintf("%s 的档期已更新", workerLabel)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
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
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
