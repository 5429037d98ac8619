package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans out "device back in service" push notifications so the
// mutation that closed the maintenance record never waits on push delivery.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
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
	log.Printf("notification worker %d started", id)
	for {
		select {
		case deviceID := <-wp.jobs:
			wp.notifySubscribers(ctx, deviceID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// DeviceBackInService queues a notification job. It satisfies the store's
// Notifier interface and must not block request handling for long; the
// channel is buffered to the pool size.
func (wp *WorkerPool) DeviceBackInService(deviceID int64) {
	select {
	case wp.jobs <- deviceID:
	default:
		log.Printf("notification queue full, dropping job for device %d", deviceID)
	}
}

// notifySubscribers fetches subscriptions mapped to a device and pushes a
// back-in-service message to each.
func (wp *WorkerPool) notifySubscribers(ctx context.Context, deviceID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_device_mapping sdm ON sdm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sdm.device_id = ?", deviceID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for device %d: %v", deviceID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	var device model.Device
	deviceLabel := fmt.Sprintf("%d", deviceID)
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&device, deviceID).Error; err != nil {
		log.Printf("error fetching device %d: %v", deviceID, err)
	} else if device.Name != "" {
		deviceLabel = device.Name
	}

	message := fmt.Sprintf("Device %s is back in service", deviceLabel)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification, dropping the
// subscription if the push service reports it gone.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
