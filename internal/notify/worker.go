// Package notify delivers generated receipts to a socio's subscribed
// devices over web push. Delivery is best effort: the remote
// registration already succeeded by the time a job is dispatched, so a
// failure here is logged and the receipt stays available for direct
// download.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"envase-return-backend/internal/store"
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

// receiptPayload is the notification body pushed to devices.
type receiptPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// WorkerPool manages a pool of workers delivering receipt
// notifications. Jobs carry batch IDs.
type WorkerPool struct {
	size    int
	jobs    chan string
	store   store.Store
	webpush *webpush.Options
	sender  Sender
	baseURL string
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options, baseURL string) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		baseURL: baseURL,
	}
}

// SetSender swaps the sender, for tests.
func (wp *WorkerPool) SetSender(s Sender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Delivery worker %d started", id)
	for {
		select {
		case batchID := <-wp.jobs:
			log.Printf("Delivery worker %d processing batch %s", id, batchID)
			wp.deliverReceipt(ctx, batchID)
		case <-ctx.Done():
			log.Printf("Delivery worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a batch for receipt delivery.
func (wp *WorkerPool) Dispatch(batchID string) {
	wp.jobs <- batchID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// deliverReceipt pushes the receipt download link to every device
// subscribed for the batch's socio.
func (wp *WorkerPool) deliverReceipt(ctx context.Context, batchID string) {
	batch, err := wp.store.GetBatch(ctx, batchID)
	if err != nil {
		log.Printf("Error fetching batch %s: %v", batchID, err)
		return
	}

	receipt, err := wp.store.GetReceiptByBatch(ctx, batchID)
	if err != nil {
		log.Printf("Error fetching receipt for batch %s: %v", batchID, err)
		return
	}

	subs, err := wp.store.SubscriptionsForSocio(ctx, batch.SocioCodigo)
	if err != nil {
		log.Printf("Error fetching subscriptions for socio %s: %v", batch.SocioCodigo, err)
		return
	}
	if len(subs) == 0 {
		log.Printf("No subscriptions for socio %s; receipt %s stays download-only", batch.SocioCodigo, receipt.ID)
		return
	}

	payload, err := json.Marshal(receiptPayload{
		Title:    "Devolución registrada",
		Body:     fmt.Sprintf("%d unidades devueltas. Tu albarán está listo.", batch.TotalUnidades),
		URL:      fmt.Sprintf("%s/api/receipts/%s", wp.baseURL, receipt.ID),
		FileName: receipt.FileName,
	})
	if err != nil {
		log.Printf("Error marshaling receipt payload: %v", err)
		return
	}

	log.Printf("Sending %d receipt notifications for batch %s", len(subs), batchID)
	for _, sub := range subs {
		wp.sendNotification(ctx, sub.Endpoint, sub.P256DH, sub.Auth, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, endpoint, p256dh, auth string, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: p256dh,
			Auth:   auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", endpoint)
		if err := wp.store.DeleteSubscription(ctx, endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", endpoint, err)
		}
	}
}
