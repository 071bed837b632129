package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"gorm.io/gorm"
)

// WebhookPayload accepts both notification shapes the processor sends: the
// event form {type, data} and the flat form {status, paymentId}.
type WebhookPayload struct {
	Type      string      `json:"type"`
	Data      WebhookData `json:"data"`
	Status    string      `json:"status"`
	PaymentID string      `json:"paymentId"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
}

type WebhookData struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failure_reason"`
	Metadata      WebhookMetadata `json:"metadata"`
}

type WebhookMetadata struct {
	OrderID string `json:"order_id"`
}

type ReconcileResult struct {
	Status  models.PaymentStatus
	Matched int64
	Ignored bool
	Reason  string
}

type WebhookReconciler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWebhookReconciler(db *gorm.DB) *WebhookReconciler {
	return &WebhookReconciler{db: db, now: time.Now}
}

func (r *WebhookReconciler) WithClock(now func() time.Time) *WebhookReconciler {
	r.now = now
	return r
}

func (p WebhookPayload) targetStatus() (models.PaymentStatus, bool) {
	if p.Type != "" {
		return statusForEvent(p.Type)
	}
	if p.Status != "" {
		return statusForProcessorStatus(p.Status)
	}
	return statusForProcessorStatus(p.Data.Status)
}

func (p WebhookPayload) transactionID() string {
	if p.PaymentID != "" {
		return p.PaymentID
	}
	return p.Data.ID
}

func (p WebhookPayload) merchantOrderIDs() []string {
	var ids []string
	for _, id := range strings.Split(p.Data.Metadata.OrderID, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Reconcile applies an out-of-band status change to the orders the
// notification refers to. It never creates orders. Unknown events and
// unknown orders are reported as ignored, not as errors. A notification is
// only applied when it is newer than the last status write on the order,
// so replays and stale deliveries leave the stored status as it is.
func (r *WebhookReconciler) Reconcile(ctx context.Context, payload WebhookPayload) (*ReconcileResult, error) {
	status, ok := payload.targetStatus()
	if !ok {
		log.Printf("[webhook] ignoring unhandled event type=%q status=%q", payload.Type, payload.Status)
		return &ReconcileResult{Ignored: true, Reason: "unhandled event"}, nil
	}

	txID := payload.transactionID()
	orderIDs := payload.merchantOrderIDs()
	if txID == "" && len(orderIDs) == 0 {
		log.Printf("[webhook] ignoring %s event without transaction reference", status)
		return &ReconcileResult{Status: status, Ignored: true, Reason: "no transaction reference"}, nil
	}

	at := r.now()
	version := at.UnixNano()
	if payload.Timestamp != nil && !payload.Timestamp.IsZero() {
		version = payload.Timestamp.UnixNano()
	}

	extra := map[string]any{}
	if status == models.PaymentFailed && payload.Data.FailureReason != "" {
		extra["payment_error"] = payload.Data.FailureReason
	}

	var matched int64
	var err error
	if txID != "" {
		matched, err = applyPaymentStatus(r.db.WithContext(ctx).Where("payment_id = ?", txID), status, version, at, extra)
		if err != nil {
			return nil, &PersistenceError{Op: "update order status", Err: err}
		}
	}

	// The notification can arrive before checkout has recorded the
	// transaction id. Orders named in the metadata are then matched
	// directly, unless they already belong to another transaction.
	if matched == 0 && len(orderIDs) > 0 {
		scope := r.db.WithContext(ctx).Where("id IN ?", orderIDs)
		if txID != "" {
			scope = scope.Where("(payment_id = ? OR payment_id IS NULL OR payment_id = ?)", "", txID)
			extra["payment_id"] = txID
		}
		matched, err = applyPaymentStatus(scope, status, version, at, extra)
		if err != nil {
			return nil, &PersistenceError{Op: "update order status", Err: err}
		}
	}

	if matched == 0 {
		log.Printf("[webhook] no order updated to %s (unknown transaction or stale event)", status)
		return &ReconcileResult{Status: status, Ignored: true, Reason: "no matching order"}, nil
	}

	log.Printf("[webhook] %d order(s) updated to %s", matched, status)
	return &ReconcileResult{Status: status, Matched: matched}, nil
}
