package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/Kariqs/kikomiilano-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconciler(t *testing.T) (*WebhookReconciler, func() models.Order) {
	db := testutil.NewDB(t)
	testutil.SeedOrder(t, db, "o1", models.PaymentCompleted, "tx_1", start)
	r := NewWebhookReconciler(db).WithClock(testutil.NewClock(start.Add(time.Hour)).Now)
	return r, func() models.Order { return loadOrder(t, db, "o1") }
}

func TestReconcile_RefundByMerchantReference(t *testing.T) {
	r, load := newReconciler(t)
	payload := WebhookPayload{Type: "payment.refunded", Data: WebhookData{Metadata: WebhookMetadata{OrderID: "o1"}}}

	res, err := r.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Matched)
	assert.Equal(t, models.PaymentRefunded, load().PaymentStatus)
}

func TestReconcile_FlatPayloadByTransactionID(t *testing.T) {
	cases := map[string]models.PaymentStatus{
		"APPROVED":   models.PaymentCompleted,
		"REJECTED":   models.PaymentFailed,
		"REFUNDED":   models.PaymentRefunded,
		"CHARGEBACK": models.PaymentChargeback,
	}
	for status, want := range cases {
		t.Run(status, func(t *testing.T) {
			r, load := newReconciler(t)
			_, err := r.Reconcile(context.Background(), WebhookPayload{Status: status, PaymentID: "tx_1"})
			require.NoError(t, err)
			assert.Equal(t, want, load().PaymentStatus)
		})
	}
}

func TestReconcile_ReplayIsIdempotent(t *testing.T) {
	r, load := newReconciler(t)
	payload := WebhookPayload{Type: "payment.chargeback", Data: WebhookData{ID: "tx_1"}}

	_, err := r.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	once := load()

	_, err = r.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	twice := load()

	assert.Equal(t, once.PaymentStatus, twice.PaymentStatus)
	assert.Equal(t, models.PaymentChargeback, twice.PaymentStatus)
}

func TestReconcile_TimestampedReplayAppliesOnce(t *testing.T) {
	r, load := newReconciler(t)
	at := start.Add(30 * time.Minute)
	payload := WebhookPayload{Type: "payment.refunded", Data: WebhookData{ID: "tx_1"}, Timestamp: &at}

	first, err := r.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Matched)

	second, err := r.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, second.Ignored)
	assert.Equal(t, models.PaymentRefunded, load().PaymentStatus)
}

func TestReconcile_StaleEventDoesNotRegress(t *testing.T) {
	r, load := newReconciler(t)
	stale := start.Add(-time.Minute)
	payload := WebhookPayload{Type: "payment.failed", Data: WebhookData{ID: "tx_1", FailureReason: "insufficient funds"}, Timestamp: &stale}

	res, err := r.Reconcile(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, res.Ignored)
	order := load()
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
	assert.Empty(t, order.PaymentError)
}

func TestReconcile_FailureReasonStored(t *testing.T) {
	r, load := newReconciler(t)
	_, err := r.Reconcile(context.Background(), WebhookPayload{Type: "payment.failed", Data: WebhookData{ID: "tx_1", FailureReason: "card expired"}})
	require.NoError(t, err)
	order := load()
	assert.Equal(t, models.PaymentFailed, order.PaymentStatus)
	assert.Equal(t, "card expired", order.PaymentError)
}

func TestReconcile_UnknownTransactionIsNoop(t *testing.T) {
	r, load := newReconciler(t)
	before := load()

	res, err := r.Reconcile(context.Background(), WebhookPayload{Status: "REFUNDED", PaymentID: "tx_unknown"})
	require.NoError(t, err)
	assert.True(t, res.Ignored)
	assert.Zero(t, res.Matched)

	after := load()
	assert.Equal(t, before.PaymentStatus, after.PaymentStatus)
	assert.Equal(t, before.StatusVersion, after.StatusVersion)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestReconcile_UnhandledEventIgnored(t *testing.T) {
	r, load := newReconciler(t)
	res, err := r.Reconcile(context.Background(), WebhookPayload{Type: "customer.created", Data: WebhookData{ID: "tx_1"}})
	require.NoError(t, err)
	assert.True(t, res.Ignored)
	assert.Equal(t, models.PaymentCompleted, load().PaymentStatus)
}

func TestReconcile_NeverCreatesOrders(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewWebhookReconciler(db)
	_, err := r.Reconcile(context.Background(), WebhookPayload{Type: "payment.succeeded", Data: WebhookData{Metadata: WebhookMetadata{OrderID: "o9,o10"}}})
	require.NoError(t, err)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestReconcile_MatchesMerchantReferenceBeforeTransactionIsRecorded(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedOrder(t, db, "o1", models.PaymentPending, "", start)
	r := NewWebhookReconciler(db).WithClock(testutil.NewClock(start.Add(time.Minute)).Now)

	res, err := r.Reconcile(context.Background(), WebhookPayload{
		Type: "payment.failed",
		Data: WebhookData{ID: "tx_2", FailureReason: "insufficient funds", Metadata: WebhookMetadata{OrderID: "o1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Matched)

	order := loadOrder(t, db, "o1")
	assert.Equal(t, models.PaymentFailed, order.PaymentStatus)
	assert.Equal(t, "tx_2", order.PaymentID)
	assert.Equal(t, "insufficient funds", order.PaymentError)
}

func TestReconcile_MerchantReferenceSkipsOrderOfAnotherTransaction(t *testing.T) {
	r, load := newReconciler(t)

	res, err := r.Reconcile(context.Background(), WebhookPayload{
		Type: "payment.refunded",
		Data: WebhookData{ID: "tx_other", Metadata: WebhookMetadata{OrderID: "o1"}},
	})
	require.NoError(t, err)
	assert.True(t, res.Ignored)

	order := load()
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, "tx_1", order.PaymentID)
}
