package services

import (
	"strings"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/Kariqs/kikomiilano-api/payments"
	"gorm.io/gorm"
)

// Processor statuses that mean the charge was accepted but is still waiting
// for confirmation. Orders are stored completed optimistically; a later
// webhook corrects them if the charge is rejected.
var provisionalStatuses = map[string]bool{
	"PENDING":         true,
	"PROCESSING":      true,
	"WAITING_PAYMENT": true,
	"AUTHORIZED":      true,
}

type chargeOutcome int

const (
	chargeDeclined chargeOutcome = iota
	chargeApproved
	chargeProvisional
)

func classifyGatewayStatus(status string) chargeOutcome {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch {
	case status == payments.StatusApproved:
		return chargeApproved
	case provisionalStatuses[status]:
		return chargeProvisional
	default:
		return chargeDeclined
	}
}

var webhookEventStatuses = map[string]models.PaymentStatus{
	"payment.succeeded":  models.PaymentCompleted,
	"payment.approved":   models.PaymentCompleted,
	"payment.failed":     models.PaymentFailed,
	"payment.rejected":   models.PaymentFailed,
	"payment.refunded":   models.PaymentRefunded,
	"payment.chargeback": models.PaymentChargeback,
}

var webhookPlainStatuses = map[string]models.PaymentStatus{
	payments.StatusApproved: models.PaymentCompleted,
	"REJECTED":              models.PaymentFailed,
	"FAILED":                models.PaymentFailed,
	"REFUNDED":              models.PaymentRefunded,
	"CHARGEBACK":            models.PaymentChargeback,
}

func statusForEvent(eventType string) (models.PaymentStatus, bool) {
	status, ok := webhookEventStatuses[strings.ToLower(strings.TrimSpace(eventType))]
	return status, ok
}

func statusForProcessorStatus(s string) (models.PaymentStatus, bool) {
	status, ok := webhookPlainStatuses[strings.ToUpper(strings.TrimSpace(s))]
	return status, ok
}

// nextVersion returns a stamp for a write at time at that is strictly newer
// than prev.
func nextVersion(prev int64, at time.Time) int64 {
	v := at.UnixNano()
	if v <= prev {
		return prev + 1
	}
	return v
}

// applyPaymentStatus writes status to every order matched by scope whose
// stored version is older than version. It returns the number of orders
// changed; stale writes change nothing.
func applyPaymentStatus(scope *gorm.DB, status models.PaymentStatus, version int64, at time.Time, extra map[string]any) (int64, error) {
	updates := map[string]any{
		"payment_status": status,
		"status_version": version,
		"updated_at":     at,
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := scope.Model(&models.Order{}).
		Where("status_version < ?", version).
		Updates(updates)
	return res.RowsAffected, res.Error
}
