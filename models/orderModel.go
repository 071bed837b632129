package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentChargeback PaymentStatus = "chargeback"
)

var paymentStatuses = map[PaymentStatus]bool{
	PaymentPending:    true,
	PaymentCompleted:  true,
	PaymentFailed:     true,
	PaymentRefunded:   true,
	PaymentChargeback: true,
}

// ParsePaymentStatus accepts only the closed set of payment statuses.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	status := PaymentStatus(s)
	return status, paymentStatuses[status]
}

// Address is the billing address captured at checkout.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
}

// Order is one purchase attempt of a single product by a single customer.
//
// PaymentID holds the processor's transaction id once the gateway answered;
// it is the key webhooks use to find the order. StatusVersion is the
// UnixNano stamp of the write that set PaymentStatus; a status write is only
// applied when it carries a newer stamp.
type Order struct {
	ID              string                      `json:"id" gorm:"primaryKey;size:36"`
	Reference       string                      `json:"reference" gorm:"size:16;index"`
	CustomerID      string                      `json:"customer_id" gorm:"size:36;index;not null"`
	Customer        *Customer                   `json:"customer,omitempty"`
	ProductID       string                      `json:"product_id" gorm:"size:36;index;not null"`
	Product         *Product                    `json:"product,omitempty"`
	Quantity        int                         `json:"quantity" gorm:"not null"`
	TotalAmount     decimal.Decimal             `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaymentStatus   PaymentStatus               `json:"payment_status" gorm:"size:16;index;not null"`
	PaymentID       string                      `json:"payment_id" gorm:"size:64;index"`
	GatewayStatus   string                      `json:"gateway_status" gorm:"size:32"`
	PaymentError    string                      `json:"payment_error,omitempty" gorm:"size:255"`
	StatusVersion   int64                       `json:"-" gorm:"not null;default:0"`
	BillingAddress  datatypes.JSONType[Address] `json:"billing_address"`
	GatewayResponse datatypes.JSON              `json:"-"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
