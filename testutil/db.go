// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/Kariqs/kikomiilano-api/initializers"
	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := initializers.OpenDatabase("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := initializers.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func SeedProduct(t *testing.T, db *gorm.DB, id, price string) models.Product {
	t.Helper()
	product := models.Product{
		ID:          id,
		Name:        "Batom Matte " + id,
		Description: "Long lasting matte lipstick",
		Price:       decimal.RequireFromString(price),
		Category:    "lips",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func SeedCustomer(t *testing.T, db *gorm.DB, email string) models.Customer {
	t.Helper()
	customer := models.Customer{Name: "Maria Silva", Email: email, Phone: "11999990000"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

// SeedOrder stores an order with the given status and transaction id,
// stamped as written at the given time.
func SeedOrder(t *testing.T, db *gorm.DB, id string, status models.PaymentStatus, paymentID string, at time.Time) models.Order {
	t.Helper()
	customer := SeedCustomer(t, db, id+"@example.com")
	product := SeedProduct(t, db, "prod-"+id, "45.90")
	order := models.Order{
		ID:            id,
		Reference:     "KM000001",
		CustomerID:    customer.ID,
		ProductID:     product.ID,
		Quantity:      1,
		TotalAmount:   product.Price,
		PaymentStatus: status,
		PaymentID:     paymentID,
		StatusVersion: at.UnixNano(),
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

// Clock is a deterministic time source that advances one second per call.
type Clock struct {
	current time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}
