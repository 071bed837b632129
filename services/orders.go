package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
	Sort   string
}

type OrderPage struct {
	Orders []models.Order
	Total  int64
	Page   int
	Limit  int
}

type OrderStats struct {
	TotalOrders    int64           `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCustomers int64           `json:"totalCustomers"`
	PendingOrders  int64           `json:"pendingOrders"`
}

// OrderAdmin backs the operator dashboard.
type OrderAdmin struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderAdmin(db *gorm.DB) *OrderAdmin {
	return &OrderAdmin{db: db, now: time.Now}
}

func (a *OrderAdmin) filtered(ctx context.Context, f OrderFilter) (*gorm.DB, error) {
	query := a.db.WithContext(ctx).Model(&models.Order{}).
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id")

	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("orders.id LIKE ? OR orders.reference LIKE ? OR customers.name LIKE ? OR customers.email LIKE ?", like, like, like, like)
	}
	if f.Status != "" && f.Status != "all" {
		status, ok := models.ParsePaymentStatus(f.Status)
		if !ok {
			return nil, newValidationError("status", "unknown payment status")
		}
		query = query.Where("orders.payment_status = ?", status)
	}
	return query, nil
}

// List returns one page of orders with their customer and product.
func (a *OrderAdmin) List(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 15
	}
	if f.Sort != "asc" {
		f.Sort = "desc"
	}

	countQuery, err := a.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, &PersistenceError{Op: "count orders", Err: err}
	}

	query, _ := a.filtered(ctx, f)
	var orders []models.Order
	err = query.Select("orders.*").
		Preload("Customer").
		Preload("Product").
		Order("orders.created_at " + f.Sort).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return &OrderPage{Orders: orders, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (a *OrderAdmin) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := a.db.WithContext(ctx).Preload("Customer").Preload("Product").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get order", Err: err}
	}
	return &order, nil
}

// UpdateStatus sets an order's payment status on an operator's behalf. The
// write is stamped with the current time so it supersedes earlier writes.
func (a *OrderAdmin) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	next, ok := models.ParsePaymentStatus(status)
	if !ok {
		return nil, newValidationError("status", "unknown payment status")
	}
	order, err := a.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	at := a.now()
	if _, err := applyPaymentStatus(a.db.WithContext(ctx).Where("id = ?", id), next, nextVersion(order.StatusVersion, at), at, nil); err != nil {
		return nil, &PersistenceError{Op: "update order status", Err: err}
	}
	return a.Get(ctx, id)
}

func (a *OrderAdmin) Stats(ctx context.Context) (*OrderStats, error) {
	db := a.db.WithContext(ctx)
	stats := &OrderStats{TotalRevenue: decimal.Zero}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, &PersistenceError{Op: "count orders", Err: err}
	}
	if err := db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, &PersistenceError{Op: "count customers", Err: err}
	}
	if err := db.Model(&models.Order{}).Where("payment_status = ?", models.PaymentPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, &PersistenceError{Op: "count pending orders", Err: err}
	}

	var completed []models.Order
	if err := db.Select("total_amount").Where("payment_status = ?", models.PaymentCompleted).Find(&completed).Error; err != nil {
		return nil, &PersistenceError{Op: "sum revenue", Err: err}
	}
	for _, o := range completed {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
	}
	return stats, nil
}
