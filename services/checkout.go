package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/Kariqs/kikomiilano-api/payments"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgOrderApproved = "Order #%s approved! You will receive a confirmation email."
	msgOrderAwaiting = "Order #%s created! Awaiting payment confirmation."
	msgPaymentFailed = "We could not process your payment. Please check your card details and try again."
)

type CustomerInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
	CPF   string `json:"cpf"`
}

type CardInput struct {
	Number      string `json:"number" binding:"required"`
	HolderName  string `json:"holder_name" binding:"required"`
	ExpiryMonth string `json:"expiry_month" binding:"required"`
	ExpiryYear  string `json:"expiry_year" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

type AddressInput struct {
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	ZipCode    string `json:"zip_code" binding:"required"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
}

// ProductInput mirrors what the storefront shows; only ID is trusted; name
// and price are re-read from the catalog.
type ProductInput struct {
	ID    string          `json:"id" binding:"required"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CheckoutRequest struct {
	Customer       CustomerInput `json:"customer" binding:"required"`
	Card           CardInput     `json:"card" binding:"required"`
	Product        ProductInput  `json:"product" binding:"required"`
	Quantity       int           `json:"quantity" binding:"required,min=1"`
	BillingAddress AddressInput  `json:"billing_address" binding:"required"`
}

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CartCheckoutRequest struct {
	Customer       CustomerInput   `json:"customer" binding:"required"`
	Card           CardInput       `json:"card" binding:"required"`
	Items          []CartItemInput `json:"items" binding:"required,min=1,dive"`
	BillingAddress AddressInput    `json:"billing_address" binding:"required"`
}

type CheckoutResult struct {
	Success       bool     `json:"success"`
	OrderID       string   `json:"orderId,omitempty"`
	OrderIDs      []string `json:"orderIds,omitempty"`
	Reference     string   `json:"reference,omitempty"`
	TransactionID string   `json:"transactionId,omitempty"`
	Status        string   `json:"status,omitempty"`
	Message       string   `json:"message,omitempty"`
	Error         string   `json:"error,omitempty"`
	ClearCart     bool     `json:"clearCart,omitempty"`
}

// PaymentGateway charges a card and reports the processor's verdict.
type PaymentGateway interface {
	Charge(ctx context.Context, req payments.ChargeRequest) (*payments.Transaction, error)
}

// OrderNotifier is told about approved orders. Its failures are logged only.
type OrderNotifier interface {
	OrderApproved(customer models.Customer, orders []models.Order) error
}

type CheckoutService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	notifier OrderNotifier
	validate *validatorv10.Validate
	now      func() time.Time
}

func NewCheckoutService(db *gorm.DB, gateway PaymentGateway, notifier OrderNotifier) *CheckoutService {
	v := validatorv10.New()
	v.SetTagName("binding")
	return &CheckoutService{
		db:       db,
		gateway:  gateway,
		notifier: notifier,
		validate: v,
		now:      time.Now,
	}
}

// WithClock replaces the time source used to stamp orders.
func (s *CheckoutService) WithClock(now func() time.Time) *CheckoutService {
	s.now = now
	return s
}

// Checkout buys a single product.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, AsValidationError(err)
	}

	product, err := s.findProduct(ctx, req.Product.ID)
	if err != nil {
		return nil, err
	}

	cart := models.NewCart()
	cart.Add(*product, req.Quantity)
	return s.placeOrders(ctx, req.Customer, req.Card, req.BillingAddress, cart)
}

// BuildCart resolves cart items against the catalog, merging repeated
// products into one line.
func (s *CheckoutService) BuildCart(ctx context.Context, items []CartItemInput) (*models.Cart, error) {
	cart := models.NewCart()
	for i, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			return nil, newValidationError(fmt.Sprintf("items[%d]", i), "product_id and a positive quantity are required")
		}
		product, err := s.findProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		cart.Add(*product, item.Quantity)
	}
	return cart, nil
}

// CheckoutCart buys every line of the cart with a single charge. The cart is
// cleared only when the charge is accepted.
func (s *CheckoutService) CheckoutCart(ctx context.Context, req CartCheckoutRequest, cart *models.Cart) (*CheckoutResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, AsValidationError(err)
	}
	if cart == nil || cart.IsEmpty() {
		return nil, newValidationError("items", "cart is empty")
	}

	result, err := s.placeOrders(ctx, req.Customer, req.Card, req.BillingAddress, cart)
	if err != nil {
		return result, err
	}
	cart.Clear()
	result.ClearCart = true
	return result, nil
}

func (s *CheckoutService) findProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "lookup product", Err: err}
	}
	return &product, nil
}

func (s *CheckoutService) placeOrders(ctx context.Context, in CustomerInput, card CardInput, addr AddressInput, cart *models.Cart) (*CheckoutResult, error) {
	total := cart.Total()
	if !total.IsPositive() {
		return nil, newValidationError("total", "must be greater than zero")
	}

	customer, err := ResolveCustomer(ctx, s.db, models.Customer{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		CPF:        in.CPF,
		ZipCode:    addr.ZipCode,
		Street:     addr.Street,
		Number:     addr.Number,
		Complement: addr.Complement,
		District:   addr.District,
		City:       addr.City,
		State:      addr.State,
	})
	if err != nil {
		return nil, err
	}

	address := datatypes.NewJSONType(models.Address{
		Street:     addr.Street,
		Number:     addr.Number,
		Complement: addr.Complement,
		District:   addr.District,
		City:       addr.City,
		State:      addr.State,
		ZipCode:    addr.ZipCode,
	})
	createdAt := s.now()
	reference := fmt.Sprintf("KM%06d", createdAt.UnixMilli()%1000000)

	lines := cart.Lines()
	orders := make([]models.Order, 0, len(lines))
	for _, line := range lines {
		order := models.Order{
			Reference:      reference,
			CustomerID:     customer.ID,
			ProductID:      line.Product.ID,
			Quantity:       line.Quantity,
			TotalAmount:    line.Subtotal(),
			PaymentStatus:  models.PaymentPending,
			StatusVersion:  createdAt.UnixNano(),
			BillingAddress: address,
			CreatedAt:      createdAt,
			UpdatedAt:      createdAt,
		}
		if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
			return nil, &PersistenceError{Op: "create order", Err: err}
		}
		orders = append(orders, order)
	}

	ids := orderIDs(orders)
	log.Printf("[checkout] orders %v pending for %s, total %s", ids, customer.Email, total.StringFixed(2))

	items := make([]payments.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, payments.Item{Title: line.Product.Name, UnitPrice: line.Product.Price, Quantity: line.Quantity})
	}

	tx, chargeErr := s.gateway.Charge(ctx, payments.ChargeRequest{
		Card: payments.Card{
			Number:      card.Number,
			CVV:         card.CVV,
			ExpiryMonth: card.ExpiryMonth,
			ExpiryYear:  card.ExpiryYear,
			HolderName:  card.HolderName,
		},
		Customer: payments.Customer{Name: customer.Name, Email: customer.Email, Phone: in.Phone, Document: in.CPF},
		Address: payments.Address{
			Street:     addr.Street,
			Number:     addr.Number,
			Complement: addr.Complement,
			District:   addr.District,
			City:       addr.City,
			State:      addr.State,
			ZipCode:    addr.ZipCode,
		},
		Amount:   total,
		Items:    items,
		Metadata: map[string]string{"order_id": strings.Join(ids, ",")},
	})

	// The charge has happened; its outcome is recorded even if the caller
	// has gone away.
	persistCtx := context.WithoutCancel(ctx)

	if chargeErr == nil && tx == nil {
		chargeErr = &payments.GatewayError{Message: "empty gateway response"}
	}

	result := &CheckoutResult{OrderID: ids[0], Reference: reference}
	if len(ids) > 1 {
		result.OrderIDs = ids
	}

	outcome := chargeDeclined
	if chargeErr == nil {
		outcome = classifyGatewayStatus(tx.Status)
		result.TransactionID = tx.ID
		result.Status = tx.Status
	}

	status := models.PaymentFailed
	if outcome != chargeDeclined {
		status = models.PaymentCompleted
	}

	extra := map[string]any{}
	if tx != nil {
		extra["payment_id"] = tx.ID
		extra["gateway_status"] = tx.Status
		if len(tx.Raw) > 0 && json.Valid(tx.Raw) {
			extra["gateway_response"] = datatypes.JSON(tx.Raw)
		}
	}
	at := s.now()
	if _, err := applyPaymentStatus(s.db.WithContext(persistCtx).Where("id IN ?", ids), status, nextVersion(createdAt.UnixNano(), at), at, extra); err != nil {
		log.Printf("[checkout] orders %v: failed to record status %s (transaction %s): %v", ids, status, result.TransactionID, err)
		return nil, &PersistenceError{Op: "update order status", Err: err}
	}

	if chargeErr != nil {
		log.Printf("[checkout] orders %v failed: %v", ids, chargeErr)
		result.Error = msgPaymentFailed
		return result, chargeErr
	}
	if outcome == chargeDeclined {
		log.Printf("[checkout] orders %v declined by processor: transaction %s status %s", ids, tx.ID, tx.Status)
		result.Error = msgPaymentFailed
		return result, ErrPaymentDeclined
	}

	result.Success = true
	if outcome == chargeApproved {
		result.Message = fmt.Sprintf(msgOrderApproved, reference)
		s.notify(persistCtx, *customer, ids)
	} else {
		result.Message = fmt.Sprintf(msgOrderAwaiting, reference)
	}
	log.Printf("[checkout] orders %v accepted: transaction %s status %s", ids, tx.ID, tx.Status)
	return result, nil
}

func (s *CheckoutService) notify(ctx context.Context, customer models.Customer, ids []string) {
	if s.notifier == nil {
		return
	}
	var orders []models.Order
	if err := s.db.WithContext(ctx).Preload("Product").Where("id IN ?", ids).Find(&orders).Error; err != nil {
		log.Printf("[checkout] could not load orders %v for confirmation: %v", ids, err)
		return
	}
	if err := s.notifier.OrderApproved(customer, orders); err != nil {
		log.Printf("[checkout] confirmation email to %s failed: %v", customer.Email, err)
	}
}

func orderIDs(orders []models.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
