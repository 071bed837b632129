package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/kikomiilano-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveCustomer returns the customer registered under the email, creating
// it when absent. The insert is conditional on the unique email index, so
// racing first checkouts converge on one row; a lost race re-reads the
// winner. Existing customers are returned unchanged.
func ResolveCustomer(ctx context.Context, db *gorm.DB, in models.Customer) (*models.Customer, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, newValidationError("customer.email", "required")
	}

	existing, err := findCustomerByEmail(ctx, db, email)
	if err != nil {
		return nil, &PersistenceError{Op: "lookup customer", Err: err}
	}
	if existing != nil {
		return existing, nil
	}

	candidate := in
	candidate.ID = ""
	candidate.Email = email
	if err := insertCustomerIfAbsent(ctx, db, &candidate); err != nil {
		return nil, &PersistenceError{Op: "create customer", Err: err}
	}

	customer, err := findCustomerByEmail(ctx, db, email)
	if err != nil {
		return nil, &PersistenceError{Op: "reload customer", Err: err}
	}
	if customer == nil {
		return nil, &PersistenceError{Op: "reload customer", Err: gorm.ErrRecordNotFound}
	}
	return customer, nil
}

// insertCustomerIfAbsent inserts c unless a customer with the same email
// already exists, in which case nothing is written and no error returned.
func insertCustomerIfAbsent(ctx context.Context, db *gorm.DB, c *models.Customer) error {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// findCustomerByEmail returns nil without an error when no customer has the
// email. A miss is the normal case for a first checkout.
func findCustomerByEmail(ctx context.Context, db *gorm.DB, email string) (*models.Customer, error) {
	var customer models.Customer
	res := db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&customer)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &customer, nil
}
