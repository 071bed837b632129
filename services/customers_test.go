package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/Kariqs/kikomiilano-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// statementErrors records the error of every statement gorm runs.
type statementErrors struct {
	logger.Interface
	errs []error
}

func (l *statementErrors) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *statementErrors) Trace(_ context.Context, _ time.Time, _ func() (string, int64), err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

func TestResolveCustomer_CreatesThenReuses(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	first, err := ResolveCustomer(ctx, db, models.Customer{Name: "Ana", Email: "Ana@Example.com", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", first.Email)

	second, err := ResolveCustomer(ctx, db, models.Customer{Name: "Ana Paula", Email: "ana@example.com", Phone: "2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.Name)

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveCustomer_ConditionalInsertKeepsExistingRow(t *testing.T) {
	db := testutil.NewDB(t)
	existing := testutil.SeedCustomer(t, db, "bia@example.com")

	// What a checkout that lost the lookup race would attempt.
	loser := models.Customer{Name: "Bia", Email: "bia@example.com"}
	require.NoError(t, insertCustomerIfAbsent(context.Background(), db, &loser))

	var rows []models.Customer
	require.NoError(t, db.Where("email = ?", "bia@example.com").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, existing.ID, rows[0].ID)
}

func TestResolveCustomer_RequiresEmail(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := ResolveCustomer(context.Background(), db, models.Customer{Name: "Nobody"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestResolveCustomer_FirstCheckoutRunsNoFailingStatement(t *testing.T) {
	rec := &statementErrors{Interface: logger.Discard}
	db := testutil.NewDB(t).Session(&gorm.Session{Logger: rec})

	customer, err := ResolveCustomer(context.Background(), db, models.Customer{Name: "Clara", Email: "clara@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "clara@example.com", customer.Email)
	assert.Empty(t, rec.errs)
}
