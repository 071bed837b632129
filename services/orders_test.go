package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/Kariqs/kikomiilano-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrders(t *testing.T) *gorm.DB {
	db := testutil.NewDB(t)
	testutil.SeedOrder(t, db, "o1", models.PaymentCompleted, "tx_1", start)
	testutil.SeedOrder(t, db, "o2", models.PaymentPending, "", start.Add(time.Minute))
	testutil.SeedOrder(t, db, "o3", models.PaymentFailed, "tx_3", start.Add(2*time.Minute))
	return db
}

func TestOrderAdmin_ListJoinsCustomerAndProduct(t *testing.T) {
	admin := NewOrderAdmin(seedOrders(t))

	page, err := admin.List(context.Background(), OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Orders, 3)
	assert.Equal(t, "o3", page.Orders[0].ID)
	require.NotNil(t, page.Orders[0].Customer)
	require.NotNil(t, page.Orders[0].Product)
	assert.Equal(t, "o3@example.com", page.Orders[0].Customer.Email)
}

func TestOrderAdmin_ListFilters(t *testing.T) {
	admin := NewOrderAdmin(seedOrders(t))
	ctx := context.Background()

	page, err := admin.List(ctx, OrderFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "o2", page.Orders[0].ID)

	page, err = admin.List(ctx, OrderFilter{Search: "o1@example"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "o1", page.Orders[0].ID)

	page, err = admin.List(ctx, OrderFilter{Status: "all", Limit: 2, Page: 2, Sort: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "o3", page.Orders[0].ID)

	_, err = admin.List(ctx, OrderFilter{Status: "shipped"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOrderAdmin_UpdateStatus(t *testing.T) {
	admin := NewOrderAdmin(seedOrders(t))
	ctx := context.Background()

	order, err := admin.UpdateStatus(ctx, "o1", "refunded")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, order.PaymentStatus)

	_, err = admin.UpdateStatus(ctx, "o1", "bogus")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = admin.UpdateStatus(ctx, "nope", "failed")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestOrderAdmin_Stats(t *testing.T) {
	db := seedOrders(t)
	stats, err := NewOrderAdmin(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("45.90")))
}
