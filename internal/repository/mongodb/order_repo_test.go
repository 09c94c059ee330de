package mongodb

import (
	"context"
	"testing"
	"time"

	"storefront-orders/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ordersNS = "storefront.orders"

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderID:    "ord-1",
		User:       "u1",
		Products:   []string{"p1", "p2"},
		TotalPrice: 15.5,
		Address:    "123 Main St",
		Status:     domain.StatusPending,
		Payment:    "pay1",
	}
}

func orderDoc(id string, status domain.OrderStatus) bson.D {
	return bson.D{
		{Key: "orderId", Value: id},
		{Key: "user", Value: "u1"},
		{Key: "products", Value: bson.A{"p1", "p2"}},
		{Key: "totalPrice", Value: 15.5},
		{Key: "address", Value: "123 Main St"},
		{Key: "status", Value: string(status)},
		{Key: "payment", Value: "pay1"},
		{Key: "createdAt", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Key: "updatedAt", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func updateResponse(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func TestOrderRepo_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success stamps timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewOrderRepository(mt.DB, time.Second)

		o := sampleOrder()
		err := repo.Insert(context.Background(), o)

		require.NoError(mt, err)
		assert.False(mt, o.CreatedAt.IsZero())
		assert.Equal(mt, o.CreatedAt, o.UpdatedAt)
	})

	mt.Run("schema violation never reaches the store", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)

		o := sampleOrder()
		o.Payment = ""
		err := repo.Insert(context.Background(), o)

		assert.ErrorIs(mt, err, domain.ErrSchemaViolation)
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewOrderRepository(mt.DB, time.Second)

		err := repo.Insert(context.Background(), sampleOrder())

		assert.Error(mt, err)
	})
}

func TestOrderRepo_FindByOrderID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch, orderDoc("ord-1", domain.StatusShipped)))
		repo := NewOrderRepository(mt.DB, time.Second)

		o, err := repo.FindByOrderID(context.Background(), "ord-1")

		require.NoError(mt, err)
		require.NotNil(mt, o)
		assert.Equal(mt, "ord-1", o.OrderID)
		assert.Equal(mt, domain.StatusShipped, o.Status)
		assert.Equal(mt, []string{"p1", "p2"}, o.Products)
		assert.Equal(mt, 15.5, o.TotalPrice)
		assert.Nil(mt, o.Delivery)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))
		repo := NewOrderRepository(mt.DB, time.Second)

		o, err := repo.FindByOrderID(context.Background(), "missing")

		assert.NoError(mt, err)
		assert.Nil(mt, o)
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))
		repo := NewOrderRepository(mt.DB, time.Second)

		o, err := repo.FindByOrderID(context.Background(), "ord-1")

		assert.Error(mt, err)
		assert.Nil(mt, o)
	})
}

func TestOrderRepo_FindByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns every order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch,
			orderDoc("ord-2", domain.StatusPending),
			orderDoc("ord-1", domain.StatusDelivered),
		))
		repo := NewOrderRepository(mt.DB, time.Second)

		orders, err := repo.FindByUser(context.Background(), "u1")

		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, "ord-2", orders[0].OrderID)
		assert.Equal(mt, domain.StatusDelivered, orders[1].Status)
	})

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))
		repo := NewOrderRepository(mt.DB, time.Second)

		orders, err := repo.FindByUser(context.Background(), "nobody")

		require.NoError(mt, err)
		assert.Empty(mt, orders)
	})
}

func TestOrderRepo_ConditionalUpdates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Now()

	mt.Run("status applied", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(1))
		repo := NewOrderRepository(mt.DB, time.Second)

		ok, err := repo.UpdateStatus(context.Background(), "ord-1", domain.StatusPending, domain.StatusProcessing, at)

		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("status precondition lost", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(0))
		repo := NewOrderRepository(mt.DB, time.Second)

		ok, err := repo.UpdateStatus(context.Background(), "ord-1", domain.StatusPending, domain.StatusProcessing, at)

		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("status outside enum", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)

		_, err := repo.UpdateStatus(context.Background(), "ord-1", domain.StatusPending, "shipping", at)

		assert.ErrorIs(mt, err, domain.ErrSchemaViolation)
	})

	mt.Run("delivery applied", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(1))
		repo := NewOrderRepository(mt.DB, time.Second)

		ok, err := repo.SetDelivery(context.Background(), "ord-1", domain.StatusShipped, "del-1", at)

		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("empty delivery", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)

		_, err := repo.SetDelivery(context.Background(), "ord-1", domain.StatusShipped, "", at)

		assert.ErrorIs(mt, err, domain.ErrSchemaViolation)
	})

	mt.Run("total applied", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(1))
		repo := NewOrderRepository(mt.DB, time.Second)

		ok, err := repo.UpdateTotal(context.Background(), "ord-1", domain.StatusPending, 20, at)

		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("negative total", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)

		_, err := repo.UpdateTotal(context.Background(), "ord-1", domain.StatusPending, -5, at)

		assert.ErrorIs(mt, err, domain.ErrSchemaViolation)
	})
}
