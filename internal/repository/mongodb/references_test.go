package mongodb

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront-orders/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIDCandidates(t *testing.T) {
	oid := primitive.NewObjectID()

	c := idCandidates("p1", oid.Hex())

	require.Len(t, c, 3)
	assert.Equal(t, "p1", c[0])
	assert.Equal(t, oid.Hex(), c[1])
	assert.Equal(t, oid, c[2])

	assert.Equal(t, oid.Hex(), idString(oid))
	assert.Equal(t, "p1", idString("p1"))
	assert.Equal(t, "42", idString(int32(42)))
	assert.Equal(t, "", idString(nil))
}

func TestProductRepo_FindProductsByIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	oid := primitive.NewObjectID()

	mt.Run("mixed id types", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "p1"}, {Key: "name", Value: "Mug"}, {Key: "price", Value: 10.0}},
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Tea"}, {Key: "price", Value: 5.5}},
		))
		repo := NewProductRepository(mt.DB, time.Second)

		products, err := repo.FindProductsByIDs(context.Background(), []string{"p1", oid.Hex(), "p1"})

		require.NoError(mt, err)
		require.Len(mt, products, 2)
		assert.Equal(mt, domain.Product{ID: "p1", Name: "Mug", Price: 10}, products[0])
		assert.Equal(mt, oid.Hex(), products[1].ID)
	})

	mt.Run("uppercase object id keeps the requested spelling", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Tea"}, {Key: "price", Value: 5.5}},
		))
		repo := NewProductRepository(mt.DB, time.Second)
		upper := strings.ToUpper(oid.Hex())

		products, err := repo.FindProductsByIDs(context.Background(), []string{upper})

		require.NoError(mt, err)
		assert.Equal(mt, []domain.Product{{ID: upper, Name: "Tea", Price: 5.5}}, products)
	})

	mt.Run("no ids", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB, time.Second)

		products, err := repo.FindProductsByIDs(context.Background(), nil)

		assert.NoError(mt, err)
		assert.Empty(mt, products)
	})
}

func TestUserRepo_FindUserByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u1"}, {Key: "name", Value: "Ada"}, {Key: "email", Value: "ada@example.com"}},
		))
		repo := NewUserRepository(mt.DB, time.Second)

		u, err := repo.FindUserByID(context.Background(), "u1")

		require.NoError(mt, err)
		assert.Equal(mt, &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}, u)
	})

	mt.Run("object id in uppercase", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Ada"}},
		))
		repo := NewUserRepository(mt.DB, time.Second)
		upper := strings.ToUpper(oid.Hex())

		u, err := repo.FindUserByID(context.Background(), upper)

		require.NoError(mt, err)
		assert.Equal(mt, upper, u.ID)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.users", mtest.FirstBatch))
		repo := NewUserRepository(mt.DB, time.Second)

		u, err := repo.FindUserByID(context.Background(), "u404")

		assert.NoError(mt, err)
		assert.Nil(mt, u)
	})
}

func TestPaymentRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find linked payment", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.payments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "pay1"}, {Key: "amount", Value: 15.5}, {Key: "status", Value: "completed"}, {Key: "orderId", Value: "ord-1"}},
		))
		repo := NewPaymentRepository(mt.DB, time.Second)

		p, err := repo.FindPaymentByID(context.Background(), "pay1")

		require.NoError(mt, err)
		assert.Equal(mt, domain.PaymentCompleted, p.Status)
		assert.Equal(mt, "ord-1", p.OrderID)
	})

	mt.Run("link applied", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(1))
		repo := NewPaymentRepository(mt.DB, time.Second)

		ok, err := repo.LinkOrder(context.Background(), "pay1", "ord-1")

		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("already linked", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(0))
		repo := NewPaymentRepository(mt.DB, time.Second)

		ok, err := repo.LinkOrder(context.Background(), "pay1", "ord-2")

		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("unlink", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(1))
		repo := NewPaymentRepository(mt.DB, time.Second)

		assert.NoError(mt, repo.UnlinkOrder(context.Background(), "pay1", "ord-1"))
	})
}

func TestDeliveryRepo_FindDeliveryByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.deliveries", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "del-1"}, {Key: "carrier", Value: "DHL"}, {Key: "trackingNumber", Value: "TRK1"}, {Key: "status", Value: "in_transit"}},
		))
		repo := NewDeliveryRepository(mt.DB, time.Second)

		d, err := repo.FindDeliveryByID(context.Background(), "del-1")

		require.NoError(mt, err)
		assert.Equal(mt, "DHL", d.Carrier)
		assert.Equal(mt, "TRK1", d.TrackingNumber)
	})
}
