package mongodb

import (
	"context"
	"errors"
	"math"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewOrderRepository(db *mongo.Database, timeout time.Duration) repository.OrderRepository {
	return &orderRepo{coll: db.Collection(ordersCollection), timeout: timeout}
}

func (r *orderRepo) Insert(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if err := order.CheckSchema(); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, order)
	return err
}

func (r *orderRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var o domain.Order
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}

	out := []domain.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) (bool, error) {
	if err := domain.CheckStatusSchema(to); err != nil {
		return false, err
	}
	return r.conditionalSet(ctx,
		bson.M{"orderId": orderID, "status": from},
		bson.M{"status": to, "updatedAt": at.UTC()},
	)
}

func (r *orderRepo) SetDelivery(ctx context.Context, orderID string, expected domain.OrderStatus, deliveryID string, at time.Time) (bool, error) {
	if deliveryID == "" {
		return false, &domain.SchemaError{Field: "delivery", Rule: "required"}
	}
	return r.conditionalSet(ctx,
		bson.M{"orderId": orderID, "status": expected, "delivery": nil},
		bson.M{"delivery": deliveryID, "updatedAt": at.UTC()},
	)
}

func (r *orderRepo) UpdateTotal(ctx context.Context, orderID string, expected domain.OrderStatus, total float64, at time.Time) (bool, error) {
	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return false, &domain.SchemaError{Field: "totalPrice", Rule: "min"}
	}
	return r.conditionalSet(ctx,
		bson.M{"orderId": orderID, "status": expected},
		bson.M{"totalPrice": total, "updatedAt": at.UTC()},
	)
}

// conditionalSet applies set only if filter still matches the stored document.
func (r *orderRepo) conditionalSet(ctx context.Context, filter, set bson.M) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
