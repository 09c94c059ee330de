// Package mongodb implements the persistence gateway on a MongoDB document
// store. Orders live in the "orders" collection keyed by orderId; referenced
// entities are read from "users", "products", "payments" and "deliveries".
package mongodb

import (
	"context"
	"fmt"
	"time"

	"storefront-orders/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ordersCollection     = "orders"
	usersCollection      = "users"
	productsCollection   = "products"
	paymentsCollection   = "payments"
	deliveriesCollection = "deliveries"
)

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the order repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ordersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo: create order indexes: %w", err)
	}
	return nil
}

// NewStore wires every repository onto database db of client.
func NewStore(client *mongo.Client, database string, timeout time.Duration) repository.Store {
	db := client.Database(database)
	return repository.Store{
		Orders:     NewOrderRepository(db, timeout),
		Users:      NewUserRepository(db, timeout),
		Products:   NewProductRepository(db, timeout),
		Payments:   NewPaymentRepository(db, timeout),
		Deliveries: NewDeliveryRepository(db, timeout),
		Close:      client.Disconnect,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
