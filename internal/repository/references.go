package repository

import (
	"context"

	"storefront-orders/internal/domain"
)

type UserRepository interface {
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}

// ProductRepository returns the products found among ids, in no particular
// order. Missing ids are simply absent from the result.
type ProductRepository interface {
	FindProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type PaymentRepository interface {
	FindPaymentByID(ctx context.Context, id string) (*domain.Payment, error)
	// LinkOrder records orderID on a payment not yet linked to any order.
	LinkOrder(ctx context.Context, paymentID, orderID string) (bool, error)
	// UnlinkOrder clears the link if it still points at orderID.
	UnlinkOrder(ctx context.Context, paymentID, orderID string) error
}

type DeliveryRepository interface {
	FindDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error)
}

// Store bundles the repositories backed by one database handle.
type Store struct {
	Orders     OrderRepository
	Users      UserRepository
	Products   ProductRepository
	Payments   PaymentRepository
	Deliveries DeliveryRepository
	Close      func(ctx context.Context) error
}

// UniqueIDs returns ids without duplicates, keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
