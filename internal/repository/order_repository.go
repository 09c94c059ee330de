// Package repository declares the persistence gateway used by the order
// lifecycle manager. Implementations live in the mongo and mysql
// subpackages; both bound every call by their own timeout.
package repository

import (
	"context"
	"time"

	"storefront-orders/internal/domain"
)

// OrderRepository stores order documents. Find methods return (nil, nil) when
// nothing matches. The conditional updates report applied=false when the
// persisted state no longer matches the expectation.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateStatus moves orderID from status from to status to, stamping updatedAt.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) (bool, error)
	// SetDelivery attaches deliveryID while the order is still in status expected
	// and has no delivery yet.
	SetDelivery(ctx context.Context, orderID string, expected domain.OrderStatus, deliveryID string, at time.Time) (bool, error)
	// UpdateTotal replaces the total while the order is still in status expected.
	UpdateTotal(ctx context.Context, orderID string, expected domain.OrderStatus, total float64, at time.Time) (bool, error)
}
