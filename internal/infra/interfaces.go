package infra

import (
	"context"

	"storefront-orders/internal/repository"
)

// EventPublisher emits one order event under a routing pattern.
type EventPublisher interface {
	Publish(ctx context.Context, pattern string, data any) error
}

var _ repository.ProductRepository = (*ProductClient)(nil)
