package services

import (
	"time"

	"storefront-orders/internal/domain"
)

func CreateMockOrder(id string, status domain.OrderStatus) *domain.Order {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Order{
		OrderID:    id,
		User:       TestUserID,
		Products:   []string{"p1", "p2"},
		TotalPrice: TestTotalPrice,
		Address:    TestAddress,
		Status:     status,
		Payment:    TestPaymentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func CreateMockProduct(id string, name string, price float64) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  name,
		Price: price,
	}
}

const (
	TestOrderID    = "ord-1"
	TestUserID     = "u1"
	TestPaymentID  = "pay1"
	TestDeliveryID = "del-1"
	TestAddress    = "123 Main St"
	TestTotalPrice = 15.5
)
