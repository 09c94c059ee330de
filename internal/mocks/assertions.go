package mocks

import (
	"storefront-orders/internal/infra"
	"storefront-orders/internal/repository"
)

var (
	_ repository.OrderRepository    = (*MockOrderRepository)(nil)
	_ repository.UserRepository     = (*MockUserRepository)(nil)
	_ repository.ProductRepository  = (*MockProductRepository)(nil)
	_ repository.PaymentRepository  = (*MockPaymentRepository)(nil)
	_ repository.DeliveryRepository = (*MockDeliveryRepository)(nil)
	_ infra.EventPublisher          = (*MockPublisher)(nil)
)
