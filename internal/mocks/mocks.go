package mocks

import (
	"context"
	"time"

	"storefront-orders/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockUserRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockPaymentRepository struct {
	mock.Mock
}

type MockDeliveryRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data any) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}

func (m *MockOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, orderID, from, to, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) SetDelivery(ctx context.Context, orderID string, expected domain.OrderStatus, deliveryID string, at time.Time) (bool, error) {
	args := m.Called(ctx, orderID, expected, deliveryID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateTotal(ctx context.Context, orderID string, expected domain.OrderStatus, total float64, at time.Time) (bool, error) {
	args := m.Called(ctx, orderID, expected, total, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) LinkOrder(ctx context.Context, paymentID, orderID string) (bool, error) {
	args := m.Called(ctx, paymentID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) UnlinkOrder(ctx context.Context, paymentID, orderID string) error {
	args := m.Called(ctx, paymentID, orderID)
	return args.Error(0)
}

func (m *MockDeliveryRepository) FindDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}
