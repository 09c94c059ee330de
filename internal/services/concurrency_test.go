package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/mocks"
	"storefront-orders/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOrders is a compare-and-set order store used to race real goroutines.
type memoryOrders struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func (m *memoryOrders) Insert(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.OrderID] = *o.Clone()
	return nil
}

func (m *memoryOrders) FindByOrderID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (m *memoryOrders) FindByUser(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

func (m *memoryOrders) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, at time.Time) (bool, error) {
	return m.cas(id, from, func(o *domain.Order) { o.Status, o.UpdatedAt = to, at }), nil
}

func (m *memoryOrders) SetDelivery(_ context.Context, id string, expected domain.OrderStatus, deliveryID string, at time.Time) (bool, error) {
	m.mu.Lock()
	o, ok := m.orders[id]
	m.mu.Unlock()
	if !ok || o.HasDelivery() {
		return false, nil
	}
	return m.cas(id, expected, func(o *domain.Order) { o.Delivery, o.UpdatedAt = &deliveryID, at }), nil
}

func (m *memoryOrders) UpdateTotal(_ context.Context, id string, expected domain.OrderStatus, total float64, at time.Time) (bool, error) {
	return m.cas(id, expected, func(o *domain.Order) { o.TotalPrice, o.UpdatedAt = total, at }), nil
}

func (m *memoryOrders) cas(id string, expected domain.OrderStatus, apply func(*domain.Order)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != expected {
		return false
	}
	apply(&o)
	m.orders[id] = o
	return true
}

func TestOrderService_ConcurrentTransitions(t *testing.T) {
	store := &memoryOrders{orders: map[string]domain.Order{
		TestOrderID: *CreateMockOrder(TestOrderID, domain.StatusPending),
	}}
	s := NewOrderService(repository.Store{Orders: store})

	const callers = 16
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		successes int
		illegal   int
		mu        sync.Mutex
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.Transition(context.Background(), TestOrderID, "processing")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrIllegalTransition):
				illegal++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, illegal)

	o, err := store.FindByOrderID(context.Background(), TestOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, o.Status)
}

func TestOrderService_CancelTwice(t *testing.T) {
	store := &memoryOrders{orders: map[string]domain.Order{
		TestOrderID: *CreateMockOrder(TestOrderID, domain.StatusProcessing),
	}}
	pub := new(mocks.MockPublisher)
	pub.On("Publish", context.Background(), domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:   TestOrderID,
		From:      domain.StatusProcessing,
		To:        domain.StatusCancelled,
		ChangedAt: fixedNow,
	}).Return(nil).Once()

	s := NewOrderService(repository.Store{Orders: store})
	s.SetPublisher(pub)
	s.now = func() time.Time { return fixedNow }

	_, err := s.Cancel(context.Background(), TestOrderID)
	require.NoError(t, err)

	_, err = s.Cancel(context.Background(), TestOrderID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	pub.AssertExpectations(t)
}

func TestOrderService_ForwardOnlyWalk(t *testing.T) {
	store := &memoryOrders{orders: map[string]domain.Order{
		TestOrderID: *CreateMockOrder(TestOrderID, domain.StatusPending),
	}}
	deliveries := new(mocks.MockDeliveryRepository)
	deliveries.On("FindDeliveryByID", context.Background(), TestDeliveryID).Return(&domain.Delivery{ID: TestDeliveryID}, nil)
	s := NewOrderService(repository.Store{Orders: store, Deliveries: deliveries})
	ctx := context.Background()

	_, err := s.AttachDelivery(ctx, TestOrderID, TestDeliveryID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = s.Transition(ctx, TestOrderID, "processing")
	require.NoError(t, err)
	_, err = s.AttachDelivery(ctx, TestOrderID, TestDeliveryID)
	require.NoError(t, err)
	_, err = s.Transition(ctx, TestOrderID, "shipped")
	require.NoError(t, err)
	_, err = s.Transition(ctx, TestOrderID, "delivered")
	require.NoError(t, err)

	for _, target := range domain.Statuses() {
		_, err = s.Transition(ctx, TestOrderID, string(target))
		assert.ErrorIs(t, err, domain.ErrIllegalTransition, target)
	}

	o, _ := store.FindByOrderID(ctx, TestOrderID)
	assert.Equal(t, domain.StatusDelivered, o.Status)
	require.NotNil(t, o.Delivery)
	assert.Equal(t, TestDeliveryID, *o.Delivery)
}
