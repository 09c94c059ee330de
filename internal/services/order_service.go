package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra"
	"storefront-orders/internal/logger"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OrderService is the only writer of order state. Every change after
// creation is a compare-and-set on the status read just before the write.
type OrderService struct {
	orders     repository.OrderRepository
	users      repository.UserRepository
	products   repository.ProductRepository
	livePrices repository.ProductRepository
	payments   repository.PaymentRepository
	deliveries repository.DeliveryRepository
	publisher  infra.EventPublisher

	now   func() time.Time
	newID func() string
}

// OrderDetails is an order together with the entities it references.
// References that no longer resolve are listed in Unresolved.
type OrderDetails struct {
	Order      *domain.Order      `json:"order"`
	User       *domain.User       `json:"user,omitempty"`
	Products   []domain.Product   `json:"products"`
	Payment    *domain.Payment    `json:"payment,omitempty"`
	Delivery   *domain.Delivery   `json:"delivery,omitempty"`
	Unresolved []domain.Reference `json:"unresolved,omitempty"`
}

func NewOrderService(store repository.Store) *OrderService {
	return &OrderService{
		orders:     store.Orders,
		users:      store.Users,
		products:   store.Products,
		livePrices: store.Products,
		payments:   store.Payments,
		deliveries: store.Deliveries,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SetProductSources replaces the store's product collection. lookup serves
// Create and GetByID and may be a cache; live is read by RecomputeTotal and
// must not be cached.
func (s *OrderService) SetProductSources(lookup, live repository.ProductRepository) {
	s.products = lookup
	s.livePrices = live
}

// SetPublisher enables order events. Without a publisher nothing is emitted.
func (s *OrderService) SetPublisher(p infra.EventPublisher) {
	s.publisher = p
}

func (s *OrderService) Create(ctx context.Context, in validation.CreateInput) (*domain.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Create"))

	in, err := validation.ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	var (
		user    *domain.User
		found   []domain.Product
		payment *domain.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.FindUserByID(gctx, in.User)
		if err != nil {
			return &domain.PersistenceError{Op: "find user", Err: err}
		}
		user = u
		return nil
	})
	g.Go(func() error {
		p, err := s.products.FindProductsByIDs(gctx, in.Products)
		if err != nil {
			return &domain.PersistenceError{Op: "find products", Err: err}
		}
		found = p
		return nil
	})
	g.Go(func() error {
		p, err := s.payments.FindPaymentByID(gctx, in.Payment)
		if err != nil {
			return &domain.PersistenceError{Op: "find payment", Err: err}
		}
		payment = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(log, err)
	}

	var missing []domain.Reference
	if user == nil {
		missing = append(missing, domain.Reference{Kind: domain.RefUser, ID: in.User})
	}
	total, missingProducts := sumPrices(in.Products, found)
	missing = append(missing, missingProducts...)
	if payment == nil {
		missing = append(missing, domain.Reference{Kind: domain.RefPayment, ID: in.Payment})
	}
	if len(missing) > 0 {
		return nil, &domain.ReferenceError{Missing: missing}
	}
	if payment.OrderID != "" {
		return nil, paymentTaken()
	}

	now := s.stamp()
	order := &domain.Order{
		OrderID:    s.newID(),
		User:       in.User,
		Products:   in.Products,
		TotalPrice: total,
		Address:    in.Address,
		Status:     domain.StatusPending,
		Payment:    in.Payment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := validation.ValidateOrder(validation.PayloadFromOrder(order)); err != nil {
		return nil, err
	}

	linked, err := s.payments.LinkOrder(ctx, order.Payment, order.OrderID)
	if err != nil {
		return nil, s.fail(log, &domain.PersistenceError{Op: "link payment", Err: err})
	}
	if !linked {
		return nil, paymentTaken()
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		if uerr := s.payments.UnlinkOrder(context.WithoutCancel(ctx), order.Payment, order.OrderID); uerr != nil {
			log.Error("failed to release payment after insert failure",
				zap.String("orderId", order.OrderID),
				zap.String("paymentId", order.Payment),
				zap.Error(uerr),
			)
		}
		return nil, s.fail(log, storeErr("insert order", err))
	}

	log.Info("order created", zap.String("orderId", order.OrderID), zap.Float64("totalPrice", order.TotalPrice))
	s.publish(ctx, domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:    order.OrderID,
		User:       order.User,
		Products:   order.Products,
		TotalPrice: order.TotalPrice,
		Payment:    order.Payment,
		CreatedAt:  order.CreatedAt,
	})
	return order, nil
}

// Transition moves an order to target when the state machine allows it.
func (s *OrderService) Transition(ctx context.Context, orderID, target string) (*domain.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Transition"), zap.String("orderId", orderID))

	to, serr := validation.ValidateStatus(target)
	if err := joinValidation(validation.ValidateID("orderId", orderID), serr); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, s.fail(log, err)
	}

	from := order.Status
	if !domain.CanTransition(from, to) {
		return nil, &domain.TransitionError{OrderID: orderID, From: from, To: to}
	}

	at := s.stamp()
	applied, err := s.orders.UpdateStatus(ctx, orderID, from, to, at)
	if err != nil {
		return nil, s.fail(log, storeErr("update status", err))
	}
	if !applied {
		log.Warn("status changed concurrently", zap.String("expected", from.String()))
		return nil, &domain.TransitionError{OrderID: orderID, From: from, To: to, Concurrent: true}
	}

	order.Status = to
	order.UpdatedAt = at
	log.Info("order status changed", zap.String("from", from.String()), zap.String("to", to.String()))
	s.publish(ctx, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:   orderID,
		From:      from,
		To:        to,
		ChangedAt: at,
	})
	return order, nil
}

// Cancel is a transition to cancelled.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.Transition(ctx, orderID, string(domain.StatusCancelled))
}

func (s *OrderService) AttachDelivery(ctx context.Context, orderID, deliveryID string) (*domain.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "AttachDelivery"), zap.String("orderId", orderID))

	if err := joinValidation(
		validation.ValidateID("orderId", orderID),
		validation.ValidateID("deliveryId", deliveryID),
	); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, s.fail(log, err)
	}

	status := order.Status
	if !domain.AcceptsDelivery(status) || order.HasDelivery() {
		return nil, &domain.TransitionError{OrderID: orderID, From: status, Action: "attach delivery"}
	}

	delivery, err := s.deliveries.FindDeliveryByID(ctx, deliveryID)
	if err != nil {
		return nil, s.fail(log, &domain.PersistenceError{Op: "find delivery", Err: err})
	}
	if delivery == nil {
		return nil, &domain.ReferenceError{Missing: []domain.Reference{{Kind: domain.RefDelivery, ID: deliveryID}}}
	}

	at := s.stamp()
	applied, err := s.orders.SetDelivery(ctx, orderID, status, deliveryID, at)
	if err != nil {
		return nil, s.fail(log, storeErr("set delivery", err))
	}
	if !applied {
		return nil, &domain.TransitionError{OrderID: orderID, From: status, Action: "attach delivery", Concurrent: true}
	}

	order.Delivery = &deliveryID
	order.UpdatedAt = at
	log.Info("delivery attached", zap.String("deliveryId", deliveryID))
	s.publish(ctx, domain.EventOrderDeliveryAttached, domain.OrderDeliveryAttachedEvent{
		OrderID:    orderID,
		Delivery:   deliveryID,
		Status:     status,
		AttachedAt: at,
	})
	return order, nil
}

// RecomputeTotal re-prices a pending order from current product prices.
// Past pending the total is frozen.
func (s *OrderService) RecomputeTotal(ctx context.Context, orderID string) (*domain.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "RecomputeTotal"), zap.String("orderId", orderID))

	if err := validation.ValidateID("orderId", orderID); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, s.fail(log, err)
	}
	if order.Status != domain.StatusPending {
		return nil, &domain.TransitionError{OrderID: orderID, From: order.Status, Action: "recompute total"}
	}

	found, err := s.livePrices.FindProductsByIDs(ctx, order.Products)
	if err != nil {
		return nil, s.fail(log, &domain.PersistenceError{Op: "find products", Err: err})
	}
	total, missing := sumPrices(order.Products, found)
	if len(missing) > 0 {
		return nil, &domain.ReferenceError{Missing: missing}
	}

	at := s.stamp()
	applied, err := s.orders.UpdateTotal(ctx, orderID, domain.StatusPending, total, at)
	if err != nil {
		return nil, s.fail(log, storeErr("update total", err))
	}
	if !applied {
		return nil, &domain.TransitionError{OrderID: orderID, From: domain.StatusPending, Action: "recompute total", Concurrent: true}
	}

	if total != order.TotalPrice {
		log.Info("order total changed", zap.Float64("from", order.TotalPrice), zap.Float64("to", total))
	}
	order.TotalPrice = total
	order.UpdatedAt = at
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID string) (*OrderDetails, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "GetByID"), zap.String("orderId", orderID))

	if err := validation.ValidateID("orderId", orderID); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, s.fail(log, err)
	}

	details := &OrderDetails{Order: order}
	var found []domain.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.FindUserByID(gctx, order.User)
		if err != nil {
			return &domain.PersistenceError{Op: "find user", Err: err}
		}
		details.User = u
		return nil
	})
	g.Go(func() error {
		p, err := s.products.FindProductsByIDs(gctx, order.Products)
		if err != nil {
			return &domain.PersistenceError{Op: "find products", Err: err}
		}
		found = p
		return nil
	})
	g.Go(func() error {
		p, err := s.payments.FindPaymentByID(gctx, order.Payment)
		if err != nil {
			return &domain.PersistenceError{Op: "find payment", Err: err}
		}
		details.Payment = p
		return nil
	})
	if order.HasDelivery() {
		g.Go(func() error {
			d, err := s.deliveries.FindDeliveryByID(gctx, *order.Delivery)
			if err != nil {
				return &domain.PersistenceError{Op: "find delivery", Err: err}
			}
			details.Delivery = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(log, err)
	}

	if details.User == nil {
		details.Unresolved = append(details.Unresolved, domain.Reference{Kind: domain.RefUser, ID: order.User})
	}
	byID := indexProducts(found)
	details.Products = make([]domain.Product, 0, len(byID))
	for _, id := range repository.UniqueIDs(order.Products) {
		p, ok := byID[id]
		if !ok {
			details.Unresolved = append(details.Unresolved, domain.Reference{Kind: domain.RefProduct, ID: id})
			continue
		}
		details.Products = append(details.Products, p)
	}
	if details.Payment == nil {
		details.Unresolved = append(details.Unresolved, domain.Reference{Kind: domain.RefPayment, ID: order.Payment})
	}
	if order.HasDelivery() && details.Delivery == nil {
		details.Unresolved = append(details.Unresolved, domain.Reference{Kind: domain.RefDelivery, ID: *order.Delivery})
	}
	if len(details.Unresolved) > 0 {
		log.Warn("order has dangling references", zap.Int("count", len(details.Unresolved)))
	}
	return details, nil
}

// ListByUser returns the user's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "ListByUser"), zap.String("userId", userID))

	if err := validation.ValidateID("userId", userID); err != nil {
		return nil, err
	}
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, s.fail(log, storeErr("find orders by user", err))
	}
	return orders, nil
}

func (s *OrderService) load(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find order", Err: err}
	}
	if o == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return o, nil
}

// stamp is the timestamp written with every change; stores keep milliseconds.
func (s *OrderService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *OrderService) publish(ctx context.Context, pattern string, evt any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish event", zap.String("pattern", pattern), zap.Error(err))
	}
}

// fail logs server-side failures before returning err unchanged.
func (s *OrderService) fail(log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrSchemaViolation):
		log.Error("schema violation reached the store", zap.Error(err))
	case errors.Is(err, domain.ErrPersistence):
		log.Error("storage failure", zap.Error(err))
	}
	return err
}

// storeErr classifies a write failure. Schema guard rejections keep their own class.
func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrSchemaViolation) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func paymentTaken() error {
	return &domain.ValidationError{Fields: []domain.FieldError{{Field: "payment", Rule: "unlinked"}}}
}

// joinValidation merges validation failures so callers see every bad field.
func joinValidation(errs ...error) error {
	var merged *domain.ValidationError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		if merged == nil {
			merged = &domain.ValidationError{}
		}
		merged.Fields = append(merged.Fields, verr.Fields...)
	}
	if merged == nil {
		return nil
	}
	return merged
}

func indexProducts(products []domain.Product) map[string]domain.Product {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}

// sumPrices prices every occurrence in ids and rounds to cents. Unknown
// products are returned once each, in first-seen order.
func sumPrices(ids []string, products []domain.Product) (float64, []domain.Reference) {
	byID := indexProducts(products)
	total := decimal.Zero
	var missing []domain.Reference
	reported := make(map[string]bool)
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			if !reported[id] {
				reported[id] = true
				missing = append(missing, domain.Reference{Kind: domain.RefProduct, ID: id})
			}
			continue
		}
		total = total.Add(decimal.NewFromFloat(p.Price))
	}
	return total.Round(2).InexactFloat64(), missing
}
