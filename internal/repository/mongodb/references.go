package mongodb

import (
	"context"
	"errors"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID    any    `bson:"_id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

type productDoc struct {
	ID    any     `bson:"_id"`
	Name  string  `bson:"name"`
	Price float64 `bson:"price"`
}

type paymentDoc struct {
	ID      any                  `bson:"_id"`
	Amount  float64              `bson:"amount"`
	Status  domain.PaymentStatus `bson:"status"`
	OrderID string               `bson:"orderId,omitempty"`
}

type deliveryDoc struct {
	ID             any    `bson:"_id"`
	Carrier        string `bson:"carrier"`
	TrackingNumber string `bson:"trackingNumber"`
	Status         string `bson:"status"`
}

type userRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) repository.UserRepository {
	return &userRepo{coll: db.Collection(usersCollection), timeout: timeout}
}

func (r *userRepo) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDoc
	found, err := findOne(ctx, r.coll, r.timeout, idFilter(id), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &domain.User{ID: id, Name: doc.Name, Email: doc.Email}, nil
}

type productRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewProductRepository(db *mongo.Database, timeout time.Duration) repository.ProductRepository {
	return &productRepo{coll: db.Collection(productsCollection), timeout: timeout}
}

func (r *productRepo) FindProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	unique := repository.UniqueIDs(ids)
	cur, err := r.coll.Find(ctx, idFilter(unique...))
	if err != nil {
		return nil, err
	}

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	requested := requestedIndex(unique)
	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		id, ok := requested[d.ID]
		if !ok {
			id = idString(d.ID)
		}
		out = append(out, domain.Product{ID: id, Name: d.Name, Price: d.Price})
	}
	return out, nil
}

type paymentRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewPaymentRepository(db *mongo.Database, timeout time.Duration) repository.PaymentRepository {
	return &paymentRepo{coll: db.Collection(paymentsCollection), timeout: timeout}
}

func (r *paymentRepo) FindPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	var doc paymentDoc
	found, err := findOne(ctx, r.coll, r.timeout, idFilter(id), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &domain.Payment{ID: id, Amount: doc.Amount, Status: doc.Status, OrderID: doc.OrderID}, nil
}

func (r *paymentRepo) LinkOrder(ctx context.Context, paymentID, orderID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := idFilter(paymentID)
	filter["orderId"] = nil

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"orderId": orderID}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *paymentRepo) UnlinkOrder(ctx context.Context, paymentID, orderID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := idFilter(paymentID)
	filter["orderId"] = orderID

	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$unset": bson.M{"orderId": ""}})
	return err
}

type deliveryRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewDeliveryRepository(db *mongo.Database, timeout time.Duration) repository.DeliveryRepository {
	return &deliveryRepo{coll: db.Collection(deliveriesCollection), timeout: timeout}
}

func (r *deliveryRepo) FindDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error) {
	var doc deliveryDoc
	found, err := findOne(ctx, r.coll, r.timeout, idFilter(id), &doc)
	if err != nil || !found {
		return nil, err
	}
	return &domain.Delivery{
		ID:             id,
		Carrier:        doc.Carrier,
		TrackingNumber: doc.TrackingNumber,
		Status:         doc.Status,
	}, nil
}

func findOne(ctx context.Context, coll *mongo.Collection, timeout time.Duration, filter bson.M, out any) (bool, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
