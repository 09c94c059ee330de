package mysql

import (
	"context"
	"errors"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"

	"gorm.io/gorm"
)

type userRecord struct {
	ID    string `gorm:"primaryKey;size:64"`
	Name  string `gorm:"size:255"`
	Email string `gorm:"size:255"`
}

func (userRecord) TableName() string { return "users" }

type productRecord struct {
	ID    string  `gorm:"primaryKey;size:64"`
	Name  string  `gorm:"size:255"`
	Price float64 `gorm:"type:decimal(12,2);not null"`
}

func (productRecord) TableName() string { return "products" }

type paymentRecord struct {
	ID      string  `gorm:"primaryKey;size:64"`
	Amount  float64 `gorm:"type:decimal(12,2)"`
	Status  string  `gorm:"size:32"`
	OrderID *string `gorm:"size:64;uniqueIndex"`
}

func (paymentRecord) TableName() string { return "payments" }

type deliveryRecord struct {
	ID             string `gorm:"primaryKey;size:64"`
	Carrier        string `gorm:"size:128"`
	TrackingNumber string `gorm:"size:128"`
	Status         string `gorm:"size:32"`
}

func (deliveryRecord) TableName() string { return "deliveries" }

// Migrate creates or updates every table the service reads or writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Order{}, &userRecord{}, &productRecord{}, &paymentRecord{}, &deliveryRecord{})
}

// NewStore wires every repository onto db.
func NewStore(db *gorm.DB, timeout time.Duration) repository.Store {
	return repository.Store{
		Orders:     NewOrderRepository(db, timeout),
		Users:      NewUserRepository(db, timeout),
		Products:   NewProductRepository(db, timeout),
		Payments:   NewPaymentRepository(db, timeout),
		Deliveries: NewDeliveryRepository(db, timeout),
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

type userRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) repository.UserRepository {
	return &userRepo{db: db, timeout: timeout}
}

func (r *userRepo) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var rec userRecord
	found, err := takeByID(ctx, r.db, r.timeout, id, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &domain.User{ID: rec.ID, Name: rec.Name, Email: rec.Email}, nil
}

type productRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewProductRepository(db *gorm.DB, timeout time.Duration) repository.ProductRepository {
	return &productRepo{db: db, timeout: timeout}
}

func (r *productRepo) FindProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var recs []productRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", repository.UniqueIDs(ids)).Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.Product{ID: rec.ID, Name: rec.Name, Price: rec.Price})
	}
	return out, nil
}

type paymentRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewPaymentRepository(db *gorm.DB, timeout time.Duration) repository.PaymentRepository {
	return &paymentRepo{db: db, timeout: timeout}
}

func (r *paymentRepo) FindPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	var rec paymentRecord
	found, err := takeByID(ctx, r.db, r.timeout, id, &rec)
	if err != nil || !found {
		return nil, err
	}
	p := &domain.Payment{ID: rec.ID, Amount: rec.Amount, Status: domain.PaymentStatus(rec.Status)}
	if rec.OrderID != nil {
		p.OrderID = *rec.OrderID
	}
	return p, nil
}

func (r *paymentRepo) LinkOrder(ctx context.Context, paymentID, orderID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&paymentRecord{}).
		Where("id = ? AND order_id IS NULL", paymentID).
		Update("order_id", orderID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *paymentRepo) UnlinkOrder(ctx context.Context, paymentID, orderID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).Model(&paymentRecord{}).
		Where("id = ? AND order_id = ?", paymentID, orderID).
		Update("order_id", gorm.Expr("NULL")).Error
}

type deliveryRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewDeliveryRepository(db *gorm.DB, timeout time.Duration) repository.DeliveryRepository {
	return &deliveryRepo{db: db, timeout: timeout}
}

func (r *deliveryRepo) FindDeliveryByID(ctx context.Context, id string) (*domain.Delivery, error) {
	var rec deliveryRecord
	found, err := takeByID(ctx, r.db, r.timeout, id, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &domain.Delivery{ID: rec.ID, Carrier: rec.Carrier, TrackingNumber: rec.TrackingNumber, Status: rec.Status}, nil
}

func takeByID(ctx context.Context, db *gorm.DB, timeout time.Duration, id string, out any) (bool, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	if err := db.WithContext(ctx).Where("id = ?", id).Take(out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
