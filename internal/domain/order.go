package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Order is the persisted purchase record. The same shape is used on the wire,
// in the document store and in the SQL store.
type Order struct {
	OrderID    string      `json:"orderId" bson:"orderId" gorm:"primaryKey;size:64"`
	User       string      `json:"user" bson:"user" gorm:"column:user_id;size:64;not null;index"`
	Products   []string    `json:"products" bson:"products" gorm:"serializer:json;type:json;not null"`
	TotalPrice float64     `json:"totalPrice" bson:"totalPrice" gorm:"type:decimal(12,2);not null"`
	Address    string      `json:"address" bson:"address" gorm:"size:255"`
	Status     OrderStatus `json:"status" bson:"status" gorm:"type:enum('pending','processing','shipped','delivered','cancelled');not null;default:'pending'"`
	Payment    string      `json:"payment" bson:"payment" gorm:"column:payment_id;size:64;not null"`
	Delivery   *string     `json:"delivery,omitempty" bson:"delivery,omitempty" gorm:"column:delivery_id;size:64"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `json:"updatedAt" bson:"updatedAt" gorm:"autoUpdateTime"`
}

// HasDelivery reports whether a delivery record is attached.
func (o *Order) HasDelivery() bool {
	return o.Delivery != nil && *o.Delivery != ""
}

// Clone returns a deep copy so callers can mutate the result freely.
func (o *Order) Clone() *Order {
	c := *o
	c.Products = append([]string(nil), o.Products...)
	if o.Delivery != nil {
		d := *o.Delivery
		c.Delivery = &d
	}
	return &c
}
