package domain

type User struct {
	ID    string `json:"id" bson:"-"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

type Product struct {
	ID    string  `json:"id" bson:"-"`
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID      string        `json:"id" bson:"-"`
	Amount  float64       `json:"amount" bson:"amount"`
	Status  PaymentStatus `json:"status" bson:"status"`
	OrderID string        `json:"orderId,omitempty" bson:"orderId,omitempty"`
}

type Delivery struct {
	ID             string `json:"id" bson:"-"`
	Carrier        string `json:"carrier" bson:"carrier"`
	TrackingNumber string `json:"trackingNumber" bson:"trackingNumber"`
	Status         string `json:"status" bson:"status"`
}

type ReferenceKind string

const (
	RefUser     ReferenceKind = "user"
	RefProduct  ReferenceKind = "product"
	RefPayment  ReferenceKind = "payment"
	RefDelivery ReferenceKind = "delivery"
)

// Reference names another entity by kind and id.
type Reference struct {
	Kind ReferenceKind `json:"kind"`
	ID   string        `json:"id"`
}
