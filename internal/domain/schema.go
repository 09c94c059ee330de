package domain

import (
	"math"
	"unicode/utf8"
)

const (
	AddressMinLen = 5
	AddressMaxLen = 255
)

// CheckSchema enforces the structural shape of an order at the persistence
// boundary. A failure here means the caller skipped validation.
func (o *Order) CheckSchema() error {
	if o == nil {
		return &SchemaError{Field: "order", Rule: "required"}
	}
	if o.OrderID == "" {
		return &SchemaError{Field: "orderId", Rule: "required"}
	}
	if o.User == "" {
		return &SchemaError{Field: "user", Rule: "required"}
	}
	for _, p := range o.Products {
		if p == "" {
			return &SchemaError{Field: "products", Rule: "required"}
		}
	}
	if math.IsNaN(o.TotalPrice) || math.IsInf(o.TotalPrice, 0) {
		return &SchemaError{Field: "totalPrice", Rule: "finite"}
	}
	if o.TotalPrice < 0 {
		return &SchemaError{Field: "totalPrice", Rule: "min"}
	}
	if n := utf8.RuneCountInString(o.Address); o.Address != "" && (n < AddressMinLen || n > AddressMaxLen) {
		return &SchemaError{Field: "address", Rule: "length"}
	}
	if err := CheckStatusSchema(o.Status); err != nil {
		return err
	}
	if o.Payment == "" {
		return &SchemaError{Field: "payment", Rule: "required"}
	}
	if o.Delivery != nil && *o.Delivery == "" {
		return &SchemaError{Field: "delivery", Rule: "required"}
	}
	return nil
}

// CheckStatusSchema guards status values written by partial updates.
func CheckStatusSchema(s OrderStatus) error {
	if s == "" {
		return &SchemaError{Field: "status", Rule: "required"}
	}
	if !s.Valid() {
		return &SchemaError{Field: "status", Rule: "enum"}
	}
	return nil
}
