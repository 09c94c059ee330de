package http

import "storefront-orders/internal/domain"

type CreateOrderRequest struct {
	User     string   `json:"user"`
	Products []string `json:"products"`
	Address  string   `json:"address"`
	Payment  string   `json:"payment"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type AttachDeliveryRequest struct {
	DeliveryID string `json:"deliveryId"`
}

type ErrorResponse struct {
	Error      string              `json:"error"`
	Fields     []domain.FieldError `json:"fields,omitempty"`
	Missing    []domain.Reference  `json:"missing,omitempty"`
	Concurrent bool                `json:"concurrent,omitempty"`
}
