// Package validation checks order payloads supplied by callers before any
// persistence is attempted. Failures are reported as *domain.ValidationError
// with one entry per violated field.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"storefront-orders/internal/domain"

	"github.com/go-playground/validator/v10"
)

var refPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

var validate = newValidator()

// OrderPayload is the complete proposed order.
type OrderPayload struct {
	User       string   `json:"user" validate:"required,ref"`
	Products   []string `json:"products" validate:"required,min=1,dive,required,ref"`
	TotalPrice *float64 `json:"totalPrice" validate:"required,gte=0"`
	Address    string   `json:"address" validate:"required,min=5,max=255"`
	Status     string   `json:"status" validate:"required,orderstatus"`
	Payment    string   `json:"payment" validate:"required,ref"`
	Delivery   string   `json:"delivery,omitempty" validate:"omitempty,ref"`
}

// CreateInput is what a caller supplies to create an order; price and status
// are derived by the lifecycle manager.
type CreateInput struct {
	User     string   `json:"user" validate:"required,ref"`
	Products []string `json:"products" validate:"required,min=1,dive,required,ref"`
	Address  string   `json:"address" validate:"required,min=5,max=255"`
	Payment  string   `json:"payment" validate:"required,ref"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
		return IsRef(fl.Field().String())
	})
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return domain.OrderStatus(fl.Field().String()).Valid()
	})
	return v
}

// IsRef reports whether id is a well-formed entity identifier.
func IsRef(id string) bool {
	return refPattern.MatchString(id)
}

// ValidateOrder normalises p and checks every rule, returning all failures at once.
func ValidateOrder(p OrderPayload) (OrderPayload, error) {
	p.User = strings.TrimSpace(p.User)
	p.Products = trimAll(p.Products)
	p.Address = strings.TrimSpace(p.Address)
	p.Status = strings.TrimSpace(p.Status)
	p.Payment = strings.TrimSpace(p.Payment)
	p.Delivery = strings.TrimSpace(p.Delivery)

	if err := validate.Struct(p); err != nil {
		return p, translate(err, "")
	}
	return p, nil
}

// ValidateCreate normalises and checks the input of an order creation.
func ValidateCreate(in CreateInput) (CreateInput, error) {
	in.User = strings.TrimSpace(in.User)
	in.Products = trimAll(in.Products)
	in.Address = strings.TrimSpace(in.Address)
	in.Payment = strings.TrimSpace(in.Payment)

	if err := validate.Struct(in); err != nil {
		return in, translate(err, "")
	}
	return in, nil
}

// ValidateID checks a single identifier reported under field.
func ValidateID(field, id string) error {
	return translate(validate.Var(id, "required,ref"), field)
}

// ValidateStatus checks that v names one of the order statuses.
func ValidateStatus(v string) (domain.OrderStatus, error) {
	v = strings.TrimSpace(v)
	if err := validate.Var(v, "required,orderstatus"); err != nil {
		return "", translate(err, "status")
	}
	return domain.OrderStatus(v), nil
}

// PayloadFromOrder builds the payload view of an order.
func PayloadFromOrder(o *domain.Order) OrderPayload {
	total := o.TotalPrice
	p := OrderPayload{
		User:       o.User,
		Products:   append([]string(nil), o.Products...),
		TotalPrice: &total,
		Address:    o.Address,
		Status:     string(o.Status),
		Payment:    o.Payment,
	}
	if o.Delivery != nil {
		p.Delivery = *o.Delivery
	}
	return p
}

func translate(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		out.Fields = append(out.Fields, domain.FieldError{Field: name, Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
