package rabbitmq

import (
	"storefront-orders/internal/infra"

	"github.com/streadway/amqp"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var (
	_ infra.EventPublisher = (*Publisher)(nil)
	_ Channel              = (*amqp.Channel)(nil)
)
