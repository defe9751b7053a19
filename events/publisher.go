package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

func (p *Publisher) PublishOrderPaid(ctx context.Context, evt OrderPaid) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("could not marshal order.paid event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		ExchangeName,        // exchange
		OrderPaidRoutingKey, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.OrderID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// OrderPaid lets the publisher act as a payment notifier for the callback
// reconciler.
func (p *Publisher) OrderPaid(ctx context.Context, order models.Order) error {
	return p.PublishOrderPaid(ctx, NewOrderPaid(order))
}
