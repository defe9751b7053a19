package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

type OrderPaidHandler func(ctx context.Context, evt OrderPaid) error

type Subscriber struct {
	ch *amqp.Channel
}

func NewSubscriber(ch *amqp.Channel) *Subscriber {
	return &Subscriber{ch: ch}
}

// SubscribeOrderPaid consumes order.paid events from a durable queue until
// ctx is cancelled. Deliveries are acked only after handler succeeds.
func (s *Subscriber) SubscribeOrderPaid(ctx context.Context, queue string, handler OrderPaidHandler) error {
	q, err := s.ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("could not declare queue: %w", err)
	}

	if err := s.ch.QueueBind(q.Name, OrderPaidRoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("could not bind queue: %w", err)
	}

	msgs, err := s.ch.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("could not start consume: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				handleDelivery(ctx, d, handler)
			}
		}
	}()

	return nil
}

// handleDelivery acks processed events, drops undecodable ones and requeues
// a failed event once before giving up on it.
func handleDelivery(ctx context.Context, d amqp.Delivery, handler OrderPaidHandler) {
	var evt OrderPaid
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		log.Printf("Error unmarshaling order.paid event: %v", err)
		d.Reject(false)
		return
	}

	if err := handler(ctx, evt); err != nil {
		log.Printf("Error handling order.paid event for order %s: %v", evt.OrderID, err)
		d.Nack(false, !d.Redelivered)
		return
	}
	d.Ack(false)
}
