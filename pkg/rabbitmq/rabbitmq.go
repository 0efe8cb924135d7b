package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

const (
	// OrderExchange is the fanout exchange order events are published to.
	OrderExchange = "order_events"
	// OrderQueue is the durable queue bound to OrderExchange for downstream consumers.
	OrderQueue = "order_queue"
	// OrderCreatedType is the message type of OrderCreatedEvent.
	OrderCreatedType = "order.created"
)

// OrderCreatedEvent is published after an order has been stored.
type OrderCreatedEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   int64     `json:"order_id"`
	UserID    int64     `json:"user_id"`
	Product   *string   `json:"product"`
	Amount    *string   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOrderCreatedEvent stamps a new event with a random id and the current time.
func NewOrderCreatedEvent(orderID, userID int64, product, amount *string) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		UserID:    userID,
		Product:   product,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// DecodeOrderCreated parses a message body produced by PublishOrderCreated.
func DecodeOrderCreated(body []byte) (OrderCreatedEvent, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return OrderCreatedEvent{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.EventID == "" {
		return OrderCreatedEvent{}, errors.New("order event has no event_id")
	}
	return event, nil
}

// amqpChannel is the part of *amqp.Channel the client uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel amqpChannel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the order topology.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"exchange": OrderExchange,
		"queue":    OrderQueue,
	}).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// declareTopology declares the fanout exchange and binds OrderQueue to it, so
// every subscriber queue receives its own copy of each event.
func declareTopology(ch amqpChannel) error {
	err := ch.ExchangeDeclare(
		OrderExchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderExchange, err)
	}

	_, err = ch.QueueDeclare(
		OrderQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}

	if err := ch.QueueBind(OrderQueue, "", OrderExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", OrderQueue, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderCreated publishes event as a persistent JSON message on OrderExchange.
func (c *Client) PublishOrderCreated(event OrderCreatedEvent) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = c.channel.Publish(
		OrderExchange,
		OrderCreatedType, // routing key, ignored by fanout
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Type:         OrderCreatedType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"order_id": event.OrderID,
	}).Debug("Order event published")
	return nil
}

// ConsumeOrderEvents subscribes handler to OrderExchange through a private,
// server-named queue, leaving OrderQueue to downstream consumers. Messages are
// acked when handler returns nil and nacked without requeue otherwise.
func (c *Client) ConsumeOrderEvents(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare subscriber queue: %w", err)
	}
	if err := c.channel.QueueBind(queue.Name, "", OrderExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind subscriber queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				logrus.WithFields(logrus.Fields{
					"delivery_tag": msg.DeliveryTag,
					"error":        err.Error(),
				}).Error("Failed to process order event")
				if nackErr := msg.Nack(false, false); nackErr != nil {
					logrus.WithError(nackErr).Error("Failed to nack order event")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				logrus.WithError(ackErr).Error("Failed to ack order event")
			}
		}
	}()

	return nil
}

// LogOrderEvent is a consumer handler that records each received event.
func LogOrderEvent(msg amqp.Delivery) error {
	event, err := DecodeOrderCreated(msg.Body)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"order_id": event.OrderID,
		"user_id":  event.UserID,
	}).Info("Received order created event")
	return nil
}
