// Package rabbitmq publishes and consumes storefront order events over AMQP.
package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

// OrderQueue is the durable queue every order event is routed to.
const OrderQueue = "order_queue"

// ErrChannelClosed is returned once the client has been closed.
var ErrChannelClosed = errors.New("rabbitmq channel is not available")

// OrderEvent is the JSON envelope carried by every message on OrderQueue.
type OrderEvent struct {
	Event      string          `json:"event"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// channel is the subset of *amqp.Channel the client uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel. A single channel is
// shared, so publishes are serialized.
type Client struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel channel
	log     zerolog.Logger
	now     func() time.Time
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient dials the broker, opens a channel and declares OrderQueue.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c, err := newClient(ch, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.conn = conn

	log.Info().Str("queue", OrderQueue).Msg("rabbitmq client connected")
	return c, nil
}

func newClient(ch channel, log zerolog.Logger) (*Client, error) {
	if err := declareOrderQueue(ch); err != nil {
		ch.Close()
		return nil, err
	}
	return &Client{channel: ch, log: log, now: time.Now}, nil
}

func declareOrderQueue(ch channel) error {
	_, err := ch.QueueDeclare(
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
	return nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}
	return errors.Join(errs...)
}

// PublishOrderEvent wraps payload in an OrderEvent and publishes it as a
// persistent JSON message on OrderQueue.
func (c *Client) PublishOrderEvent(event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	now := c.now().UTC()
	body, err := json.Marshal(OrderEvent{Event: event, OccurredAt: now, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return ErrChannelClosed
	}

	err = c.channel.Publish(
		"",         // default exchange
		OrderQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}

	c.log.Debug().Str("event", event).RawJSON("payload", raw).Msg("order event published")
	return nil
}

// DecodeOrderEvent parses a message body produced by PublishOrderEvent.
func DecodeOrderEvent(body []byte) (OrderEvent, error) {
	var ev OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return OrderEvent{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	if ev.Event == "" {
		return OrderEvent{}, errors.New("failed to decode order event: missing event name")
	}
	return ev, nil
}

// ConsumeOrderEvents starts a goroutine that hands every decoded event on
// OrderQueue to handler. Messages are acked when handler returns nil and
// nacked with requeue otherwise; undecodable messages are dropped. The
// goroutine exits when the channel closes.
func (c *Client) ConsumeOrderEvents(handler func(OrderEvent) error) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return ErrChannelClosed
	}

	if err := declareOrderQueue(ch); err != nil {
		return err
	}
	msgs, err := ch.Consume(
		OrderQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info().Str("queue", OrderQueue).Msg("waiting for order events")
	go c.drain(msgs, handler)
	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) drain(msgs <-chan amqp.Delivery, handler func(OrderEvent) error) {
	for msg := range msgs {
		c.handle(msg.DeliveryTag, msg.Body, &msg, handler)
	}
	c.log.Info().Msg("order event consumer stopped")
}

func (c *Client) handle(tag uint64, body []byte, ack acknowledger, handler func(OrderEvent) error) {
	ev, err := DecodeOrderEvent(body)
	if err != nil {
		c.log.Warn().Err(err).Uint64("delivery_tag", tag).Msg("dropping malformed order event")
		if nackErr := ack.Nack(false, false); nackErr != nil {
			c.log.Error().Err(nackErr).Uint64("delivery_tag", tag).Msg("nack failed")
		}
		return
	}

	if err := handler(ev); err != nil {
		c.log.Error().Err(err).Str("event", ev.Event).Uint64("delivery_tag", tag).Msg("order event handler failed")
		if nackErr := ack.Nack(false, true); nackErr != nil {
			c.log.Error().Err(nackErr).Uint64("delivery_tag", tag).Msg("nack failed")
		}
		return
	}
	if err := ack.Ack(false); err != nil {
		c.log.Error().Err(err).Uint64("delivery_tag", tag).Msg("ack failed")
	}
}

// LogOrderEvent returns a handler that writes each event to log.
func LogOrderEvent(log zerolog.Logger) func(OrderEvent) error {
	return func(ev OrderEvent) error {
		if len(ev.Payload) == 0 {
			ev.Payload = json.RawMessage("null")
		}
		log.Info().
			Str("event", ev.Event).
			Time("occurred_at", ev.OccurredAt).
			RawJSON("payload", ev.Payload).
			Msg("order event received")
		return nil
	}
}
