package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"ordermgmt/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher sends events to a durable queue through the default exchange.
type RabbitPublisher struct {
	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	timeout   time.Duration
}

func NewRabbitPublisher(url string, queueName string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	p := &RabbitPublisher{conn: conn, queueName: queueName, timeout: 5 * time.Second}
	if _, err := p.channel(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

// channel reopens the channel when the broker closed it.
func (p *RabbitPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev model.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		toPublishing(ev))
	if err != nil {
		return fmt.Errorf("failed to publish event %d: %w", ev.ID, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}

func toPublishing(ev model.OutboxEvent) amqp.Publishing {
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    strconv.FormatInt(ev.ID, 10),
		Type:         string(ev.EventType),
		Timestamp:    ev.CreatedAt,
		Headers:      amqp.Table{"order_code": ev.AggregateID},
		Body:         []byte(ev.Payload),
	}
}
