package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

const contentTypeJSON = "application/json"

type Producer interface {
	Publish(ctx context.Context, body []byte, queue string) error
	Close() error
}

// QueueProducer publishes persistent messages to named durable queues over a
// single channel. Publishing is serialized because an amqp channel is not
// safe for concurrent use.
type QueueProducer struct {
	mu sync.Mutex
	ch *amqp.Channel

	declared map[string]struct{}
}

func NewProducer(client *Client) (*QueueProducer, error) {
	ch, err := client.Channel()
	if err != nil {
		return nil, err
	}

	return &QueueProducer{
		ch:       ch,
		declared: make(map[string]struct{}),
	}, nil
}

func (p *QueueProducer) Publish(ctx context.Context, body []byte, queue string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.declared[queue]; !ok {
		if err := declareQueue(p.ch, queue); err != nil {
			return err
		}

		p.declared[queue] = struct{}{}
	}

	err := p.ch.Publish(
		"",    // default exchange routes by queue name
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %q: %w", queue, err)
	}

	return nil
}

func (p *QueueProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.Close()
}
