package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Delivery is a single queued message whose acknowledgment stays bound to
// the delivery it came from.
type Delivery struct {
	Body []byte

	src amqp.Delivery
}

// Ack confirms the message has been fully processed and removes it from the
// queue.
func (d *Delivery) Ack() error {
	return d.src.Ack(false)
}

// Reject drops the message. With requeue it is handed back to the queue for
// redelivery, without it the message is discarded (or dead-lettered when the
// queue is configured so).
func (d *Delivery) Reject(requeue bool) error {
	return d.src.Reject(requeue)
}

func (d *Delivery) Redelivered() bool {
	return d.src.Redelivered
}

type Consumer interface {
	Run() error
	Messages() <-chan *Delivery
	Shutdown() error
}

// QueueConsumer consumes one durable queue with manual acknowledgment over a
// dedicated channel.
type QueueConsumer struct {
	ch       *amqp.Channel
	queue    string
	tag      string
	prefetch int
	messages chan *Delivery
}

func NewConsumer(client *Client, queue, tag string, prefetch, bufferSize int) (*QueueConsumer, error) {
	ch, err := client.Channel()
	if err != nil {
		return nil, err
	}

	if err := declareQueue(ch, queue); err != nil {
		return nil, err
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set qos on %q: %w", queue, err)
	}

	return &QueueConsumer{
		ch:       ch,
		queue:    queue,
		tag:      tag,
		prefetch: prefetch,
		messages: make(chan *Delivery, bufferSize),
	}, nil
}

// Run consumes deliveries until the channel is closed by Shutdown or by a
// broker-side error, then closes Messages.
func (c *QueueConsumer) Run() error {
	deliveries, err := c.ch.Consume(
		c.queue,
		c.tag,
		false, // autoAck off, acknowledgment is explicit
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume %q: %w", c.queue, err)
	}

	for d := range deliveries {
		c.messages <- &Delivery{Body: d.Body, src: d}
	}

	close(c.messages)

	return nil
}

func (c *QueueConsumer) Messages() <-chan *Delivery {
	return c.messages
}

func (c *QueueConsumer) Shutdown() error {
	if err := c.ch.Cancel(c.tag, false); err != nil {
		return fmt.Errorf("failed to cancel consumer %q: %w", c.tag, err)
	}

	return c.ch.Close()
}
