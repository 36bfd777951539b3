package consumer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"finbook-back/internal/model"
	"finbook-back/internal/repository"
	"finbook-back/pkg/rabbitmq"
)

const messagePipeBuffer = 1000

type MessageRegistry interface {
	MarkSucceeded(ctx context.Context, ext repository.RepoExtension, id int64, responseBody []byte) error
	MarkFailed(ctx context.Context, ext repository.RepoExtension, id int64, errorMessage string) error
	IncrementAttempts(ctx context.Context, ext repository.RepoExtension, id int64) (int, error)
}

type Config struct {
	Name        string
	Queue       string
	WorkerCount int
	MaxAttempts int
}

// Consumer drains one command queue: decode, resolve the action, execute,
// record the outcome, acknowledge. A message is acknowledged only after the
// registry write came back, so at-least-once delivery plus the registry's
// first-terminal-write-wins updates give idempotent processing.
type Consumer struct {
	l           *zap.Logger
	cfg         Config
	consumer    rabbitmq.Consumer
	messageRepo MessageRegistry
	handlers    Handlers
}

// disposition is what should happen to the broker message after handling.
type disposition int

const (
	ackMessage disposition = iota
	requeueMessage
)

func New(l *zap.Logger, cfg Config, queueConsumer rabbitmq.Consumer, messageRepo MessageRegistry, handlers Handlers) *Consumer {
	return &Consumer{
		l:           l,
		cfg:         cfg,
		consumer:    queueConsumer,
		messageRepo: messageRepo,
		handlers:    handlers,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := c.consumer.Run(); err != nil {
			c.l.Error("Queue consumer stopped", zap.String("queue", c.cfg.Queue), zap.Error(err))
		}
	}()

	messagePipe := make(chan *rabbitmq.Delivery, messagePipeBuffer)

	for i := 0; i < c.cfg.WorkerCount; i++ {
		go c.worker(ctx, i, messagePipe)
	}

	for {
		select {
		case <-ctx.Done():
			c.l.Info("Context canceled, stopping consumer", zap.String("queue", c.cfg.Queue))

			close(messagePipe)

			return
		case msg, ok := <-c.consumer.Messages():
			if !ok {
				c.l.Info("Consumer messages channel closed", zap.String("queue", c.cfg.Queue))

				close(messagePipe)

				return
			}

			messagePipe <- msg
		}
	}
}

func (c *Consumer) worker(ctx context.Context, id int, messagePipe <-chan *rabbitmq.Delivery) {
	c.l.Info("Consumer worker started", zap.String("queue", c.cfg.Queue), zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			c.l.Info("Worker stopping", zap.String("queue", c.cfg.Queue), zap.Int("worker_id", id))

			return
		case msg, ok := <-messagePipe:
			if !ok {
				c.l.Info("Message channel closed", zap.String("queue", c.cfg.Queue), zap.Int("worker_id", id))

				return
			}

			switch c.process(ctx, msg) {
			case ackMessage:
				if err := msg.Ack(); err != nil {
					c.l.Error("Failed to ack message", zap.String("queue", c.cfg.Queue), zap.Error(err))
				}
			case requeueMessage:
				if err := msg.Reject(true); err != nil {
					c.l.Error("Failed to requeue message", zap.String("queue", c.cfg.Queue), zap.Error(err))
				}
			}
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg *rabbitmq.Delivery) disposition {
	envelope, err := model.DecodeEnvelope(msg.Body)
	if err != nil {
		// Nothing to correlate, the outcome can only be logged.
		c.l.Error("Dropping undecodable message", zap.String("queue", c.cfg.Queue), zap.Error(err))

		return ackMessage
	}

	id := envelope.CorrelationID
	if id == model.UnassignedCorrelationID {
		c.l.Error("Dropping message without correlation id", zap.String("queue", c.cfg.Queue))

		return ackMessage
	}

	handler, ok := c.handlers[envelope.Action]
	if !ok {
		return c.fail(ctx, id, fmt.Sprintf("unknown action: %q", envelope.Action))
	}

	result, err := handler(ctx, envelope.Payload)
	if err != nil {
		if errors.Is(err, ErrNonRetryable) {
			return c.fail(ctx, id, err.Error())
		}

		return c.retry(ctx, id, err)
	}

	if err := c.messageRepo.MarkSucceeded(ctx, nil, id, result); err != nil {
		c.l.Error("Failed to record success, message stays queued",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return requeueMessage
	}

	c.l.Info("Command executed",
		zap.Int64("id", id),
		zap.String("queue", c.cfg.Queue),
		zap.String("action", string(envelope.Action)),
	)

	return ackMessage
}

// fail records a terminal failure. The registry write must land before the
// ack; if it does not, the message goes back for redelivery.
func (c *Consumer) fail(ctx context.Context, id int64, message string) disposition {
	if err := c.messageRepo.MarkFailed(ctx, nil, id, message); err != nil {
		c.l.Error("Failed to record failure, message stays queued",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return requeueMessage
	}

	c.l.Warn("Command failed",
		zap.Int64("id", id),
		zap.String("queue", c.cfg.Queue),
		zap.String("error", message),
	)

	return ackMessage
}

// retry spends one unit of the redelivery budget. Once the budget is gone
// the failure becomes terminal instead of circulating forever.
func (c *Consumer) retry(ctx context.Context, id int64, cause error) disposition {
	attempts, err := c.messageRepo.IncrementAttempts(ctx, nil, id)
	if err != nil {
		c.l.Error("Failed to count attempt", zap.Int64("id", id), zap.Error(err))

		return requeueMessage
	}

	if attempts >= c.cfg.MaxAttempts {
		return c.fail(ctx, id, fmt.Sprintf("gave up after %d attempts: %v", attempts, cause))
	}

	c.l.Warn("Command handler failed, requeueing",
		zap.Int64("id", id),
		zap.Int("attempts", attempts),
		zap.Error(cause),
	)

	return requeueMessage
}

// Shutdown cancels the queue subscription. Deliveries still in the worker
// pool finish against the open channel before the connection is closed.
func (c *Consumer) Shutdown() error {
	if err := c.consumer.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown queue consumer %q: %w", c.cfg.Queue, err)
	}

	return nil
}
