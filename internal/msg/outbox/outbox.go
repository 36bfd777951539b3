package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/model"
	"finbook-back/internal/repository"
	"finbook-back/pkg/rabbitmq"
)

const batchSizeMultiply = 5

type Repository interface {
	UpdateAsSent(ctx context.Context, ext repository.RepoExtension, messageID uuid.UUID) error
	SelectUnsentBatch(ctx context.Context, ext repository.RepoExtension, batchSize int) ([]model.OutboxMessage, error)
}

type Config struct {
	Name         string
	WorkerCount  int
	PollInterval time.Duration
	BatchSize    int
}

// Publisher relays unsent outbox rows to their command queues. A row is
// marked sent only after the broker accepted the publish; a failed publish
// leaves the row unsent and the next poll picks it up again.
type Publisher struct {
	l          *zap.Logger
	cfg        Config
	producer   rabbitmq.Producer
	outboxRepo Repository
}

func NewPublisher(l *zap.Logger, cfg Config, producer rabbitmq.Producer, outboxRepo Repository) *Publisher {
	return &Publisher{
		l:          l,
		cfg:        cfg,
		producer:   producer,
		outboxRepo: outboxRepo,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messagePipe := make(chan model.OutboxMessage, p.cfg.BatchSize*batchSizeMultiply)

	for i := 0; i < p.cfg.WorkerCount; i++ {
		go p.worker(ctx, i, messagePipe)
	}

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Outbox publisher stopped")
			close(messagePipe)

			return
		case <-ticker.C:
			messages, err := p.outboxRepo.SelectUnsentBatch(ctx, nil, p.cfg.BatchSize)
			if err != nil {
				p.l.Error("Failed to select unsent messages", zap.Error(err))
				continue
			}

			for _, msg := range messages {
				messagePipe <- msg
			}
		}
	}
}

func (p *Publisher) worker(ctx context.Context, id int, messagePipe <-chan model.OutboxMessage) {
	p.l.Info("Outbox worker started", zap.Int("id", id))

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Worker stopping", zap.Int("id", id))

			return
		case msg, ok := <-messagePipe:
			if !ok {
				p.l.Info("Message channel closed", zap.Int("id", id))

				return
			}

			if err := p.sendAndMark(ctx, msg); err != nil {
				p.l.Error("Failed to send message", zap.Error(err), zap.String("message_id", msg.ID.String()))

				continue
			}

			p.l.Info("Message sent",
				zap.String("message_id", msg.ID.String()),
				zap.String("queue", msg.Queue),
			)
		}
	}
}

func (p *Publisher) sendAndMark(ctx context.Context, message model.OutboxMessage) error {
	if err := p.producer.Publish(ctx, message.Payload, message.Queue); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	if err := p.outboxRepo.UpdateAsSent(ctx, nil, message.ID); err != nil {
		return fmt.Errorf("failed to update as sent: %w", err)
	}

	return nil
}
