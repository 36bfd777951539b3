package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type MessageRegistry interface {
	Insert(ctx context.Context, ext repository.RepoExtension, action model.Action, queueName string, requestBody []byte) (int64, error)
}

type OutboxRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, message model.OutboxMessage) error
}

// DispatchService registers an incoming command and hands it to the outbox
// in one transaction. Publication itself belongs to the outbox relay, so a
// crash between the two writes cannot leave a registered command with
// nothing on the wire.
type DispatchService struct {
	log         *zap.Logger
	tx          repository.Transactor
	messageRepo MessageRegistry
	outboxRepo  OutboxRepository
	queuePrefix string
}

func NewDispatchService(
	log *zap.Logger,
	tx repository.Transactor,
	messageRepo MessageRegistry,
	outboxRepo OutboxRepository,
	queuePrefix string,
) *DispatchService {
	return &DispatchService{
		log:         log,
		tx:          tx,
		messageRepo: messageRepo,
		outboxRepo:  outboxRepo,
		queuePrefix: queuePrefix,
	}
}

// QueueName maps a resource to its command queue.
func (s *DispatchService) QueueName(resource model.Resource) string {
	return fmt.Sprintf("%s.%s", s.queuePrefix, resource)
}

func (s *DispatchService) SendCommand(ctx context.Context, resource model.Resource, action model.Action, payload json.RawMessage) (*model.CommandReceipt, error) {
	queue := s.QueueName(resource)
	envelope := model.NewEnvelope(action, payload)

	requestBody, err := envelope.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrEnqueueFailed, err)
	}

	var id int64

	err = s.tx.WithinTx(ctx, func(ext repository.RepoExtension) error {
		id, err = s.messageRepo.Insert(ctx, ext, action, queue, requestBody)
		if err != nil {
			return fmt.Errorf("failed to insert command message: %w", err)
		}

		// Only the wire copy carries the assigned id, the stored request
		// body keeps the envelope exactly as it was handed in.
		envelope.CorrelationID = id

		wireBody, err := envelope.Encode()
		if err != nil {
			return err
		}

		outboxMessage := model.OutboxMessage{
			ID:      uuid.New(),
			Queue:   queue,
			Payload: wireBody,
		}

		if err := s.outboxRepo.InsertMessage(ctx, ext, outboxMessage); err != nil {
			return fmt.Errorf("failed to insert outbox message: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrEnqueueFailed, err)
	}

	s.log.Debug("Command queued",
		zap.Int64("id", id),
		zap.String("queue", queue),
		zap.String("action", string(action)),
	)

	return &model.CommandReceipt{
		ID:     id,
		Status: model.MessageQueued,
	}, nil
}
