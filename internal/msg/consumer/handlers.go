package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
)

// ErrNonRetryable marks failures that redelivery can never fix: payloads
// that do not decode and operations against resources that do not exist.
// The consumer records them as failed and acknowledges the message.
var ErrNonRetryable = errors.New("non-retryable command failure")

// Handler executes one action against a domain executor and returns the
// serialized result.
type Handler func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)

// Handlers is the closed action set of one queue. An action missing from the
// map is an unknown action, there is no default branch.
type Handlers map[model.Action]Handler

type CategoryExecutor interface {
	Create(ctx context.Context, req model.CategoryCreate) (*model.Category, error)
	Update(ctx context.Context, req model.CategoryUpdate) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetAll(ctx context.Context) ([]model.Category, error)
}

type AccountExecutor interface {
	Create(ctx context.Context, req model.AccountCreate) (*model.Account, error)
	Update(ctx context.Context, req model.AccountUpdate) (*model.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetAll(ctx context.Context) ([]model.Account, error)
}

type TransactionExecutor interface {
	Create(ctx context.Context, req model.TransactionCreate) (*model.Transaction, error)
	Update(ctx context.Context, req model.TransactionUpdate) (*model.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	GetAll(ctx context.Context) ([]model.Transaction, error)
}

func CategoryHandlers(svc CategoryExecutor) Handlers {
	return Handlers{
		model.ActionCreate: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.CategoryCreate
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			category, err := svc.Create(ctx, req)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(category)
		},
		model.ActionUpdate: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.CategoryUpdate
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			category, err := svc.Update(ctx, req)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(category)
		},
		model.ActionDelete: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.IDPayload
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			if err := svc.Delete(ctx, req.ID); err != nil {
				return nil, execErr(err)
			}

			return encodeResult(req)
		},
		model.ActionGetByID: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.IDPayload
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			category, err := svc.GetByID(ctx, req.ID)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(category)
		},
		model.ActionGetAll: func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
			categories, err := svc.GetAll(ctx)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(categories)
		},
	}
}

func AccountHandlers(svc AccountExecutor) Handlers {
	return Handlers{
		model.ActionCreate: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.AccountCreate
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			account, err := svc.Create(ctx, req)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(account)
		},
		model.ActionUpdate: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.AccountUpdate
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			account, err := svc.Update(ctx, req)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(account)
		},
		model.ActionDelete: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.IDPayload
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			if err := svc.Delete(ctx, req.ID); err != nil {
				return nil, execErr(err)
			}

			return encodeResult(req)
		},
		model.ActionGetByID: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.IDPayload
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			account, err := svc.GetByID(ctx, req.ID)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(account)
		},
		model.ActionGetAll: func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
			accounts, err := svc.GetAll(ctx)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(accounts)
		},
	}
}

func TransactionHandlers(svc TransactionExecutor) Handlers {
	return Handlers{
		model.ActionCreate: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.TransactionCreate
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			trx, err := svc.Create(ctx, req)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(trx)
		},
		model.ActionUpdate: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.TransactionUpdate
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			trx, err := svc.Update(ctx, req)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(trx)
		},
		model.ActionDelete: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.IDPayload
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			if err := svc.Delete(ctx, req.ID); err != nil {
				return nil, execErr(err)
			}

			return encodeResult(req)
		},
		model.ActionGetByID: func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
			var req model.IDPayload
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}

			trx, err := svc.GetByID(ctx, req.ID)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(trx)
		},
		model.ActionGetAll: func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
			transactions, err := svc.GetAll(ctx)
			if err != nil {
				return nil, execErr(err)
			}

			return encodeResult(transactions)
		},
	}
}

func decodePayload(payload json.RawMessage, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %w", ErrNonRetryable, err)
	}

	return nil
}

func encodeResult(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return data, nil
}

// execErr classifies an executor error. Absent resources stay absent no
// matter how often the broker redelivers, everything else is worth a retry.
func execErr(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrCategoryNotFound),
		errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound):
		return fmt.Errorf("%w: %w", ErrNonRetryable, err)
	default:
		return err
	}
}
