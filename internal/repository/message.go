package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
)

// MessageRepository is the command registry: one row per enqueued command,
// keyed by the id that doubles as the wire correlation id.
//
// Terminal updates are conditional on the row still being queued, so a
// redelivered message can replay them without overwriting the first outcome.
type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

func (r *MessageRepository) Insert(ctx context.Context, ext RepoExtension, action model.Action, queueName string, requestBody []byte) (int64, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        INSERT INTO messages.command_messages (action, queue_name, request_body)
        VALUES ($1, $2, $3)
        RETURNING id;
    `

	var id int64
	if err := ext.QueryRow(ctx, query, string(action), queueName, requestBody).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *MessageRepository) MarkSucceeded(ctx context.Context, ext RepoExtension, id int64, responseBody []byte) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        UPDATE messages.command_messages
        SET status = 'succeeded', response_body = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'queued';
    `

	_, err := ext.Exec(ctx, query, id, responseBody)
	if err != nil {
		return err
	}

	return nil
}

func (r *MessageRepository) MarkFailed(ctx context.Context, ext RepoExtension, id int64, errorMessage string) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        UPDATE messages.command_messages
        SET status = 'failed', error_message = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'queued';
    `

	_, err := ext.Exec(ctx, query, id, errorMessage)
	if err != nil {
		return err
	}

	return nil
}

func (r *MessageRepository) IncrementAttempts(ctx context.Context, ext RepoExtension, id int64) (int, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        UPDATE messages.command_messages
        SET attempts = attempts + 1, updated_at = NOW()
        WHERE id = $1
        RETURNING attempts;
    `

	var attempts int
	if err := ext.QueryRow(ctx, query, id).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrMessageNotFound
		}

		return 0, err
	}

	return attempts, nil
}

func (r *MessageRepository) SelectByID(ctx context.Context, ext RepoExtension, id int64) (*model.MessageRecord, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, action, queue_name, request_body, response_body, status, error_message, attempts, created_at, updated_at
        FROM messages.command_messages
        WHERE id = $1;
    `

	var record model.MessageRecord

	if err := ext.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Action,
		&record.QueueName,
		&record.RequestBody,
		&record.ResponseBody,
		&record.Status,
		&record.ErrorMessage,
		&record.Attempts,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}

		return nil, err
	}

	return &record, nil
}
