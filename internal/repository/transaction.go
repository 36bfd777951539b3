package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

func (r *TransactionRepository) Insert(ctx context.Context, ext RepoExtension, trx *model.Transaction) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        INSERT INTO finance.transactions (id, account_id, category_id, amount, note, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `

	_, err := ext.Exec(ctx, query, trx.ID, trx.AccountID, trx.CategoryID, trx.Amount, trx.Note, trx.OccurredAt)
	if err != nil {
		return err
	}

	return nil
}

func (r *TransactionRepository) SelectByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Transaction, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, account_id, category_id, amount, note, occurred_at, created_at, updated_at
        FROM finance.transactions
        WHERE id = $1;
    `

	var trx model.Transaction

	if err := ext.QueryRow(ctx, query, id).Scan(
		&trx.ID,
		&trx.AccountID,
		&trx.CategoryID,
		&trx.Amount,
		&trx.Note,
		&trx.OccurredAt,
		&trx.CreatedAt,
		&trx.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTransactionNotFound
		}

		return nil, err
	}

	return &trx, nil
}

func (r *TransactionRepository) SelectAll(ctx context.Context, ext RepoExtension) ([]model.Transaction, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, account_id, category_id, amount, note, occurred_at, created_at, updated_at
        FROM finance.transactions
        ORDER BY occurred_at DESC;
    `

	rows, err := ext.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var transactions []model.Transaction

	for rows.Next() {
		var trx model.Transaction
		if err := rows.Scan(
			&trx.ID,
			&trx.AccountID,
			&trx.CategoryID,
			&trx.Amount,
			&trx.Note,
			&trx.OccurredAt,
			&trx.CreatedAt,
			&trx.UpdatedAt,
		); err != nil {
			return nil, err
		}

		transactions = append(transactions, trx)
	}

	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, ext RepoExtension, upd *model.TransactionUpdate) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        UPDATE finance.transactions
        SET category_id = $2, amount = $3, note = $4, updated_at = NOW()
        WHERE id = $1;
    `

	tag, err := ext.Exec(ctx, query, upd.ID, upd.CategoryID, upd.Amount, upd.Note)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        DELETE FROM finance.transactions
        WHERE id = $1;
    `

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}
