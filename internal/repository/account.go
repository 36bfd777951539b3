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

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (r *AccountRepository) Insert(ctx context.Context, ext RepoExtension, account *model.Account) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        INSERT INTO finance.accounts (id, name, currency, opening_balance)
        VALUES ($1, $2, $3, $4);
    `

	_, err := ext.Exec(ctx, query, account.ID, account.Name, account.Currency, account.OpeningBalance)
	if err != nil {
		return err
	}

	return nil
}

func (r *AccountRepository) SelectByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Account, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, name, currency, opening_balance, created_at, updated_at
        FROM finance.accounts
        WHERE id = $1;
    `

	var account model.Account

	if err := ext.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Currency,
		&account.OpeningBalance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}

		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) SelectAll(ctx context.Context, ext RepoExtension) ([]model.Account, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, name, currency, opening_balance, created_at, updated_at
        FROM finance.accounts
        ORDER BY created_at;
    `

	rows, err := ext.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var accounts []model.Account

	for rows.Next() {
		var account model.Account
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Currency,
			&account.OpeningBalance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (r *AccountRepository) Update(ctx context.Context, ext RepoExtension, id uuid.UUID, name string) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        UPDATE finance.accounts
        SET name = $2, updated_at = NOW()
        WHERE id = $1;
    `

	tag, err := ext.Exec(ctx, query, id, name)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        DELETE FROM finance.accounts
        WHERE id = $1;
    `

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}
