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

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

func (r *CategoryRepository) Insert(ctx context.Context, ext RepoExtension, category *model.Category) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        INSERT INTO finance.categories (id, name)
        VALUES ($1, $2);
    `

	_, err := ext.Exec(ctx, query, category.ID, category.Name)
	if err != nil {
		return err
	}

	return nil
}

func (r *CategoryRepository) SelectByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Category, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, name, created_at, updated_at
        FROM finance.categories
        WHERE id = $1;
    `

	var category model.Category

	if err := ext.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}

		return nil, err
	}

	return &category, nil
}

func (r *CategoryRepository) SelectAll(ctx context.Context, ext RepoExtension) ([]model.Category, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
        SELECT id, name, created_at, updated_at
        FROM finance.categories
        ORDER BY name;
    `

	rows, err := ext.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var categories []model.Category

	for rows.Next() {
		var category model.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, ext RepoExtension, id uuid.UUID, name string) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        UPDATE finance.categories
        SET name = $2, updated_at = NOW()
        WHERE id = $1;
    `

	tag, err := ext.Exec(ctx, query, id, name)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
        DELETE FROM finance.categories
        WHERE id = $1;
    `

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}

	return nil
}
