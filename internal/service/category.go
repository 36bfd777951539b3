package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type CategoryRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, category *model.Category) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Category, error)
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Category, error)
	Update(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, name string) error
	Delete(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type CategoryService struct {
	log          *zap.Logger
	categoryRepo CategoryRepository
}

func NewCategoryService(log *zap.Logger, categoryRepo CategoryRepository) *CategoryService {
	return &CategoryService{
		log:          log,
		categoryRepo: categoryRepo,
	}
}

func (s *CategoryService) Create(ctx context.Context, req model.CategoryCreate) (*model.Category, error) {
	category := &model.Category{
		ID:   uuid.New(),
		Name: req.Name,
	}

	if err := s.categoryRepo.Insert(ctx, nil, category); err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	return s.categoryRepo.SelectByID(ctx, nil, category.ID)
}

func (s *CategoryService) Update(ctx context.Context, req model.CategoryUpdate) (*model.Category, error) {
	if err := s.categoryRepo.Update(ctx, nil, req.ID, req.Name); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.categoryRepo.SelectByID(ctx, nil, req.ID)
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.categoryRepo.SelectByID(ctx, nil, id)
}

func (s *CategoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.SelectAll(ctx, nil)
}
