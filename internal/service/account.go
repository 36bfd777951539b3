package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type AccountRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, account *model.Account) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Account, error)
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Account, error)
	Update(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, name string) error
	Delete(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type AccountService struct {
	log         *zap.Logger
	accountRepo AccountRepository
}

func NewAccountService(log *zap.Logger, accountRepo AccountRepository) *AccountService {
	return &AccountService{
		log:         log,
		accountRepo: accountRepo,
	}
}

func (s *AccountService) Create(ctx context.Context, req model.AccountCreate) (*model.Account, error) {
	account := &model.Account{
		ID:             uuid.New(),
		Name:           req.Name,
		Currency:       req.Currency,
		OpeningBalance: req.OpeningBalance,
	}

	if err := s.accountRepo.Insert(ctx, nil, account); err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return s.accountRepo.SelectByID(ctx, nil, account.ID)
}

func (s *AccountService) Update(ctx context.Context, req model.AccountUpdate) (*model.Account, error) {
	if err := s.accountRepo.Update(ctx, nil, req.ID, req.Name); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return s.accountRepo.SelectByID(ctx, nil, req.ID)
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.accountRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.accountRepo.SelectByID(ctx, nil, id)
}

func (s *AccountService) GetAll(ctx context.Context) ([]model.Account, error) {
	return s.accountRepo.SelectAll(ctx, nil)
}
