package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type TransactionRepository interface {
	Insert(ctx context.Context, ext repository.RepoExtension, trx *model.Transaction) error
	SelectByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Transaction, error)
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Transaction, error)
	Update(ctx context.Context, ext repository.RepoExtension, upd *model.TransactionUpdate) error
	Delete(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
}

type TransactionService struct {
	log     *zap.Logger
	trxRepo TransactionRepository
}

func NewTransactionService(log *zap.Logger, trxRepo TransactionRepository) *TransactionService {
	return &TransactionService{
		log:     log,
		trxRepo: trxRepo,
	}
}

func (s *TransactionService) Create(ctx context.Context, req model.TransactionCreate) (*model.Transaction, error) {
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	trx := &model.Transaction{
		ID:         uuid.New(),
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Note:       req.Note,
		OccurredAt: occurredAt,
	}

	if err := s.trxRepo.Insert(ctx, nil, trx); err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return s.trxRepo.SelectByID(ctx, nil, trx.ID)
}

func (s *TransactionService) Update(ctx context.Context, req model.TransactionUpdate) (*model.Transaction, error) {
	if err := s.trxRepo.Update(ctx, nil, &req); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return s.trxRepo.SelectByID(ctx, nil, req.ID)
}

func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trxRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return nil
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.trxRepo.SelectByID(ctx, nil, id)
}

func (s *TransactionService) GetAll(ctx context.Context) ([]model.Transaction, error) {
	return s.trxRepo.SelectAll(ctx, nil)
}
