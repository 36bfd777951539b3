package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
	"finbook-back/internal/repository"
)

type MessageReader interface {
	SelectByID(ctx context.Context, ext repository.RepoExtension, id int64) (*model.MessageRecord, error)
}

type ResultCache interface {
	Get(ctx context.Context, id int64) ([]byte, error)
	Set(ctx context.Context, id int64, value []byte, ttl time.Duration) error
}

// ResultService renders a registry row as the three-way poll outcome. A nil
// cache disables caching; only terminal rows are ever cached since those are
// immutable.
type ResultService struct {
	log         *zap.Logger
	messageRepo MessageReader
	cache       ResultCache
	cacheTTL    time.Duration
}

func NewResultService(log *zap.Logger, messageRepo MessageReader, cache ResultCache, cacheTTL time.Duration) *ResultService {
	return &ResultService{
		log:         log,
		messageRepo: messageRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

func (s *ResultService) GetResult(ctx context.Context, id int64) (*model.CommandResult, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			var result model.CommandResult
			if err := json.Unmarshal(cached, &result); err == nil {
				return &result, nil
			}
		} else if !errors.Is(err, apperrors.ErrCacheMiss) {
			s.log.Warn("Result cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	record, err := s.messageRepo.SelectByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to select command message: %w", err)
	}

	result := &model.CommandResult{
		ID:             record.ID,
		OriginalAction: record.Action,
		Status:         record.Status,
	}

	switch record.Status {
	case model.MessageSucceeded:
		result.Response = record.ResponseBody
	case model.MessageFailed:
		result.Error = record.ErrorMessage
	}

	if s.cache != nil && record.Status.Terminal() {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, id, data, s.cacheTTL); err != nil {
				s.log.Warn("Result cache write failed", zap.Int64("id", id), zap.Error(err))
			}
		}
	}

	return result, nil
}
