package service

import (
	"context"

	"go.uber.org/zap"
)

type HealthRepository interface {
	IsOK() (bool, error)
	PingDB(ctx context.Context) error
}

type HealthService struct {
	log        *zap.Logger
	healthRepo HealthRepository
}

func NewHealthService(log *zap.Logger, healthRepo HealthRepository) *HealthService {
	return &HealthService{
		log:        log,
		healthRepo: healthRepo,
	}
}

func (s *HealthService) IsOK() (bool, error) {
	ok, err := s.healthRepo.IsOK()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (s *HealthService) CheckDB(ctx context.Context) error {
	return s.healthRepo.PingDB(ctx)
}
