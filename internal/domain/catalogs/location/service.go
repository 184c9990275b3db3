package location

import (
	"context"
	"fmt"
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/pkg/logger"
	"stockyard/pkg/numerator"
)

// Service provides business operations for the location catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new location service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// Create creates a new location, generating a code when absent.
func (s *Service) Create(ctx context.Context, l *Location) error {
	if err := l.Validate(ctx); err != nil {
		return err
	}

	if l.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("LC"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		l.Code = code
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, l)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "location created", "id", l.ID, "code", l.Code, "warehouse_id", l.WarehouseID)
	return nil
}

// GetByID retrieves a location.
func (s *Service) GetByID(ctx context.Context, locationID id.ID) (*Location, error) {
	return s.repo.GetByID(ctx, locationID)
}

// Update modifies a location.
func (s *Service) Update(ctx context.Context, l *Location) error {
	if err := l.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, l)
	})
}

// Delete soft-deletes a location.
func (s *Service) Delete(ctx context.Context, locationID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, locationID)
	})
}

// List retrieves locations with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Location], error) {
	return s.repo.List(ctx, filter)
}

// ListByWarehouse returns all active locations of one warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

// Exists checks location existence; used as a precondition by movements.
func (s *Service) Exists(ctx context.Context, locationID id.ID) (bool, error) {
	return s.repo.Exists(ctx, locationID)
}
