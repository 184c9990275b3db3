package warehouse

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

// Service provides business operations for the warehouse catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new warehouse service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// Create creates a new warehouse, generating a code when absent.
func (s *Service) Create(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}

	if w.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("WH"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		w.Code = code
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, w)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "warehouse created", "id", w.ID, "code", w.Code)
	return nil
}

// GetByID retrieves a warehouse.
func (s *Service) GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, warehouseID)
}

// Update modifies a warehouse.
func (s *Service) Update(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, w)
	})
}

// Delete soft-deletes a warehouse.
func (s *Service) Delete(ctx context.Context, warehouseID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, warehouseID)
	})
}

// List retrieves warehouses with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Warehouse], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks warehouse existence.
func (s *Service) Exists(ctx context.Context, warehouseID id.ID) (bool, error) {
	return s.repo.Exists(ctx, warehouseID)
}
