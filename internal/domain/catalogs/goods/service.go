package goods

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

// Service provides business operations for the goods catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new goods service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// Create creates a new goods item, generating a code when absent.
func (s *Service) Create(ctx context.Context, g *Goods) error {
	if err := g.Validate(ctx); err != nil {
		return err
	}

	if g.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("GD"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		g.Code = code
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, g)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "goods created", "id", g.ID, "code", g.Code)
	return nil
}

// GetByID retrieves a goods item.
func (s *Service) GetByID(ctx context.Context, goodsID id.ID) (*Goods, error) {
	return s.repo.GetByID(ctx, goodsID)
}

// GetByCode retrieves a goods item by catalog code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Goods, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update modifies a goods item.
func (s *Service) Update(ctx context.Context, g *Goods) error {
	if err := g.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, g)
	})
}

// Delete soft-deletes a goods item.
func (s *Service) Delete(ctx context.Context, goodsID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, goodsID)
	})
}

// List retrieves goods with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Goods], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks goods existence; used as a precondition by movements.
func (s *Service) Exists(ctx context.Context, goodsID id.ID) (bool, error) {
	return s.repo.Exists(ctx, goodsID)
}
