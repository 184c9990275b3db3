package adjustment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/internal/domain/recon/cyclecount"
	"stockyard/pkg/logger"
	"stockyard/pkg/numerator"
)

// Repository persists adjustment documents with their details.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, docID id.ID) (*Document, error)
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Document], error)
}

// Ledger is the stock surface adjustments write through on completion.
type Ledger interface {
	ApplyDelta(ctx context.Context, goodsID, locationID id.ID, delta types.Quantity) (entity.StockRecord, error)
}

// CycleCounts is the cycle count surface used for derivation.
type CycleCounts interface {
	GetByID(ctx context.Context, taskID id.ID) (*cyclecount.Task, error)
}

// Service provides adjustment document operations.
type Service struct {
	repo        Repository
	ledger      Ledger
	cycleCounts CycleCounts
	statusLogs  domain.StatusLogRepository
	changeLog   domain.ChangeLog
	txManager   tx.Manager
	numerator   *numerator.Service
}

// NewService creates the adjustment service.
func NewService(
	repo Repository,
	ledger Ledger,
	cycleCounts CycleCounts,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		repo:        repo,
		ledger:      ledger,
		cycleCounts: cycleCounts,
		statusLogs:  statusLogs,
		changeLog:   changeLog,
		txManager:   txManager,
		numerator:   num,
	}
}

// Create stores a new pending adjustment.
func (s *Service) Create(ctx context.Context, doc *Document) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ADJ"), time.Now())
		if err != nil {
			return fmt.Errorf("generate document number: %w", err)
		}
		doc.Number = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return err
		}
		return s.recordChange(ctx, doc, domain.ChangeActionCreate, doc.CreatedBy)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "adjustment created", "id", doc.ID, "number", doc.Number)
	return nil
}

// CreateFromCycleCount derives an adjustment from a completed cycle count,
// copying only the lines whose count disagreed with the ledger. The
// resulting document lives its own life; later edits to either side do
// not affect the other.
func (s *Service) CreateFromCycleCount(ctx context.Context, cycleCountID id.ID, reason, createdBy string) (*Document, error) {
	var doc *Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		count, err := s.cycleCounts.GetByID(ctx, cycleCountID)
		if err != nil {
			return err
		}
		if count.Status != statusflow.StateCompleted {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"cycle count must be completed before deriving an adjustment",
			).WithBusinessCode(apperror.BizStageNotCompleted).
				WithDetail("cycle_count_id", count.ID.String()).
				WithDetail("status", string(count.Status))
		}

		doc = New(count.WarehouseID, reason, createdBy)
		ccID := count.ID
		doc.CycleCountID = &ccID

		for _, line := range count.Details {
			if line.Difference.IsZero() {
				continue
			}
			_, err := doc.AddDetail(line.GoodsID, line.LocationID,
				line.SystemQuantity, line.ActualQuantity, line.Difference, "")
			if err != nil {
				return err
			}
		}
		if len(doc.Details) == 0 {
			return apperror.NewValidation("cycle count has no discrepancies to adjust").
				WithBusinessCode(apperror.BizEmptyDetails).
				WithDetail("cycle_count_id", count.ID.String())
		}

		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ADJ"), time.Now())
		if err != nil {
			return fmt.Errorf("generate document number: %w", err)
		}
		doc.Number = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return err
		}
		return s.recordChange(ctx, doc, domain.ChangeActionCreate, createdBy)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjustment derived from cycle count",
		"id", doc.ID, "number", doc.Number, "cycle_count_id", cycleCountID, "lines", len(doc.Details))
	return doc, nil
}

// GetByID loads an adjustment with its details.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves adjustments matching the filter.
func (s *Service) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Document], error) {
	return s.repo.List(ctx, filter)
}

// Update rewrites the pending adjustment's fields and details.
func (s *Service) Update(ctx context.Context, doc *Document) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByID(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := stored.CanModify(); err != nil {
			return err
		}

		doc.Touch()
		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		return s.recordChange(ctx, doc, domain.ChangeActionUpdate, doc.CreatedBy)
	})
}

// Delete soft-deletes a pending adjustment.
func (s *Service) Delete(ctx context.Context, docID id.ID, operatorID string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CanModify(); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, docID); err != nil {
			return err
		}
		return s.recordChange(ctx, doc, domain.ChangeActionDelete, operatorID)
	})
}

// Approve authorizes the corrections (pending -> approved), stamping the
// approver. An adjustment without lines cannot be approved.
func (s *Service) Approve(ctx context.Context, docID id.ID, approverID string) (*Document, error) {
	var doc *Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		if len(doc.Details) == 0 {
			return apperror.NewValidation("adjustment has no detail lines").
				WithBusinessCode(apperror.BizEmptyDetails).
				WithField("details")
		}

		logRow, err := doc.Apply(statusflow.KindAdjustment, statusflow.ActionApprove, approverID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		doc.ApprovedBy = approverID
		doc.ApprovedAt = &now

		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		if err := s.statusLogs.Append(ctx, logRow); err != nil {
			return err
		}
		return s.recordChange(ctx, doc, domain.ChangeActionTransition, approverID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjustment approved", "id", doc.ID, "number", doc.Number, "approved_by", approverID)
	return doc, nil
}

// Complete applies every correction to the ledger and closes the document
// (approved -> completed). All lines apply or none do: any failure rolls
// the transaction back and the document stays approved.
func (s *Service) Complete(ctx context.Context, docID id.ID, operatorID string) (*Document, error) {
	var doc *Document
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		if doc.Status != statusflow.StateApproved {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"only approved adjustments can be completed",
			).WithBusinessCode(apperror.BizNotApproved).
				WithDetail("adjustment_id", doc.ID.String()).
				WithDetail("status", string(doc.Status))
		}

		logRow, err := doc.Apply(statusflow.KindAdjustment, statusflow.ActionComplete, operatorID)
		if err != nil {
			return err
		}

		for i := range doc.Details {
			line := &doc.Details[i]
			if _, err := s.ledger.ApplyDelta(ctx, line.GoodsID, line.LocationID, line.AdjustmentQuantity); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return err
		}
		if err := s.statusLogs.Append(ctx, logRow); err != nil {
			return err
		}
		return s.recordChange(ctx, doc, domain.ChangeActionTransition, operatorID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjustment completed", "id", doc.ID, "number", doc.Number, "lines", len(doc.Details))
	return doc, nil
}

func (s *Service) recordChange(ctx context.Context, doc *Document, action domain.ChangeAction, operatorID string) error {
	snapshot, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal adjustment snapshot: %w", err)
	}
	return s.changeLog.Record(ctx, "adjustment", doc.ID, action, operatorID, snapshot)
}
