package cyclecount

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
	"stockyard/pkg/logger"
	"stockyard/pkg/numerator"
)

// Repository persists cycle count tasks with their details.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, taskID id.ID) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, taskID id.ID) error
	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Task], error)
}

// Ledger is the stock surface cycle counts read from. They never write.
type Ledger interface {
	ReadQuantity(ctx context.Context, goodsID, locationID id.ID) (types.Quantity, error)
	ListByGoods(ctx context.Context, goodsID, warehouseID id.ID) ([]entity.StockRecord, error)
}

// Service provides cycle count operations.
type Service struct {
	repo       Repository
	ledger     Ledger
	goods      domain.ExistenceChecker
	statusLogs domain.StatusLogRepository
	changeLog  domain.ChangeLog
	txManager  tx.Manager
	numerator  *numerator.Service
}

// NewService creates the cycle count service.
func NewService(
	repo Repository,
	ledger Ledger,
	goods domain.ExistenceChecker,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		repo:       repo,
		ledger:     ledger,
		goods:      goods,
		statusLogs: statusLogs,
		changeLog:  changeLog,
		txManager:  txManager,
		numerator:  num,
	}
}

// Create stores a new pending cycle count task.
func (s *Service) Create(ctx context.Context, task *Task) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CC"), time.Now())
		if err != nil {
			return fmt.Errorf("generate document number: %w", err)
		}
		task.Number = number

		if err := s.repo.Create(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionCreate, task.CreatedBy)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "cycle count created", "id", task.ID, "number", task.Number)
	return nil
}

// CreateFromGoodsList builds a cycle count covering every location where
// the listed goods are currently held in the warehouse. A good with no
// stock contributes no lines; an unknown good fails the whole call.
func (s *Service) CreateFromGoodsList(ctx context.Context, goodsIDs []id.ID, warehouseID id.ID, createdBy string) (*Task, error) {
	if len(goodsIDs) == 0 {
		return nil, apperror.NewValidation("goods list must not be empty").
			WithBusinessCode(apperror.BizEmptyDetails).
			WithField("goodsIds")
	}

	task := New(warehouseID, createdBy)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, goodsID := range goodsIDs {
			ok, err := s.goods.Exists(ctx, goodsID)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.NewNotFound("goods", goodsID.String())
			}

			records, err := s.ledger.ListByGoods(ctx, goodsID, warehouseID)
			if err != nil {
				return err
			}
			for _, record := range records {
				if _, err := task.AddDetail(record.GoodsID, record.LocationID); err != nil {
					return err
				}
			}
		}

		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CC"), time.Now())
		if err != nil {
			return fmt.Errorf("generate document number: %w", err)
		}
		task.Number = number

		if err := s.repo.Create(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionCreate, createdBy)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cycle count created from goods list",
		"id", task.ID, "number", task.Number, "lines", len(task.Details))
	return task, nil
}

// GetByID loads a cycle count with its details.
func (s *Service) GetByID(ctx context.Context, taskID id.ID) (*Task, error) {
	return s.repo.GetByID(ctx, taskID)
}

// List retrieves cycle counts matching the filter.
func (s *Service) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Task], error) {
	return s.repo.List(ctx, filter)
}

// Update rewrites the pending task's fields and details.
func (s *Service) Update(ctx context.Context, task *Task) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByID(ctx, task.ID)
		if err != nil {
			return err
		}
		if err := stored.CanModify(); err != nil {
			return err
		}

		task.Touch()
		if err := s.repo.Update(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionUpdate, task.CreatedBy)
	})
}

// Delete soft-deletes a pending cycle count.
func (s *Service) Delete(ctx context.Context, taskID id.ID, operatorID string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		task, err := s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := task.CanModify(); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, taskID); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionDelete, operatorID)
	})
}

// Start begins counting (pending -> in_progress): every detail gets its
// system quantity snapshotted from the ledger and an initial difference.
func (s *Service) Start(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	var task *Task
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if len(task.Details) == 0 {
			return apperror.NewValidation("cycle count has no detail lines").
				WithBusinessCode(apperror.BizEmptyDetails).
				WithField("details")
		}

		logRow, err := task.Apply(statusflow.KindCycleCount, statusflow.ActionProcess, operatorID)
		if err != nil {
			return err
		}

		for i := range task.Details {
			d := &task.Details[i]
			system, err := s.ledger.ReadQuantity(ctx, d.GoodsID, d.LocationID)
			if err != nil {
				return err
			}
			d.SystemQuantity = system
			d.Difference = d.ActualQuantity - system
		}

		if err := s.repo.Update(ctx, task); err != nil {
			return err
		}
		if err := s.statusLogs.Append(ctx, logRow); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionTransition, operatorID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cycle count started", "id", task.ID, "number", task.Number)
	return task, nil
}

// RecordCount stores an operator count for one detail, keeping the
// difference current.
func (s *Service) RecordCount(ctx context.Context, taskID, detailID id.ID, actual types.Quantity, operatorID string) (*Task, error) {
	var task *Task
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := task.SetActual(detailID, actual); err != nil {
			return err
		}

		task.Touch()
		if err := s.repo.Update(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionUpdate, operatorID)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Complete freezes the count (in_progress -> completed). Stock is never
// touched; a completed count only feeds adjustments.
func (s *Service) Complete(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	var task *Task
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		logRow, err := task.Apply(statusflow.KindCycleCount, statusflow.ActionComplete, operatorID)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, task); err != nil {
			return err
		}
		if err := s.statusLogs.Append(ctx, logRow); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionTransition, operatorID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cycle count completed", "id", task.ID, "number", task.Number)
	return task, nil
}

func (s *Service) recordChange(ctx context.Context, task *Task, action domain.ChangeAction, operatorID string) error {
	snapshot, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal cycle count snapshot: %w", err)
	}
	return s.changeLog.Record(ctx, "cycle_count", task.ID, action, operatorID, snapshot)
}
