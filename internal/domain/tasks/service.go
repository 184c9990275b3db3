package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/pkg/logger"
	"stockyard/pkg/numerator"
)

// Task is the constraint for concrete task types: a validatable document
// exposing its shared Base.
type Task interface {
	entity.Validatable
	TaskBase() *Base
}

// Guard is an extra precondition checked inside the transaction before a
// transition executes; task type packages use it for parent and prior
// stage gating.
type Guard[T Task] func(ctx context.Context, task T) error

// Service implements the operations common to every fulfillment task
// type. Task packages embed it and add their gating.
type Service[T Task] struct {
	kind       statusflow.Kind
	prefix     string
	repo       Repository[T]
	statusLogs domain.StatusLogRepository
	changeLog  domain.ChangeLog
	txManager  tx.Manager
	numerator  *numerator.Service
}

// NewService creates the shared task service for one task kind.
func NewService[T Task](
	kind statusflow.Kind,
	prefix string,
	repo Repository[T],
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service[T] {
	return &Service[T]{
		kind:       kind,
		prefix:     prefix,
		repo:       repo,
		statusLogs: statusLogs,
		changeLog:  changeLog,
		txManager:  txManager,
		numerator:  num,
	}
}

// Create stores a new pending task, assigning its document number.
func (s *Service[T]) Create(ctx context.Context, task T) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(s.prefix), time.Now())
		if err != nil {
			return fmt.Errorf("generate document number: %w", err)
		}
		task.TaskBase().Number = number

		if err := s.repo.Create(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionCreate, task.TaskBase().CreatedBy)
	})
	if err != nil {
		return err
	}

	base := task.TaskBase()
	logger.Info(ctx, "task created", "kind", s.kind, "id", base.ID, "number", base.Number)
	return nil
}

// GetByID loads a task with details and batches.
func (s *Service[T]) GetByID(ctx context.Context, taskID id.ID) (T, error) {
	return s.repo.GetByID(ctx, taskID)
}

// List retrieves tasks matching the filter.
func (s *Service[T]) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// ListByParent retrieves tasks created against one parent document.
func (s *Service[T]) ListByParent(ctx context.Context, parentID id.ID) ([]T, error) {
	return s.repo.ListByParent(ctx, parentID)
}

// Update rewrites planning fields and details; allowed only while pending.
func (s *Service[T]) Update(ctx context.Context, task T) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByID(ctx, task.TaskBase().ID)
		if err != nil {
			return err
		}
		if err := stored.TaskBase().CanModify(); err != nil {
			return err
		}

		task.TaskBase().Touch()
		if err := s.repo.Update(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionUpdate, task.TaskBase().CreatedBy)
	})
}

// Delete soft-deletes a pending task.
func (s *Service[T]) Delete(ctx context.Context, taskID id.ID, operatorID string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		task, err := s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := task.TaskBase().CanModify(); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, taskID); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionDelete, operatorID)
	})
}

// Transition applies a status action to the task, appending the status log
// row in the same transaction. The guard, when given, runs first.
func (s *Service[T]) Transition(ctx context.Context, taskID id.ID, action statusflow.Action, operatorID string, guard Guard[T]) (T, error) {
	var task T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(ctx, task); err != nil {
				return err
			}
		}

		logRow, err := task.TaskBase().Apply(s.kind, action, operatorID)
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
		var zero T
		return zero, err
	}

	base := task.TaskBase()
	logger.Info(ctx, "task transition applied",
		"kind", s.kind, "id", base.ID, "number", base.Number,
		"action", action, "status", base.Status)
	return task, nil
}

// RecordActual stores the handled quantity of one detail line while the
// task is in progress.
func (s *Service[T]) RecordActual(ctx context.Context, taskID, detailID id.ID, actual types.Quantity, operatorID string) (T, error) {
	return s.mutate(ctx, taskID, operatorID, func(task T) error {
		return task.TaskBase().RecordActual(detailID, actual)
	})
}

// CreateBatch opens a new operator batch on an in-progress task.
func (s *Service[T]) CreateBatch(ctx context.Context, taskID id.ID, operatorID string) (T, *Batch, error) {
	var batch *Batch
	task, err := s.mutate(ctx, taskID, operatorID, func(task T) error {
		var err error
		batch, err = task.TaskBase().CreateBatch(operatorID)
		return err
	})
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return task, batch, nil
}

// AssignToBatch attaches a detail line to an existing batch.
func (s *Service[T]) AssignToBatch(ctx context.Context, taskID, detailID, batchID id.ID, operatorID string) (T, error) {
	return s.mutate(ctx, taskID, operatorID, func(task T) error {
		return task.TaskBase().AssignToBatch(detailID, batchID)
	})
}

// AddDetail appends a planned line to a pending task.
func (s *Service[T]) AddDetail(ctx context.Context, taskID, goodsID, locationID id.ID, quantity types.Quantity, remark, operatorID string) (T, error) {
	return s.mutate(ctx, taskID, operatorID, func(task T) error {
		_, err := task.TaskBase().AddDetail(goodsID, locationID, quantity, remark)
		return err
	})
}

// RemoveDetail drops a planned line from a pending task.
func (s *Service[T]) RemoveDetail(ctx context.Context, taskID, detailID id.ID, operatorID string) (T, error) {
	return s.mutate(ctx, taskID, operatorID, func(task T) error {
		return task.TaskBase().RemoveDetail(detailID)
	})
}

// mutate loads the task, applies fn, and persists with an audit snapshot.
func (s *Service[T]) mutate(ctx context.Context, taskID id.ID, operatorID string, fn func(task T) error) (T, error) {
	var task T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := fn(task); err != nil {
			return err
		}

		task.TaskBase().Touch()
		if err := s.repo.Update(ctx, task); err != nil {
			return err
		}
		return s.recordChange(ctx, task, domain.ChangeActionUpdate, operatorID)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return task, nil
}

func (s *Service[T]) recordChange(ctx context.Context, task T, action domain.ChangeAction, operatorID string) error {
	snapshot, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", s.kind, err)
	}
	return s.changeLog.Record(ctx, string(s.kind), task.TaskBase().ID, action, operatorID, snapshot)
}
