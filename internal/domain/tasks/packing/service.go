package packing

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/internal/domain/tasks"
	"stockyard/internal/domain/tasks/picking"
	"stockyard/pkg/numerator"
)

// Repository persists packing tasks.
type Repository interface {
	tasks.Repository[*Task]
}

// PickingTasks is the picking surface packing needs for stage gating.
type PickingTasks interface {
	GetByID(ctx context.Context, taskID id.ID) (*picking.Task, error)
}

// Service provides packing task operations.
type Service struct {
	*tasks.Service[*Task]

	pickings PickingTasks
}

// NewService creates the packing service.
func NewService(
	repo Repository,
	pickings PickingTasks,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		Service:  tasks.NewService[*Task](statusflow.KindPacking, "PAK", repo, statusLogs, changeLog, txManager, num),
		pickings: pickings,
	}
}

// Create stores a new pending packing task after checking its picking
// task exists.
func (s *Service) Create(ctx context.Context, task *Task) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.pickings.GetByID(ctx, task.PickingID); err != nil {
		return err
	}
	return s.Service.Create(ctx, task)
}

// Start begins packing work (pending -> in_progress). The chained picking
// task must have completed first.
func (s *Service) Start(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionProcess, operatorID, func(ctx context.Context, task *Task) error {
		prior, err := s.pickings.GetByID(ctx, task.PickingID)
		if err != nil {
			return err
		}
		if prior.Status != statusflow.StateCompleted {
			return tasks.StageNotCompleted("picking", prior.ID, prior.Status)
		}
		return nil
	})
}

// Complete finishes packing work (in_progress -> completed). Completion
// unlocks delivery for the same DN.
func (s *Service) Complete(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionComplete, operatorID, nil)
}
