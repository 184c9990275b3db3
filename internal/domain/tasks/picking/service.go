package picking

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/dn"
	"stockyard/internal/domain/tasks"
	"stockyard/pkg/numerator"
)

// Repository persists picking tasks.
type Repository interface {
	tasks.Repository[*Task]
}

// ParentDNs is the DN surface picking needs for gating.
type ParentDNs interface {
	GetByID(ctx context.Context, docID id.ID) (*dn.DN, error)
}

// Service provides picking task operations.
type Service struct {
	*tasks.Service[*Task]

	parents ParentDNs
}

// NewService creates the picking service.
func NewService(
	repo Repository,
	parents ParentDNs,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		Service: tasks.NewService[*Task](statusflow.KindPicking, "PCK", repo, statusLogs, changeLog, txManager, num),
		parents: parents,
	}
}

// Create stores a new pending picking task after checking its DN exists.
func (s *Service) Create(ctx context.Context, task *Task) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.parents.GetByID(ctx, task.DNID); err != nil {
		return err
	}
	return s.Service.Create(ctx, task)
}

// Start begins picking work (pending -> in_progress). The parent DN must
// be in progress.
func (s *Service) Start(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionProcess, operatorID, func(ctx context.Context, task *Task) error {
		parent, err := s.parents.GetByID(ctx, task.DNID)
		if err != nil {
			return err
		}
		if parent.Status != statusflow.StateProgress {
			return tasks.ParentNotReady("dn", parent.ID, parent.Status, statusflow.StateProgress)
		}
		return nil
	})
}

// Complete finishes picking work (in_progress -> completed). Completion
// unlocks packing for the same DN.
func (s *Service) Complete(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionComplete, operatorID, nil)
}
