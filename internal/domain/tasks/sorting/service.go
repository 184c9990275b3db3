package sorting

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/asn"
	"stockyard/internal/domain/tasks"
	"stockyard/pkg/numerator"
)

// Repository persists sorting tasks.
type Repository interface {
	tasks.Repository[*Task]
}

// ParentASNs is the ASN surface sorting needs for gating.
type ParentASNs interface {
	GetByID(ctx context.Context, docID id.ID) (*asn.ASN, error)
}

// Service provides sorting task operations.
type Service struct {
	*tasks.Service[*Task]

	parents ParentASNs
}

// NewService creates the sorting service.
func NewService(
	repo Repository,
	parents ParentASNs,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		Service: tasks.NewService[*Task](statusflow.KindSorting, "SRT", repo, statusLogs, changeLog, txManager, num),
		parents: parents,
	}
}

// Create stores a new pending sorting task after checking its ASN exists.
func (s *Service) Create(ctx context.Context, task *Task) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.parents.GetByID(ctx, task.ASNID); err != nil {
		return err
	}
	return s.Service.Create(ctx, task)
}

// Start begins sorting work (pending -> in_progress). The parent ASN must
// have been received: goods cannot be sorted before they arrive.
func (s *Service) Start(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionProcess, operatorID, func(ctx context.Context, task *Task) error {
		parent, err := s.parents.GetByID(ctx, task.ASNID)
		if err != nil {
			return err
		}
		if parent.Status != statusflow.StateReceived {
			return tasks.ParentNotReady("asn", parent.ID, parent.Status, statusflow.StateReceived)
		}
		return nil
	})
}

// Complete finishes sorting work (in_progress -> completed).
func (s *Service) Complete(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionComplete, operatorID, nil)
}
