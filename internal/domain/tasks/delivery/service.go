package delivery

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/internal/domain/tasks"
	"stockyard/internal/domain/tasks/packing"
	"stockyard/pkg/numerator"
)

// Repository persists delivery tasks.
type Repository interface {
	tasks.Repository[*Task]
}

// PackingTasks is the packing surface delivery needs for stage gating.
type PackingTasks interface {
	GetByID(ctx context.Context, taskID id.ID) (*packing.Task, error)
}

// Service provides delivery task operations.
type Service struct {
	*tasks.Service[*Task]

	packings PackingTasks
}

// NewService creates the delivery service.
func NewService(
	repo Repository,
	packings PackingTasks,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		Service:  tasks.NewService[*Task](statusflow.KindDelivery, "DLV", repo, statusLogs, changeLog, txManager, num),
		packings: packings,
	}
}

// Create stores a new pending delivery task after checking its packing
// task exists.
func (s *Service) Create(ctx context.Context, task *Task) error {
	if err := task.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.packings.GetByID(ctx, task.PackingID); err != nil {
		return err
	}
	return s.Service.Create(ctx, task)
}

// Start begins delivery work (pending -> in_progress). The chained packing
// task must have completed first.
func (s *Service) Start(ctx context.Context, taskID id.ID, operatorID string) (*Task, error) {
	return s.Transition(ctx, taskID, statusflow.ActionProcess, operatorID, func(ctx context.Context, task *Task) error {
		prior, err := s.packings.GetByID(ctx, task.PackingID)
		if err != nil {
			return err
		}
		if prior.Status != statusflow.StateCompleted {
			return tasks.StageNotCompleted("packing", prior.ID, prior.Status)
		}
		return nil
	})
}

// Ship hands the goods to the carrier (in_progress -> shipping), stamping
// the shipment time and carrier data.
func (s *Service) Ship(ctx context.Context, taskID id.ID, carrierName, trackingNumber, operatorID string) (*Task, error) {
	if carrierName == "" {
		return nil, apperror.NewValidation("carrier name is required").WithField("carrierName")
	}
	return s.Transition(ctx, taskID, statusflow.ActionShip, operatorID, func(ctx context.Context, task *Task) error {
		now := time.Now().UTC()
		task.CarrierName = carrierName
		task.TrackingNumber = trackingNumber
		task.ShippedAt = &now
		return nil
	})
}

// Sign records the recipient signature (shipping -> signed), the terminal
// state of the delivery chain.
func (s *Service) Sign(ctx context.Context, taskID id.ID, signedBy, operatorID string) (*Task, error) {
	if signedBy == "" {
		return nil, apperror.NewValidation("signer name is required").WithField("signedBy")
	}
	return s.Transition(ctx, taskID, statusflow.ActionSign, operatorID, func(ctx context.Context, task *Task) error {
		now := time.Now().UTC()
		task.SignedBy = signedBy
		task.SignedAt = &now
		return nil
	})
}
