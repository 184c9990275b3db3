package asn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/tx"
	"stockyard/internal/domain"
	"stockyard/pkg/logger"
	"stockyard/pkg/numerator"
)

// Service provides ASN document operations.
type Service struct {
	repo       Repository
	statusLogs domain.StatusLogRepository
	changeLog  domain.ChangeLog
	warehouses domain.ExistenceChecker
	txManager  tx.Manager
	numerator  *numerator.Service
}

// NewService creates the ASN service.
func NewService(
	repo Repository,
	statusLogs domain.StatusLogRepository,
	changeLog domain.ChangeLog,
	warehouses domain.ExistenceChecker,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		repo:       repo,
		statusLogs: statusLogs,
		changeLog:  changeLog,
		warehouses: warehouses,
		txManager:  txManager,
		numerator:  num,
	}
}

// Create stores a new pending ASN, assigning its document number.
func (s *Service) Create(ctx context.Context, doc *ASN) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	ok, err := s.warehouses.Exists(ctx, doc.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("warehouse", doc.WarehouseID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ASN"), time.Now())
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

	logger.Info(ctx, "asn created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID loads an ASN with its details.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*ASN, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves ASNs matching the filter.
func (s *Service) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*ASN], error) {
	return s.repo.List(ctx, filter)
}

// Update rewrites document fields and details; allowed only while pending.
func (s *Service) Update(ctx context.Context, doc *ASN) error {
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

// Delete soft-deletes a pending ASN.
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

// Receive marks the announced goods as arrived (pending -> received).
// An ASN without detail lines cannot be received.
func (s *Service) Receive(ctx context.Context, docID id.ID, operatorID string) (*ASN, error) {
	return s.transition(ctx, docID, statusflow.ActionReceive, operatorID, func(doc *ASN) error {
		if len(doc.Details) == 0 {
			return apperror.NewValidation("asn has no detail lines").
				WithBusinessCode(apperror.BizEmptyDetails).
				WithField("details")
		}
		return nil
	})
}

// Complete closes out a received ASN (received -> completed).
func (s *Service) Complete(ctx context.Context, docID id.ID, operatorID string) (*ASN, error) {
	return s.transition(ctx, docID, statusflow.ActionComplete, operatorID, nil)
}

// Close cancels a pending ASN (pending -> closed).
func (s *Service) Close(ctx context.Context, docID id.ID, operatorID string) (*ASN, error) {
	return s.transition(ctx, docID, statusflow.ActionClose, operatorID, nil)
}

func (s *Service) transition(ctx context.Context, docID id.ID, action statusflow.Action, operatorID string, guard func(*ASN) error) (*ASN, error) {
	var doc *ASN
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(doc); err != nil {
				return err
			}
		}

		logRow, err := doc.Apply(statusflow.KindASN, action, operatorID)
		if err != nil {
			return err
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

	logger.Info(ctx, "asn transition applied",
		"id", doc.ID, "number", doc.Number, "action", action, "status", doc.Status)
	return doc, nil
}

func (s *Service) recordChange(ctx context.Context, doc *ASN, action domain.ChangeAction, operatorID string) error {
	snapshot, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal asn snapshot: %w", err)
	}
	return s.changeLog.Record(ctx, "asn", doc.ID, action, operatorID, snapshot)
}
