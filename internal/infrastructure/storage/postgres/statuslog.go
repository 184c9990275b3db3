package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// StatusLogRepo persists status transition audit rows.
type StatusLogRepo struct {
	txManager *TxManager
}

var _ domain.StatusLogRepository = (*StatusLogRepo)(nil)

// NewStatusLogRepo creates a new status log repository.
func NewStatusLogRepo(txManager *TxManager) *StatusLogRepo {
	return &StatusLogRepo{txManager: txManager}
}

// Append implements domain.StatusLogRepository.
func (r *StatusLogRepo) Append(ctx context.Context, row entity.StatusLog) error {
	sql := `
		INSERT INTO doc_status_log (
			id, kind, document_id, old_status, new_status, operator_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		row.ID, row.Kind, row.DocumentID, row.OldStatus, row.NewStatus,
		row.OperatorID, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append status log: %w", err)
	}
	return nil
}

// ListByDocument implements domain.StatusLogRepository. Rows come back
// in transition order.
func (r *StatusLogRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]entity.StatusLog, error) {
	sql := `
		SELECT id, kind, document_id, old_status, new_status, operator_id, created_at
		FROM doc_status_log
		WHERE document_id = $1
		ORDER BY created_at
	`

	var rows []entity.StatusLog
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, documentID)
	if err != nil {
		return nil, fmt.Errorf("list status log: %w", err)
	}
	return rows, nil
}
