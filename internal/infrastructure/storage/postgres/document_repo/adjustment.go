package document_repo

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/recon/adjustment"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	adjustmentTable       = "doc_adjustment"
	adjustmentDetailTable = "doc_adjustment_detail"
)

var adjustmentDetailCols = postgres.ExtractDBColumns[adjustment.Detail]()

// AdjustmentRepo implements adjustment.Repository.
type AdjustmentRepo struct {
	baseDocRepo[*adjustment.Document]
}

var _ adjustment.Repository = (*AdjustmentRepo)(nil)

// NewAdjustmentRepo creates a new adjustment repository.
func NewAdjustmentRepo(txManager *postgres.TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{
		baseDocRepo: newBaseDocRepo(
			txManager,
			adjustmentTable,
			postgres.ExtractDBColumns[adjustment.Document](),
			func() *adjustment.Document { return &adjustment.Document{} },
		),
	}
}

// Create implements adjustment.Repository.
func (r *AdjustmentRepo) Create(ctx context.Context, doc *adjustment.Document) error {
	if err := r.createHeader(ctx, doc); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), adjustmentDetailTable, "adjustment_id", doc.ID, adjustmentDetailCols, rowMaps(doc.Details))
}

// GetByID implements adjustment.Repository.
func (r *AdjustmentRepo) GetByID(ctx context.Context, docID id.ID) (*adjustment.Document, error) {
	doc, err := r.getHeader(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc.Details, err = selectRows[adjustment.Detail](ctx, r.querier(ctx), adjustmentDetailTable, "adjustment_id", "line_no ASC", docID, adjustmentDetailCols)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update implements adjustment.Repository.
func (r *AdjustmentRepo) Update(ctx context.Context, doc *adjustment.Document) error {
	if err := r.updateHeader(ctx, doc); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), adjustmentDetailTable, "adjustment_id", doc.ID, adjustmentDetailCols, rowMaps(doc.Details))
}

// Delete implements adjustment.Repository.
func (r *AdjustmentRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteHeader(ctx, docID)
}

// List implements adjustment.Repository. Details are not loaded for lists.
func (r *AdjustmentRepo) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*adjustment.Document], error) {
	return r.listHeaders(ctx, filter)
}
