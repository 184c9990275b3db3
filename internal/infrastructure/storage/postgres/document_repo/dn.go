package document_repo

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/dn"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	dnTable       = "doc_dn"
	dnDetailTable = "doc_dn_detail"
)

var dnDetailCols = postgres.ExtractDBColumns[dn.Detail]()

// DNRepo implements dn.Repository.
type DNRepo struct {
	baseDocRepo[*dn.DN]
}

var _ dn.Repository = (*DNRepo)(nil)

// NewDNRepo creates a new DN repository.
func NewDNRepo(txManager *postgres.TxManager) *DNRepo {
	return &DNRepo{
		baseDocRepo: newBaseDocRepo(
			txManager,
			dnTable,
			postgres.ExtractDBColumns[dn.DN](),
			func() *dn.DN { return &dn.DN{} },
		),
	}
}

// Create implements dn.Repository.
func (r *DNRepo) Create(ctx context.Context, doc *dn.DN) error {
	if err := r.createHeader(ctx, doc); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), dnDetailTable, "dn_id", doc.ID, dnDetailCols, rowMaps(doc.Details))
}

// GetByID implements dn.Repository.
func (r *DNRepo) GetByID(ctx context.Context, docID id.ID) (*dn.DN, error) {
	doc, err := r.getHeader(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc.Details, err = selectRows[dn.Detail](ctx, r.querier(ctx), dnDetailTable, "dn_id", "line_no ASC", docID, dnDetailCols)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update implements dn.Repository.
func (r *DNRepo) Update(ctx context.Context, doc *dn.DN) error {
	if err := r.updateHeader(ctx, doc); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), dnDetailTable, "dn_id", doc.ID, dnDetailCols, rowMaps(doc.Details))
}

// Delete implements dn.Repository.
func (r *DNRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteHeader(ctx, docID)
}

// List implements dn.Repository. Details are not loaded for lists.
func (r *DNRepo) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*dn.DN], error) {
	return r.listHeaders(ctx, filter)
}
