package document_repo

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/asn"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	asnTable       = "doc_asn"
	asnDetailTable = "doc_asn_detail"
)

var asnDetailCols = postgres.ExtractDBColumns[asn.Detail]()

// ASNRepo implements asn.Repository.
type ASNRepo struct {
	baseDocRepo[*asn.ASN]
}

var _ asn.Repository = (*ASNRepo)(nil)

// NewASNRepo creates a new ASN repository.
func NewASNRepo(txManager *postgres.TxManager) *ASNRepo {
	return &ASNRepo{
		baseDocRepo: newBaseDocRepo(
			txManager,
			asnTable,
			postgres.ExtractDBColumns[asn.ASN](),
			func() *asn.ASN { return &asn.ASN{} },
		),
	}
}

// Create implements asn.Repository.
func (r *ASNRepo) Create(ctx context.Context, doc *asn.ASN) error {
	if err := r.createHeader(ctx, doc); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), asnDetailTable, "asn_id", doc.ID, asnDetailCols, rowMaps(doc.Details))
}

// GetByID implements asn.Repository.
func (r *ASNRepo) GetByID(ctx context.Context, docID id.ID) (*asn.ASN, error) {
	doc, err := r.getHeader(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc.Details, err = selectRows[asn.Detail](ctx, r.querier(ctx), asnDetailTable, "asn_id", "line_no ASC", docID, asnDetailCols)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update implements asn.Repository.
func (r *ASNRepo) Update(ctx context.Context, doc *asn.ASN) error {
	if err := r.updateHeader(ctx, doc); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), asnDetailTable, "asn_id", doc.ID, asnDetailCols, rowMaps(doc.Details))
}

// Delete implements asn.Repository.
func (r *ASNRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.deleteHeader(ctx, docID)
}

// List implements asn.Repository. Details are not loaded for lists.
func (r *ASNRepo) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*asn.ASN], error) {
	return r.listHeaders(ctx, filter)
}
