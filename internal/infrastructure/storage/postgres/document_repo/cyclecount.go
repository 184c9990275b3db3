package document_repo

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/recon/cyclecount"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	cycleCountTable       = "doc_cycle_count"
	cycleCountDetailTable = "doc_cycle_count_detail"
)

var cycleCountDetailCols = postgres.ExtractDBColumns[cyclecount.Detail]()

// CycleCountRepo implements cyclecount.Repository.
type CycleCountRepo struct {
	baseDocRepo[*cyclecount.Task]
}

var _ cyclecount.Repository = (*CycleCountRepo)(nil)

// NewCycleCountRepo creates a new cycle count repository.
func NewCycleCountRepo(txManager *postgres.TxManager) *CycleCountRepo {
	return &CycleCountRepo{
		baseDocRepo: newBaseDocRepo(
			txManager,
			cycleCountTable,
			postgres.ExtractDBColumns[cyclecount.Task](),
			func() *cyclecount.Task { return &cyclecount.Task{} },
		),
	}
}

// Create implements cyclecount.Repository.
func (r *CycleCountRepo) Create(ctx context.Context, task *cyclecount.Task) error {
	if err := r.createHeader(ctx, task); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), cycleCountDetailTable, "task_id", task.ID, cycleCountDetailCols, rowMaps(task.Details))
}

// GetByID implements cyclecount.Repository.
func (r *CycleCountRepo) GetByID(ctx context.Context, taskID id.ID) (*cyclecount.Task, error) {
	task, err := r.getHeader(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.Details, err = selectRows[cyclecount.Detail](ctx, r.querier(ctx), cycleCountDetailTable, "task_id", "line_no ASC", taskID, cycleCountDetailCols)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update implements cyclecount.Repository.
func (r *CycleCountRepo) Update(ctx context.Context, task *cyclecount.Task) error {
	if err := r.updateHeader(ctx, task); err != nil {
		return err
	}
	return replaceRows(ctx, r.querier(ctx), cycleCountDetailTable, "task_id", task.ID, cycleCountDetailCols, rowMaps(task.Details))
}

// Delete implements cyclecount.Repository.
func (r *CycleCountRepo) Delete(ctx context.Context, taskID id.ID) error {
	return r.deleteHeader(ctx, taskID)
}

// List implements cyclecount.Repository. Details are not loaded for lists.
func (r *CycleCountRepo) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*cyclecount.Task], error) {
	return r.listHeaders(ctx, filter)
}
