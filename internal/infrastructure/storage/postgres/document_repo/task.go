package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/tasks"
	"stockyard/internal/infrastructure/storage/postgres"
)

var (
	taskDetailCols = postgres.ExtractDBColumns[tasks.Detail]()
	taskBatchCols  = postgres.ExtractDBColumns[tasks.Batch]()
)

// TaskRepo implements tasks.Repository for one fulfillment task type.
// Each type gets its own header table; detail and batch tables derive
// from it by suffix.
type TaskRepo[T tasks.Task] struct {
	baseDocRepo[T]
	parentCol   string
	detailTable string
	batchTable  string
}

// NewTaskRepo creates a repository for one task type. parentCol is the
// header column referencing the parent document, used by ListByParent.
func NewTaskRepo[T tasks.Task](
	txManager *postgres.TxManager,
	tableName string,
	parentCol string,
	selectCols []string,
	newFn func() T,
) *TaskRepo[T] {
	return &TaskRepo[T]{
		baseDocRepo: newBaseDocRepo(txManager, tableName, selectCols, newFn),
		parentCol:   parentCol,
		detailTable: tableName + "_detail",
		batchTable:  tableName + "_batch",
	}
}

// Create implements tasks.Repository.
func (r *TaskRepo[T]) Create(ctx context.Context, task T) error {
	if err := r.createHeader(ctx, task); err != nil {
		return err
	}
	return r.replaceLines(ctx, task)
}

// GetByID implements tasks.Repository.
func (r *TaskRepo[T]) GetByID(ctx context.Context, taskID id.ID) (T, error) {
	task, err := r.getHeader(ctx, taskID)
	if err != nil {
		return task, err
	}

	base := task.TaskBase()
	base.Details, err = selectRows[tasks.Detail](ctx, r.querier(ctx), r.detailTable, "task_id", "line_no ASC", taskID, taskDetailCols)
	if err != nil {
		return task, err
	}
	base.Batches, err = selectRows[tasks.Batch](ctx, r.querier(ctx), r.batchTable, "task_id", "seq ASC", taskID, taskBatchCols)
	if err != nil {
		return task, err
	}
	return task, nil
}

// Update implements tasks.Repository.
func (r *TaskRepo[T]) Update(ctx context.Context, task T) error {
	if err := r.updateHeader(ctx, task); err != nil {
		return err
	}
	return r.replaceLines(ctx, task)
}

// Delete implements tasks.Repository.
func (r *TaskRepo[T]) Delete(ctx context.Context, taskID id.ID) error {
	return r.deleteHeader(ctx, taskID)
}

// List implements tasks.Repository. Details are not loaded for lists.
func (r *TaskRepo[T]) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[T], error) {
	return r.listHeaders(ctx, filter)
}

// ListByParent implements tasks.Repository.
func (r *TaskRepo[T]) ListByParent(ctx context.Context, parentID id.ID) ([]T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{r.parentCol: parentID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by parent: %w", err)
	}
	return items, nil
}

// replaceLines rewrites detail and batch rows. Batches go first so
// detail batch_id references stay valid.
func (r *TaskRepo[T]) replaceLines(ctx context.Context, task T) error {
	base := task.TaskBase()
	querier := r.querier(ctx)

	// Details reference batches, so drop details before batches.
	if err := clearRows(ctx, querier, r.detailTable, "task_id", base.ID); err != nil {
		return err
	}
	if err := replaceRows(ctx, querier, r.batchTable, "task_id", base.ID, taskBatchCols, rowMaps(base.Batches)); err != nil {
		return err
	}
	return insertRows(ctx, querier, r.detailTable, taskDetailCols, rowMaps(base.Details))
}
