package document_repo

import (
	"stockyard/internal/domain/tasks/delivery"
	"stockyard/internal/domain/tasks/packing"
	"stockyard/internal/domain/tasks/picking"
	"stockyard/internal/domain/tasks/sorting"
	"stockyard/internal/infrastructure/storage/postgres"
)

// NewSortingTaskRepo creates the sorting task repository.
func NewSortingTaskRepo(txManager *postgres.TxManager) *TaskRepo[*sorting.Task] {
	return NewTaskRepo(
		txManager,
		"doc_sorting_task",
		"asn_id",
		postgres.ExtractDBColumns[sorting.Task](),
		func() *sorting.Task { return &sorting.Task{} },
	)
}

// NewPickingTaskRepo creates the picking task repository.
func NewPickingTaskRepo(txManager *postgres.TxManager) *TaskRepo[*picking.Task] {
	return NewTaskRepo(
		txManager,
		"doc_picking_task",
		"dn_id",
		postgres.ExtractDBColumns[picking.Task](),
		func() *picking.Task { return &picking.Task{} },
	)
}

// NewPackingTaskRepo creates the packing task repository. Packing tasks
// list by their picking stage, not the DN.
func NewPackingTaskRepo(txManager *postgres.TxManager) *TaskRepo[*packing.Task] {
	return NewTaskRepo(
		txManager,
		"doc_packing_task",
		"picking_id",
		postgres.ExtractDBColumns[packing.Task](),
		func() *packing.Task { return &packing.Task{} },
	)
}

// NewDeliveryTaskRepo creates the delivery task repository. Delivery
// tasks list by their packing stage.
func NewDeliveryTaskRepo(txManager *postgres.TxManager) *TaskRepo[*delivery.Task] {
	return NewTaskRepo(
		txManager,
		"doc_delivery_task",
		"packing_id",
		postgres.ExtractDBColumns[delivery.Task](),
		func() *delivery.Task { return &delivery.Task{} },
	)
}
