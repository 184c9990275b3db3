package postgres

import (
	"context"
	"fmt"

	"stockyard/pkg/numerator"
)

// NumeratorRepo allocates document numbers from per-sequence counters.
// The upsert takes a row lock on the counter, so concurrent allocations
// within one sequence serialize and never return the same value.
type NumeratorRepo struct {
	txManager *TxManager
}

var _ numerator.Repository = (*NumeratorRepo)(nil)

// NewNumeratorRepo creates a new numerator repository.
func NewNumeratorRepo(txManager *TxManager) *NumeratorRepo {
	return &NumeratorRepo{txManager: txManager}
}

// NextValue implements numerator.Repository.
func (r *NumeratorRepo) NextValue(ctx context.Context, sequence string, period int) (int64, error) {
	sql := `
		INSERT INTO sys_numerator (sequence, period, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (sequence, period)
		DO UPDATE SET value = sys_numerator.value + 1
		RETURNING value
	`

	var value int64
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, sequence, period).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next value for %s/%d: %w", sequence, period, err)
	}
	return value, nil
}
