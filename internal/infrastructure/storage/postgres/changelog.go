package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// CompressionAlgo specifies the compression algorithm used for a
// stored snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ChangeEntry is one audit row: a full document snapshot taken after
// a create, update, delete or status transition.
type ChangeEntry struct {
	ID                 id.ID               `db:"id"`
	EntityType         string              `db:"entity_type"`
	EntityID           id.ID               `db:"entity_id"`
	Action             domain.ChangeAction `db:"action"`
	OperatorID         string              `db:"operator_id"`
	Snapshot           json.RawMessage     `db:"snapshot"`
	SnapshotCompressed []byte              `db:"snapshot_compressed"`
	CompressionAlgo    CompressionAlgo     `db:"compression_algo"`
	CreatedAt          time.Time           `db:"created_at"`
}

// ChangeStore persists document change snapshots. Snapshots above the
// compression threshold are stored zstd-compressed; documents with many
// detail lines routinely exceed it.
type ChangeStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

var _ domain.ChangeLog = (*ChangeStore)(nil)

// NewChangeStore creates a change store with a shared zstd codec.
func NewChangeStore(txManager *TxManager) (*ChangeStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ChangeStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record implements domain.ChangeLog.
func (s *ChangeStore) Record(ctx context.Context, entityType string, entityID id.ID, action domain.ChangeAction, operatorID string, snapshot json.RawMessage) error {
	entry := ChangeEntry{
		ID:              id.New(),
		EntityType:      entityType,
		EntityID:        entityID,
		Action:          action,
		OperatorID:      operatorID,
		Snapshot:        snapshot,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(entry.Snapshot) > s.compressThreshold {
		entry.SnapshotCompressed = s.encoder.EncodeAll(entry.Snapshot, nil)
		entry.Snapshot = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_change_log (
			id, entity_type, entity_id, action, operator_id,
			snapshot, snapshot_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.OperatorID,
		entry.Snapshot, entry.SnapshotCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert change entry: %w", err)
	}
	return nil
}

// History retrieves change entries for an entity, newest first.
// Compressed snapshots are decompressed before return.
func (s *ChangeStore) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]ChangeEntry, error) {
	sql := `
		SELECT id, entity_type, entity_id, action, operator_id,
		       snapshot, snapshot_compressed, compression_algo, created_at
		FROM sys_change_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query change history: %w", err)
	}
	defer rows.Close()

	var entries []ChangeEntry
	for rows.Next() {
		var e ChangeEntry
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.OperatorID,
			&e.Snapshot, &e.SnapshotCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan change entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.SnapshotCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.SnapshotCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot: %w", err)
			}
			e.Snapshot = decompressed
			e.SnapshotCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
