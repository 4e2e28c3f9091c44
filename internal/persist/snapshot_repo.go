package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SnapshotRow is one entity's state at a given tick. Nil fields mean the
// entity has no component of that kind.
type SnapshotRow struct {
	EntityID uint64
	Number   *int
	Day      *string
	PosX     *float64
	PosY     *float64
	Score    *float64
}

// Snapshot is a batch of rows captured on one tick of one run.
type Snapshot struct {
	RunID uuid.UUID
	Tick  uint64
	Rows  []SnapshotRow
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save writes a snapshot in a single transaction. Saving the same run and
// tick twice overwrites the earlier rows.
func (r *SnapshotRepo) Save(ctx context.Context, s Snapshot) error {
	if len(s.Rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range s.Rows {
		batch.Queue(
			`INSERT INTO world_snapshots (run_id, tick, entity_id, number, day, pos_x, pos_y, score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (run_id, tick, entity_id) DO UPDATE SET
			   number = EXCLUDED.number, day = EXCLUDED.day,
			   pos_x = EXCLUDED.pos_x, pos_y = EXCLUDED.pos_y, score = EXCLUDED.score`,
			s.RunID, int64(s.Tick), int64(row.EntityID), row.Number, row.Day, row.PosX, row.PosY, row.Score,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}
	return tx.Commit(ctx)
}

// LatestTick returns the highest tick saved for a run, or 0 if none.
func (r *SnapshotRepo) LatestTick(ctx context.Context, runID uuid.UUID) (uint64, error) {
	var tick int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT tick FROM world_snapshots WHERE run_id = $1 ORDER BY tick DESC LIMIT 1`,
		runID,
	).Scan(&tick)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("latest snapshot tick: %w", err)
	}
	return uint64(tick), nil
}
