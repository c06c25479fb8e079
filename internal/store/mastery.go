package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/fogmap/internal/fog"
)

// MasteryRepo persists fog.TileRecord rows with compare-and-set
// versioning. It satisfies fog.MasteryRepo.
type MasteryRepo struct {
	db *sqlx.DB
}

// tileRow mirrors the mastery_tiles schema; timestamps travel as
// RFC 3339 text so SQLite and Postgres scan identically.
type tileRow struct {
	LearnerID          string  `db:"learner_id"`
	TileID             string  `db:"tile_id"`
	LastReviewedAt     string  `db:"last_reviewed_at"`
	IntervalDays       int     `db:"interval_days"`
	EaseFactor         float64 `db:"ease_factor"`
	ConsecutiveCorrect int     `db:"consecutive_correct"`
	State              string  `db:"state"`
	Version            int64   `db:"version"`
}

func toRow(rec *fog.TileRecord) tileRow {
	return tileRow{
		LearnerID:          rec.LearnerID,
		TileID:             rec.TileID,
		LastReviewedAt:     rec.LastReviewedAt.UTC().Format(time.RFC3339Nano),
		IntervalDays:       rec.IntervalDays,
		EaseFactor:         rec.EaseFactor,
		ConsecutiveCorrect: rec.ConsecutiveCorrect,
		State:              string(rec.State),
		Version:            rec.Version,
	}
}

func (r tileRow) toRecord() (*fog.TileRecord, error) {
	reviewed, err := time.Parse(time.RFC3339Nano, r.LastReviewedAt)
	if err != nil {
		return nil, fmt.Errorf("tile %s: parse last_reviewed_at: %w", r.TileID, err)
	}
	return &fog.TileRecord{
		LearnerID:          r.LearnerID,
		TileID:             r.TileID,
		LastReviewedAt:     reviewed,
		IntervalDays:       r.IntervalDays,
		EaseFactor:         r.EaseFactor,
		ConsecutiveCorrect: r.ConsecutiveCorrect,
		State:              fog.State(r.State),
		Version:            r.Version,
	}, nil
}

// Get fetches one record, or fog.ErrNotFound.
func (m *MasteryRepo) Get(ctx context.Context, learnerID, tileID string) (*fog.TileRecord, error) {
	var row tileRow
	q := m.db.Rebind(`SELECT * FROM mastery_tiles WHERE learner_id = ? AND tile_id = ?`)
	err := m.db.GetContext(ctx, &row, q, learnerID, tileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tile %s: %w", tileID, err)
	}
	return row.toRecord()
}

// List fetches every record of a learner, ordered by tile id.
func (m *MasteryRepo) List(ctx context.Context, learnerID string) ([]*fog.TileRecord, error) {
	var rows []tileRow
	q := m.db.Rebind(`SELECT * FROM mastery_tiles WHERE learner_id = ? ORDER BY tile_id`)
	if err := m.db.SelectContext(ctx, &rows, q, learnerID); err != nil {
		return nil, fmt.Errorf("list tiles for %s: %w", learnerID, err)
	}
	recs := make([]*fog.TileRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Create inserts a new record at version 1. A duplicate key reports
// fog.ErrConflict: some other writer got there first.
func (m *MasteryRepo) Create(ctx context.Context, rec *fog.TileRecord) error {
	rec.Version = 1
	row := toRow(rec)
	q := m.db.Rebind(`INSERT INTO mastery_tiles
		(learner_id, tile_id, last_reviewed_at, interval_days, ease_factor, consecutive_correct, state, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := m.db.ExecContext(ctx, q,
		row.LearnerID, row.TileID, row.LastReviewedAt, row.IntervalDays,
		row.EaseFactor, row.ConsecutiveCorrect, row.State, row.Version)
	if err != nil {
		if exists, checkErr := m.exists(ctx, rec.LearnerID, rec.TileID); checkErr == nil && exists {
			return fog.ErrConflict
		}
		return fmt.Errorf("create tile %s: %w", rec.TileID, err)
	}
	return nil
}

// Update writes the record only if the stored version still matches,
// then bumps it. Zero rows touched means a concurrent writer moved the
// record: fog.ErrConflict.
func (m *MasteryRepo) Update(ctx context.Context, rec *fog.TileRecord) error {
	row := toRow(rec)
	q := m.db.Rebind(`UPDATE mastery_tiles SET
		last_reviewed_at = ?, interval_days = ?, ease_factor = ?,
		consecutive_correct = ?, state = ?, version = version + 1
		WHERE learner_id = ? AND tile_id = ? AND version = ?`)
	res, err := m.db.ExecContext(ctx, q,
		row.LastReviewedAt, row.IntervalDays, row.EaseFactor,
		row.ConsecutiveCorrect, row.State,
		row.LearnerID, row.TileID, row.Version)
	if err != nil {
		return fmt.Errorf("update tile %s: %w", rec.TileID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tile %s: rows affected: %w", rec.TileID, err)
	}
	if n == 0 {
		exists, err := m.exists(ctx, rec.LearnerID, rec.TileID)
		if err != nil {
			return err
		}
		if !exists {
			return fog.ErrNotFound
		}
		return fog.ErrConflict
	}
	rec.Version++
	return nil
}

// Reset deletes every record of a learner. An empty learnerID wipes
// all learners.
func (m *MasteryRepo) Reset(ctx context.Context, learnerID string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if learnerID == "" {
		res, err = m.db.ExecContext(ctx, `DELETE FROM mastery_tiles`)
	} else {
		q := m.db.Rebind(`DELETE FROM mastery_tiles WHERE learner_id = ?`)
		res, err = m.db.ExecContext(ctx, q, learnerID)
	}
	if err != nil {
		return 0, fmt.Errorf("reset mastery: %w", err)
	}
	return res.RowsAffected()
}

func (m *MasteryRepo) exists(ctx context.Context, learnerID, tileID string) (bool, error) {
	var n int
	q := m.db.Rebind(`SELECT COUNT(*) FROM mastery_tiles WHERE learner_id = ? AND tile_id = ?`)
	if err := m.db.GetContext(ctx, &n, q, learnerID, tileID); err != nil {
		return false, fmt.Errorf("check tile %s: %w", tileID, err)
	}
	return n > 0, nil
}
