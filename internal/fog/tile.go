// Package fog owns per-tile mastery state: when mastery decays back
// into fog (review due), how review performance updates the memory
// strength, and which tiles a session must reclaim. Scheduling is
// pull-based: staleness is evaluated only when a session asks, never by
// a background timer.
package fog

import "time"

// State is the fog state of a tile.
//
// The cycle is Clear -> Fogged -> Clear (via review), with
// Fogged -> Reclaimed when a fogged tile stays unreviewed past its
// grace threshold. Reclaimed returns to Clear only through an explicit
// review outcome. A tile the learner has never seen has no record at
// all; absence is not Fogged.
type State string

const (
	StateClear     State = "clear"
	StateFogged    State = "fogged"
	StateReclaimed State = "reclaimed"
)

// Valid reports whether s names a known state.
func (s State) Valid() bool {
	switch s {
	case StateClear, StateFogged, StateReclaimed:
		return true
	}
	return false
}

// TileRecord is the per-(learner, tile) mastery record. It is mutated
// exclusively by the Scheduler; Version supports the store's
// compare-and-set writes.
type TileRecord struct {
	LearnerID          string    `json:"learner_id" db:"learner_id"`
	TileID             string    `json:"tile_id" db:"tile_id"`
	LastReviewedAt     time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	IntervalDays       int       `json:"interval_days" db:"interval_days"`
	EaseFactor         float64   `json:"ease_factor" db:"ease_factor"`
	ConsecutiveCorrect int       `json:"consecutive_correct" db:"consecutive_correct"`
	State              State     `json:"state" db:"state"`
	Version            int64     `json:"version" db:"version"`
}

// DueAt returns when the tile's mastery expires and review becomes due.
func (r *TileRecord) DueAt() time.Time {
	return r.LastReviewedAt.AddDate(0, 0, r.IntervalDays)
}

// ReclaimAt returns when an unreviewed fogged tile is reclaimed:
// overdue by graceMultiplier times the original interval beyond DueAt.
func (r *TileRecord) ReclaimAt(graceMultiplier float64) time.Time {
	graceHours := float64(r.IntervalDays) * graceMultiplier * 24
	return r.DueAt().Add(time.Duration(graceHours * float64(time.Hour)))
}

// OverdueDays returns how many days past due the tile is, 0 if not due.
func (r *TileRecord) OverdueDays(now time.Time) float64 {
	if now.Before(r.DueAt()) {
		return 0
	}
	return now.Sub(r.DueAt()).Hours() / 24
}

// targetState computes the state the timestamps imply at now. The
// result is stable for a fixed now, which is what makes ReclaimExpired
// idempotent: a second scan with the same clock computes the same
// targets and finds nothing left to change.
//
// Because fog advances only when a scan runs, a Clear tile left
// untouched past its grace threshold settles straight to Reclaimed:
// the intermediate Fogged stretch happened on the calendar but no scan
// observed it, so the two edges collapse into one recorded transition.
func (r *TileRecord) targetState(now time.Time, graceMultiplier float64) State {
	switch r.State {
	case StateClear:
		if now.After(r.ReclaimAt(graceMultiplier)) {
			return StateReclaimed
		}
		if now.After(r.DueAt()) {
			return StateFogged
		}
	case StateFogged:
		if now.After(r.ReclaimAt(graceMultiplier)) {
			return StateReclaimed
		}
	}
	return r.State
}

// Outcome is the transient result of one completed practice session
// for a tile. It is consumed once by RecordOutcome and never persisted
// as-is.
type Outcome struct {
	TileID         string  `json:"tile_id"`
	Accuracy       float64 `json:"accuracy"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Validate rejects malformed outcomes synchronously.
func (o Outcome) Validate() error {
	if o.TileID == "" {
		return &InvalidOutcomeError{Reason: "empty tile id"}
	}
	if o.Accuracy < 0 || o.Accuracy > 1 {
		return &InvalidOutcomeError{TileID: o.TileID, Reason: "accuracy outside [0,1]"}
	}
	if o.ElapsedSeconds < 0 {
		return &InvalidOutcomeError{TileID: o.TileID, Reason: "negative elapsed seconds"}
	}
	return nil
}
