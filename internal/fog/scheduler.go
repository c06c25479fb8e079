package fog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// MasteryRepo is the keyed store for tile records. Update must be a
// conditional write: it succeeds only when the stored Version matches
// the record's, returning ErrConflict otherwise. This is the only
// concurrency control the scheduler needs; contention exists solely
// between sessions of the same learner on the same tile.
type MasteryRepo interface {
	// Get fetches one record, or ErrNotFound.
	Get(ctx context.Context, learnerID, tileID string) (*TileRecord, error)

	// List fetches every record of a learner.
	List(ctx context.Context, learnerID string) ([]*TileRecord, error)

	// Create inserts a new record at Version 1. A concurrent create of
	// the same key returns ErrConflict.
	Create(ctx context.Context, rec *TileRecord) error

	// Update conditionally writes the record and bumps its Version.
	Update(ctx context.Context, rec *TileRecord) error
}

// ReviewEvent is the analytics record of one applied outcome.
type ReviewEvent struct {
	LearnerID      string  `json:"learner_id"`
	TileID         string  `json:"tile_id"`
	Accuracy       float64 `json:"accuracy"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Grade          Grade   `json:"grade"`
	IntervalDays   int     `json:"interval_days"`
	EaseFactor     float64 `json:"ease_factor"`
}

// TransitionEvent is the analytics record of one fog state change.
type TransitionEvent struct {
	LearnerID   string  `json:"learner_id"`
	TileID      string  `json:"tile_id"`
	From        State   `json:"from"`
	To          State   `json:"to"`
	Trigger     string  `json:"trigger"`
	OverdueDays float64 `json:"overdue_days"`
}

// EventSink receives append-only scheduler events. Appends are
// best-effort: event history is analytics, not correctness.
type EventSink interface {
	AppendReviewEvent(ctx context.Context, ev ReviewEvent) error
	AppendFogTransition(ctx context.Context, ev TransitionEvent) error
}

// Scheduler tracks mastery decay and computes review eligibility.
type Scheduler struct {
	repo   MasteryRepo
	events EventSink
	cfg    Config
}

// NewScheduler creates a scheduler over the given store. events may be
// nil. Zero cfg fields fall back to defaults.
func NewScheduler(repo MasteryRepo, events EventSink, cfg Config) *Scheduler {
	return &Scheduler{repo: repo, events: events, cfg: cfg.withDefaults()}
}

// RecordOutcome applies one review outcome to the tile's record and
// persists it. The outcome's accuracy quantizes into a grade; the
// grade drives the SM-2-style ease and interval update. Any grade
// clears fog: reviews are the only way out of Fogged and Reclaimed.
//
// The write is an optimistic read-modify-write: on ErrConflict the
// whole cycle re-reads and recomputes, bounded by MaxWriteRetries.
// Resubmitting the same outcome after an ambiguous failure is safe
// against unchanged state, but callers must re-check state rather than
// blindly double-submit.
func (s *Scheduler) RecordOutcome(ctx context.Context, learnerID string, outcome Outcome, now time.Time) (*TileRecord, error) {
	if learnerID == "" {
		return nil, &InvalidOutcomeError{TileID: outcome.TileID, Reason: "empty learner id"}
	}
	if err := outcome.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxWriteRetries; attempt++ {
		rec, err := s.repo.Get(ctx, learnerID, outcome.TileID)
		create := false
		switch {
		case errors.Is(err, ErrNotFound):
			// First exposure: default-initialized record.
			rec = s.newRecord(learnerID, outcome.TileID)
			create = true
		case err != nil:
			return nil, fmt.Errorf("load tile %s: %w", outcome.TileID, err)
		}

		prevState := rec.State
		grade := s.cfg.GradeFor(outcome.Accuracy)
		s.applyGrade(rec, grade)
		rec.State = StateClear
		rec.LastReviewedAt = now

		if create {
			err = s.repo.Create(ctx, rec)
		} else {
			err = s.repo.Update(ctx, rec)
		}
		if errors.Is(err, ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist tile %s: %w", outcome.TileID, err)
		}

		if s.events != nil {
			_ = s.events.AppendReviewEvent(ctx, ReviewEvent{
				LearnerID:      learnerID,
				TileID:         outcome.TileID,
				Accuracy:       outcome.Accuracy,
				ElapsedSeconds: outcome.ElapsedSeconds,
				Grade:          grade,
				IntervalDays:   rec.IntervalDays,
				EaseFactor:     rec.EaseFactor,
			})
			if prevState != StateClear {
				_ = s.events.AppendFogTransition(ctx, TransitionEvent{
					LearnerID: learnerID,
					TileID:    outcome.TileID,
					From:      prevState,
					To:        StateClear,
					Trigger:   "review",
				})
			}
		}
		return rec, nil
	}
	return nil, fmt.Errorf("record outcome for tile %s after %d attempts: %w",
		outcome.TileID, s.cfg.MaxWriteRetries, lastErr)
}

func (s *Scheduler) newRecord(learnerID, tileID string) *TileRecord {
	return &TileRecord{
		LearnerID:  learnerID,
		TileID:     tileID,
		EaseFactor: s.cfg.InitialEase,
		State:      StateClear,
	}
}

// applyGrade runs the modified SM-2 update. Poor resets the interval to
// the minimum (the reclaim trigger) and shrinks ease down to the floor;
// good grows the interval by the ease multiplier; excellent grows ease
// and applies an extra multiplicative step. Non-poor grades always
// strictly increase the interval.
func (s *Scheduler) applyGrade(rec *TileRecord, grade Grade) {
	switch grade {
	case GradePoor:
		rec.EaseFactor = math.Max(s.cfg.EaseFloor, rec.EaseFactor-s.cfg.EasePenalty)
		rec.IntervalDays = s.cfg.MinIntervalDays
		rec.ConsecutiveCorrect = 0
	case GradeGood:
		rec.IntervalDays = s.growInterval(rec.IntervalDays, rec.EaseFactor)
		rec.ConsecutiveCorrect++
	case GradeExcellent:
		rec.EaseFactor += s.cfg.EaseGain
		rec.IntervalDays = s.growInterval(rec.IntervalDays, rec.EaseFactor*s.cfg.ExcellentBonus)
		rec.ConsecutiveCorrect++
	}
}

// growInterval computes the next interval from the previous one and a
// multiplier, guaranteeing strict growth until the cap.
func (s *Scheduler) growInterval(prev int, multiplier float64) int {
	next := int(math.Round(float64(prev) * multiplier))
	if next <= prev {
		next = prev + 1
	}
	if next < s.cfg.MinIntervalDays {
		next = s.cfg.MinIntervalDays
	}
	if next > s.cfg.MaxIntervalDays {
		next = s.cfg.MaxIntervalDays
	}
	return next
}

// ReclaimExpired scans the learner's records and settles each into the
// state its timestamps imply at now: Clear tiles past due become
// Fogged, and tiles unreviewed past the grace threshold become
// Reclaimed. Returns the ids that changed in this call, most overdue
// first. Calling again with the same now is a no-op.
//
// A store failure aborts the scan with no partial bookkeeping beyond
// already-written records; unknown tiles are never reclaimed on error.
func (s *Scheduler) ReclaimExpired(ctx context.Context, learnerID string, now time.Time) ([]string, error) {
	recs, err := s.repo.List(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list tiles for %s: %w", learnerID, err)
	}

	type change struct {
		id      string
		overdue float64
	}
	var changed []change

	for _, rec := range recs {
		target := rec.targetState(now, s.cfg.GraceMultiplier)
		if target == rec.State {
			continue
		}
		from := rec.State
		rec.State = target
		if err := s.repo.Update(ctx, rec); err != nil {
			// A racing session already moved this tile; skip it rather
			// than fail the scan.
			if errors.Is(err, ErrConflict) {
				continue
			}
			return nil, fmt.Errorf("persist tile %s: %w", rec.TileID, err)
		}
		changed = append(changed, change{id: rec.TileID, overdue: rec.OverdueDays(now)})

		if s.events != nil {
			_ = s.events.AppendFogTransition(ctx, TransitionEvent{
				LearnerID:   learnerID,
				TileID:      rec.TileID,
				From:        from,
				To:          target,
				Trigger:     "time-decay",
				OverdueDays: rec.OverdueDays(now),
			})
		}
	}

	sort.Slice(changed, func(i, j int) bool {
		if changed[i].overdue != changed[j].overdue {
			return changed[i].overdue > changed[j].overdue
		}
		return changed[i].id < changed[j].id
	})

	ids := make([]string, len(changed))
	for i, ch := range changed {
		ids[i] = ch.id
	}
	return ids, nil
}

// QueueEntry is one tile needing review, for session planning.
type QueueEntry struct {
	TileID      string
	State       State
	OverdueDays float64
}

// ReviewQueue returns the learner's tiles awaiting review: reclaimed
// tiles first (their sections stay locked until reviewed), then fogged
// tiles, each group most overdue first.
func (s *Scheduler) ReviewQueue(ctx context.Context, learnerID string, now time.Time) ([]QueueEntry, error) {
	recs, err := s.repo.List(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list tiles for %s: %w", learnerID, err)
	}

	var queue []QueueEntry
	for _, rec := range recs {
		if rec.State == StateClear {
			continue
		}
		queue = append(queue, QueueEntry{
			TileID:      rec.TileID,
			State:       rec.State,
			OverdueDays: rec.OverdueDays(now),
		})
	}

	rank := func(st State) int {
		if st == StateReclaimed {
			return 0
		}
		return 1
	}
	sort.Slice(queue, func(i, j int) bool {
		if rank(queue[i].State) != rank(queue[j].State) {
			return rank(queue[i].State) < rank(queue[j].State)
		}
		if queue[i].OverdueDays != queue[j].OverdueDays {
			return queue[i].OverdueDays > queue[j].OverdueDays
		}
		return queue[i].TileID < queue[j].TileID
	})
	return queue, nil
}

// IsFogged reports whether the tile currently needs review. A tile
// with no record has never been exposed and is not fogged.
func (s *Scheduler) IsFogged(ctx context.Context, learnerID, tileID string, now time.Time) (bool, error) {
	rec, err := s.repo.Get(ctx, learnerID, tileID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load tile %s: %w", tileID, err)
	}
	return rec.targetState(now, s.cfg.GraceMultiplier) != StateClear, nil
}
