package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/fogmap/internal/fog"
	"github.com/example/fogmap/internal/modes"
)

// Event types in the append-only log.
const (
	EventReview        = "review"
	EventFogTransition = "fog_transition"
	EventCompileGap    = "compile_gap"
)

// EventLog is the append-only analytics history. It satisfies
// fog.EventSink and additionally records compiler content gaps.
type EventLog struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

// Event is one stored log entry. Payload holds the type-specific body
// as JSON.
type Event struct {
	Seq       int64           `db:"seq"`
	EventID   string          `db:"event_id"`
	EventType string          `db:"event_type"`
	LearnerID string          `db:"learner_id"`
	TileID    string          `db:"tile_id"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt string          `db:"created_at"`
}

func (l *EventLog) append(ctx context.Context, eventType, learnerID, tileID string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	seq, err := l.seq.Next(ctx)
	if err != nil {
		return err
	}
	q := l.db.Rebind(`INSERT INTO events
		(seq, event_id, event_type, learner_id, tile_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = l.db.ExecContext(ctx, q,
		seq, uuid.NewString(), eventType, learnerID, tileID,
		string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append %s event: %w", eventType, err)
	}
	return nil
}

// AppendReviewEvent records one applied review outcome.
func (l *EventLog) AppendReviewEvent(ctx context.Context, ev fog.ReviewEvent) error {
	return l.append(ctx, EventReview, ev.LearnerID, ev.TileID, ev)
}

// AppendFogTransition records one fog state change.
func (l *EventLog) AppendFogTransition(ctx context.Context, ev fog.TransitionEvent) error {
	return l.append(ctx, EventFogTransition, ev.LearnerID, ev.TileID, ev)
}

// CompileGapEvent is the stored body of one compiler content gap.
type CompileGapEvent struct {
	BookID     string `json:"book_id"`
	SectionID  string `json:"section_id"`
	Engine     string `json:"engine"`
	Difficulty string `json:"difficulty"`
	Reason     string `json:"reason"`
}

// AppendCompileGaps records the content gaps of one compile report.
// The tile id column carries the section the gap belongs to.
func (l *EventLog) AppendCompileGaps(ctx context.Context, learnerID string, report *modes.Report) error {
	for _, gap := range report.Gaps {
		body := CompileGapEvent{
			BookID:     report.BookID,
			SectionID:  report.SectionID,
			Engine:     string(gap.Engine),
			Difficulty: string(gap.Difficulty),
			Reason:     gap.Reason,
		}
		if err := l.append(ctx, EventCompileGap, learnerID, report.SectionID, body); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns the newest events of a learner, newest first.
func (l *EventLog) Recent(ctx context.Context, learnerID string, limit int) ([]Event, error) {
	var events []Event
	q := l.db.Rebind(`SELECT * FROM events WHERE learner_id = ?
		ORDER BY seq DESC LIMIT ?`)
	if err := l.db.SelectContext(ctx, &events, q, learnerID, limit); err != nil {
		return nil, fmt.Errorf("list events for %s: %w", learnerID, err)
	}
	return events, nil
}

// Stats summarizes a learner's history for the stats command.
type Stats struct {
	TotalEvents     int64
	Reviews         int64
	ReviewsByGrade  map[fog.Grade]int64
	FogTransitions  int64
	CompileGaps     int64
	AverageAccuracy float64
}

// Stats aggregates event counts and review quality for one learner.
func (l *EventLog) Stats(ctx context.Context, learnerID string) (*Stats, error) {
	type countRow struct {
		EventType string `db:"event_type"`
		N         int64  `db:"n"`
	}
	var counts []countRow
	q := l.db.Rebind(`SELECT event_type, COUNT(*) AS n FROM events
		WHERE learner_id = ? GROUP BY event_type`)
	if err := l.db.SelectContext(ctx, &counts, q, learnerID); err != nil {
		return nil, fmt.Errorf("count events for %s: %w", learnerID, err)
	}

	st := &Stats{ReviewsByGrade: make(map[fog.Grade]int64)}
	for _, c := range counts {
		st.TotalEvents += c.N
		switch c.EventType {
		case EventReview:
			st.Reviews = c.N
		case EventFogTransition:
			st.FogTransitions = c.N
		case EventCompileGap:
			st.CompileGaps = c.N
		}
	}

	if st.Reviews > 0 {
		var rows []Event
		q := l.db.Rebind(`SELECT * FROM events WHERE learner_id = ? AND event_type = ?`)
		if err := l.db.SelectContext(ctx, &rows, q, learnerID, EventReview); err != nil {
			return nil, fmt.Errorf("load reviews for %s: %w", learnerID, err)
		}
		var accSum float64
		for _, row := range rows {
			var ev fog.ReviewEvent
			if err := json.Unmarshal(row.Payload, &ev); err != nil {
				return nil, fmt.Errorf("decode review event %s: %w", row.EventID, err)
			}
			st.ReviewsByGrade[ev.Grade]++
			accSum += ev.Accuracy
		}
		st.AverageAccuracy = accSum / float64(len(rows))
	}
	return st, nil
}
