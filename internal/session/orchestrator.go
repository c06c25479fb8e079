// Package session ties the scheduler and the mode compiler together
// into the practice flow the CLI drives: start (settle fog, build the
// review queue), fetch instances for a section, submit outcomes.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/fogmap/internal/fog"
	"github.com/example/fogmap/internal/modes"
)

// ContentSource is the content access the orchestrator needs: section
// listing and fetching plus the book-level enrichment for distractor
// fallback. The filesystem content store satisfies it.
type ContentSource interface {
	modes.SectionSource
	Enrichment(ctx context.Context, bookID string) (modes.Enrichment, error)
}

// GapSink receives compile reports whose gaps should be logged. The
// store's event log satisfies it.
type GapSink interface {
	AppendCompileGaps(ctx context.Context, learnerID string, report *modes.Report) error
}

// Session is one started practice session.
type Session struct {
	ID        string
	LearnerID string
	StartedAt time.Time

	// Reclaimed lists the tiles whose fog state changed when this
	// session settled the clock, most overdue first.
	Reclaimed []string

	// Queue is every tile awaiting review, reclaimed tiles first.
	Queue []fog.QueueEntry
}

// Orchestrator drives the practice flow for one learner at a time.
type Orchestrator struct {
	sched   *fog.Scheduler
	content ContentSource
	gaps    GapSink
	cfg     modes.Config
}

// New creates an orchestrator. gaps may be nil to skip gap logging.
func New(sched *fog.Scheduler, content ContentSource, gaps GapSink, cfg modes.Config) *Orchestrator {
	return &Orchestrator{sched: sched, content: content, gaps: gaps, cfg: cfg}
}

// Start settles fog state at now and returns the new session with its
// review queue. Fog only ever advances here or in Submit; there is no
// background process.
func (o *Orchestrator) Start(ctx context.Context, learnerID string, now time.Time) (*Session, error) {
	reclaimed, err := o.sched.ReclaimExpired(ctx, learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("settle fog: %w", err)
	}
	queue, err := o.sched.ReviewQueue(ctx, learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("build review queue: %w", err)
	}
	return &Session{
		ID:        uuid.NewString(),
		LearnerID: learnerID,
		StartedAt: now,
		Reclaimed: reclaimed,
		Queue:     queue,
	}, nil
}

// Instances compiles the practice instances of one section. Content
// gaps in the report are logged for the learner but never fail the
// compile.
func (o *Orchestrator) Instances(ctx context.Context, learnerID, bookID, sectionID string, seed int64) ([]modes.Instance, *modes.Report, error) {
	compiler, err := o.compiler(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}
	prims, err := o.content.Section(ctx, bookID, sectionID)
	if err != nil {
		return nil, nil, err
	}
	instances, report, err := compiler.Compile(prims, sectionID, seed)
	if err != nil {
		return nil, nil, err
	}
	if errs := modes.VerifyAll(instances); len(errs) > 0 {
		return nil, nil, fmt.Errorf("compiled instances failed verification: %w", errs[0])
	}
	o.logGaps(ctx, learnerID, report)
	return instances, report, nil
}

// CompileBook compiles every section of a book plus the book-wide
// equation forge, logging each section's gaps.
func (o *Orchestrator) CompileBook(ctx context.Context, learnerID, bookID string, seed int64, workers int) (*modes.BookResult, error) {
	compiler, err := o.compiler(ctx, bookID)
	if err != nil {
		return nil, err
	}
	result, err := compiler.CompileBook(ctx, o.content, bookID, seed, workers)
	if err != nil {
		return nil, err
	}
	if errs := modes.VerifyAll(result.Instances); len(errs) > 0 {
		return nil, fmt.Errorf("compiled instances failed verification: %w", errs[0])
	}
	for _, report := range result.Reports {
		o.logGaps(ctx, learnerID, report)
	}
	return result, nil
}

// Submit records one completed outcome against the learner's tile.
func (o *Orchestrator) Submit(ctx context.Context, learnerID string, outcome fog.Outcome, now time.Time) (*fog.TileRecord, error) {
	return o.sched.RecordOutcome(ctx, learnerID, outcome, now)
}

func (o *Orchestrator) compiler(ctx context.Context, bookID string) (*modes.Compiler, error) {
	enrich, err := o.content.Enrichment(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("load enrichment for %s: %w", bookID, err)
	}
	return modes.NewCompiler(o.cfg, enrich), nil
}

func (o *Orchestrator) logGaps(ctx context.Context, learnerID string, report *modes.Report) {
	if o.gaps == nil || report == nil || len(report.Gaps) == 0 {
		return
	}
	// Gap history is analytics; a failed append never fails the session.
	_ = o.gaps.AppendCompileGaps(ctx, learnerID, report)
}
