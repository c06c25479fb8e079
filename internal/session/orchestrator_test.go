package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/fogmap/internal/fog"
	"github.com/example/fogmap/internal/modes"
	"github.com/example/fogmap/internal/primitive"
)

type memRepo struct {
	recs map[string]fog.TileRecord
}

func newMemRepo() *memRepo { return &memRepo{recs: make(map[string]fog.TileRecord)} }

func (m *memRepo) key(learnerID, tileID string) string { return learnerID + "|" + tileID }

func (m *memRepo) Get(_ context.Context, learnerID, tileID string) (*fog.TileRecord, error) {
	rec, ok := m.recs[m.key(learnerID, tileID)]
	if !ok {
		return nil, fog.ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, learnerID string) ([]*fog.TileRecord, error) {
	var out []*fog.TileRecord
	for _, rec := range m.recs {
		if rec.LearnerID == learnerID {
			cp := rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, rec *fog.TileRecord) error {
	k := m.key(rec.LearnerID, rec.TileID)
	if _, ok := m.recs[k]; ok {
		return fog.ErrConflict
	}
	rec.Version = 1
	m.recs[k] = *rec
	return nil
}

func (m *memRepo) Update(_ context.Context, rec *fog.TileRecord) error {
	k := m.key(rec.LearnerID, rec.TileID)
	cur, ok := m.recs[k]
	if !ok {
		return fog.ErrNotFound
	}
	if cur.Version != rec.Version {
		return fog.ErrConflict
	}
	rec.Version++
	m.recs[k] = *rec
	return nil
}

type memContent struct {
	sections map[string][]primitive.Primitive // sectionID -> primitives
	order    []string
}

func (m *memContent) Sections(_ context.Context, bookID string) ([]string, error) {
	return m.order, nil
}

func (m *memContent) Section(_ context.Context, bookID, sectionID string) ([]primitive.Primitive, error) {
	prims, ok := m.sections[sectionID]
	if !ok {
		return nil, errors.New("no such section")
	}
	return prims, nil
}

func (m *memContent) Enrichment(context.Context, string) (modes.Enrichment, error) {
	var terms []primitive.Term
	for _, prims := range m.sections {
		for _, p := range prims {
			if p.Kind == primitive.KindTerm {
				terms = append(terms, *p.Term)
			}
		}
	}
	return modes.Enrichment{BookTerms: terms}, nil
}

type memGaps struct {
	reports []*modes.Report
}

func (m *memGaps) AppendCompileGaps(_ context.Context, _ string, report *modes.Report) error {
	m.reports = append(m.reports, report)
	return nil
}

func term(section string, idx int, name, def string) primitive.Primitive {
	return primitive.Primitive{
		Key:  primitive.Key{BookID: "biology", SectionID: section, Index: idx},
		Kind: primitive.KindTerm,
		Term: &primitive.Term{Term: name, Definition: def},
	}
}

func richSection(section string) []primitive.Primitive {
	return []primitive.Primitive{
		term(section, 0, "Mitochondria", "Powerhouse of the cell"),
		term(section, 1, "Ribosome", "Protein synthesis site"),
		term(section, 2, "Nucleus", "Holds the genome"),
		term(section, 3, "Lysosome", "Breaks down waste"),
	}
}

var sessionNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newOrchestrator(repo fog.MasteryRepo, content ContentSource, gaps GapSink) *Orchestrator {
	sched := fog.NewScheduler(repo, nil, fog.Config{})
	return New(sched, content, gaps, modes.Config{})
}

func TestStartSettlesFogAndBuildsQueue(t *testing.T) {
	repo := newMemRepo()
	repo.recs["amara|bio.1.1"] = fog.TileRecord{
		LearnerID: "amara", TileID: "bio.1.1",
		LastReviewedAt: sessionNow.AddDate(0, 0, -10),
		IntervalDays:   5, EaseFactor: 2.5,
		State: fog.StateClear, Version: 1,
	}
	o := newOrchestrator(repo, &memContent{}, nil)

	sess, err := o.Start(context.Background(), "amara", sessionNow)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sess.ID == "" {
		t.Error("session id is empty")
	}
	if len(sess.Reclaimed) != 1 || sess.Reclaimed[0] != "bio.1.1" {
		t.Errorf("Reclaimed = %v, want [bio.1.1]", sess.Reclaimed)
	}
	if len(sess.Queue) != 1 || sess.Queue[0].TileID != "bio.1.1" {
		t.Errorf("Queue = %v, want bio.1.1 awaiting review", sess.Queue)
	}

	again, err := o.Start(context.Background(), "amara", sessionNow)
	if err != nil {
		t.Fatalf("Start() (second) error = %v", err)
	}
	if again.ID == sess.ID {
		t.Error("two sessions share an id")
	}
	if len(again.Reclaimed) != 0 {
		t.Errorf("second start Reclaimed = %v, want none (already settled)", again.Reclaimed)
	}
	if len(again.Queue) != 1 {
		t.Errorf("second start Queue = %v, tile should still await review", again.Queue)
	}
}

func TestInstancesCompilesSection(t *testing.T) {
	content := &memContent{
		sections: map[string][]primitive.Primitive{"1.1": richSection("1.1")},
		order:    []string{"1.1"},
	}
	o := newOrchestrator(newMemRepo(), content, nil)

	instances, report, err := o.Instances(context.Background(), "amara", "biology", "1.1", 42)
	if err != nil {
		t.Fatalf("Instances() error = %v", err)
	}
	if len(instances) == 0 {
		t.Fatal("no instances compiled")
	}
	if report.SectionID != "1.1" {
		t.Errorf("report section = %q, want 1.1", report.SectionID)
	}
}

func TestInstancesLogsGaps(t *testing.T) {
	// One lone term: every engine falls short, gaps get reported.
	content := &memContent{
		sections: map[string][]primitive.Primitive{
			"1.1": {term("1.1", 0, "Mitochondria", "Powerhouse of the cell")},
		},
		order: []string{"1.1"},
	}
	gaps := &memGaps{}
	o := newOrchestrator(newMemRepo(), content, gaps)

	_, report, err := o.Instances(context.Background(), "amara", "biology", "1.1", 42)
	if err != nil {
		t.Fatalf("Instances() error = %v", err)
	}
	if len(report.Gaps) == 0 {
		t.Fatal("expected content gaps for a one-term section")
	}
	if len(gaps.reports) != 1 {
		t.Fatalf("logged reports = %d, want 1", len(gaps.reports))
	}
}

func TestInstancesMissingSection(t *testing.T) {
	o := newOrchestrator(newMemRepo(), &memContent{}, nil)
	_, _, err := o.Instances(context.Background(), "amara", "biology", "9.9", 42)
	if err == nil {
		t.Fatal("Instances() = nil error, want fetch failure")
	}
}

func TestCompileBookAggregates(t *testing.T) {
	content := &memContent{
		sections: map[string][]primitive.Primitive{
			"1.1": richSection("1.1"),
			"1.2": richSection("1.2"),
		},
		order: []string{"1.1", "1.2"},
	}
	o := newOrchestrator(newMemRepo(), content, nil)

	result, err := o.CompileBook(context.Background(), "amara", "biology", 42, 4)
	if err != nil {
		t.Fatalf("CompileBook() error = %v", err)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(result.Reports))
	}
	if len(result.Instances) == 0 {
		t.Fatal("no instances compiled")
	}
}

func TestSubmitRecordsOutcome(t *testing.T) {
	repo := newMemRepo()
	o := newOrchestrator(repo, &memContent{}, nil)

	rec, err := o.Submit(context.Background(), "amara",
		fog.Outcome{TileID: "bio.1.1", Accuracy: 0.95}, sessionNow)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if rec.State != fog.StateClear {
		t.Errorf("state = %q, want clear after review", rec.State)
	}
	if rec.ConsecutiveCorrect != 1 {
		t.Errorf("consecutive = %d, want 1", rec.ConsecutiveCorrect)
	}
}
