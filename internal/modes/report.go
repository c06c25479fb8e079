package modes

import (
	"fmt"

	"github.com/example/fogmap/internal/primitive"
)

// ContentGap records an engine the compiler had to skip or degrade for
// a section. Gaps are content-quality findings for the authoring
// pipeline, never fatal to the batch.
type ContentGap struct {
	Engine     EngineKind `json:"engine"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Reason     string     `json:"reason"`
}

func (g ContentGap) String() string {
	if g.Difficulty != "" {
		return fmt.Sprintf("%s/%s: %s", g.Engine, g.Difficulty, g.Reason)
	}
	return fmt.Sprintf("%s: %s", g.Engine, g.Reason)
}

// ContentGapError wraps a gap when a caller needs it as an error value.
type ContentGapError struct {
	SectionID string
	Gap       ContentGap
}

func (e *ContentGapError) Error() string {
	return fmt.Sprintf("content gap in section %s: %s", e.SectionID, e.Gap)
}

// Report summarizes one section compile: what the content looked like,
// which archetypes it exhibits, and which engines came up short.
type Report struct {
	BookID     string            `json:"book_id"`
	SectionID  string            `json:"section_id"`
	Seed       int64             `json:"seed"`
	Signals    primitive.Signals `json:"signals"`
	Archetypes []string          `json:"archetypes"`
	Instances  int               `json:"instances"`
	Gaps       []ContentGap      `json:"gaps,omitempty"`
}

func (r *Report) addGap(engine EngineKind, difficulty Difficulty, reason string) {
	r.Gaps = append(r.Gaps, ContentGap{Engine: engine, Difficulty: difficulty, Reason: reason})
}

// GapErrors returns the report's gaps as error values for callers that
// surface or propagate them individually.
func (r *Report) GapErrors() []error {
	errs := make([]error, len(r.Gaps))
	for i, gap := range r.Gaps {
		errs[i] = &ContentGapError{SectionID: r.SectionID, Gap: gap}
	}
	return errs
}
