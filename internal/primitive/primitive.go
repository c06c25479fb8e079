// Package primitive defines the typed content units the rest of the
// system consumes: terms, processes, tables, and figures extracted from
// a source book. Primitives are immutable once ingested; every field a
// downstream engine needs is validated at the ingestion boundary rather
// than guessed at per access.
package primitive

import (
	"fmt"
	"strings"
)

// Kind discriminates the closed set of primitive variants.
type Kind string

const (
	KindTerm    Kind = "term"
	KindProcess Kind = "process"
	KindTable   Kind = "table"
	KindFigure  Kind = "figure"
)

// Key identifies a primitive within a book.
type Key struct {
	BookID    string `json:"book_id"`
	SectionID string `json:"section_id"`
	Index     int    `json:"index"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.BookID, k.SectionID, k.Index)
}

// Term is a vocabulary item. Equation is optional: when the term names a
// formula, the extraction stage records it here and the term becomes
// eligible for equation-style engines.
type Term struct {
	Term             string `json:"term"`
	Definition       string `json:"definition"`
	DistractorPoolID string `json:"distractor_pool_id,omitempty"`
	Equation         string `json:"equation,omitempty"`
}

// Process is an ordered procedure with at least one step.
type Process struct {
	Title string   `json:"title,omitempty"`
	Steps []string `json:"steps"`
}

// Table is a rectangular grid. The first column holds row labels; the
// remaining columns hold values under the corresponding header.
type Table struct {
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Figure references an image with labeled regions.
type Figure struct {
	ImageRef string            `json:"image_ref"`
	Title    string            `json:"title,omitempty"`
	Labels   map[string]string `json:"labels"` // region id -> label text
}

// Primitive is the tagged variant: exactly one of the payload pointers
// is non-nil, matching Kind.
type Primitive struct {
	Key  Key  `json:"key"`
	Kind Kind `json:"kind"`

	Term    *Term    `json:"term,omitempty"`
	Process *Process `json:"process,omitempty"`
	Table   *Table   `json:"table,omitempty"`
	Figure  *Figure  `json:"figure,omitempty"`
}

// Validate checks the variant invariant and the required fields of the
// active payload.
func (p *Primitive) Validate() error {
	set := 0
	if p.Term != nil {
		set++
	}
	if p.Process != nil {
		set++
	}
	if p.Table != nil {
		set++
	}
	if p.Figure != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("primitive %s: expected exactly one payload, found %d", p.Key, set)
	}

	switch p.Kind {
	case KindTerm:
		if p.Term == nil {
			return fmt.Errorf("primitive %s: kind %q without term payload", p.Key, p.Kind)
		}
		if strings.TrimSpace(p.Term.Term) == "" || strings.TrimSpace(p.Term.Definition) == "" {
			return fmt.Errorf("primitive %s: term requires non-empty term and definition", p.Key)
		}
	case KindProcess:
		if p.Process == nil {
			return fmt.Errorf("primitive %s: kind %q without process payload", p.Key, p.Kind)
		}
		if len(p.Process.Steps) == 0 {
			return fmt.Errorf("primitive %s: process requires at least one step", p.Key)
		}
		for i, s := range p.Process.Steps {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("primitive %s: process step %d is empty", p.Key, i)
			}
		}
	case KindTable:
		if p.Table == nil {
			return fmt.Errorf("primitive %s: kind %q without table payload", p.Key, p.Kind)
		}
		if len(p.Table.Columns) < 2 {
			return fmt.Errorf("primitive %s: table requires at least 2 columns", p.Key)
		}
		if len(p.Table.Rows) == 0 {
			return fmt.Errorf("primitive %s: table requires at least one row", p.Key)
		}
		for i, row := range p.Table.Rows {
			if len(row) != len(p.Table.Columns) {
				return fmt.Errorf("primitive %s: row %d has %d cells, want %d",
					p.Key, i, len(row), len(p.Table.Columns))
			}
		}
	case KindFigure:
		if p.Figure == nil {
			return fmt.Errorf("primitive %s: kind %q without figure payload", p.Key, p.Kind)
		}
		if strings.TrimSpace(p.Figure.ImageRef) == "" {
			return fmt.Errorf("primitive %s: figure requires image_ref", p.Key)
		}
		if len(p.Figure.Labels) == 0 {
			return fmt.Errorf("primitive %s: figure requires at least one label", p.Key)
		}
	default:
		return fmt.Errorf("primitive %s: unknown kind %q", p.Key, p.Kind)
	}
	return nil
}

// HasEquation reports whether the primitive is an equation-shaped term.
func (p *Primitive) HasEquation() bool {
	return p.Kind == KindTerm && p.Term != nil && strings.TrimSpace(p.Term.Equation) != ""
}
