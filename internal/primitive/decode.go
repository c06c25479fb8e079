package primitive

import (
	"encoding/json"
	"fmt"
)

// SectionDoc is the wire shape the extraction pipeline writes for one
// section: grouped arrays of raw primitives.
type SectionDoc struct {
	BookID    string    `json:"book_id"`
	SectionID string    `json:"section_id"`
	Terms     []Term    `json:"terms,omitempty"`
	Processes []Process `json:"processes,omitempty"`
	Tables    []Table   `json:"tables,omitempty"`
	Figures   []Figure  `json:"figures,omitempty"`
}

// DecodeSection validates raw section JSON against the ingestion schema
// and converts it into keyed primitives. Keys are assigned in document
// order: terms first, then processes, tables, and figures.
func DecodeSection(raw json.RawMessage) ([]Primitive, error) {
	if err := ValidateSectionJSON(raw); err != nil {
		return nil, err
	}

	var doc SectionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode section: %w", err)
	}
	return doc.Primitives()
}

// Primitives converts the document into keyed, validated primitives.
func (d *SectionDoc) Primitives() ([]Primitive, error) {
	var out []Primitive
	idx := 0
	key := func() Key {
		k := Key{BookID: d.BookID, SectionID: d.SectionID, Index: idx}
		idx++
		return k
	}

	for i := range d.Terms {
		t := d.Terms[i]
		out = append(out, Primitive{Key: key(), Kind: KindTerm, Term: &t})
	}
	for i := range d.Processes {
		p := d.Processes[i]
		out = append(out, Primitive{Key: key(), Kind: KindProcess, Process: &p})
	}
	for i := range d.Tables {
		t := d.Tables[i]
		out = append(out, Primitive{Key: key(), Kind: KindTable, Table: &t})
	}
	for i := range d.Figures {
		f := d.Figures[i]
		out = append(out, Primitive{Key: key(), Kind: KindFigure, Figure: &f})
	}

	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
