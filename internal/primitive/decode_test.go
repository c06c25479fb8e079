package primitive

import (
	"encoding/json"
	"testing"
)

const sampleSectionJSON = `{
  "book_id": "biology",
  "section_id": "1.2",
  "terms": [
    {"term": "Mitochondria", "definition": "Powerhouse of the cell"},
    {"term": "Ribosome", "definition": "Protein synthesis site"}
  ],
  "processes": [
    {"title": "DNA replication", "steps": ["Unwind helix", "Prime strands", "Extend", "Ligate"]}
  ],
  "tables": [
    {"title": "Cell types", "columns": ["Feature", "Prokaryote", "Eukaryote"],
     "rows": [["Nucleus", "", "present"], ["Size", "small", ""]]}
  ],
  "figures": [
    {"image_ref": "fig_1_2.png", "title": "The cell",
     "labels": {"r1": "Nucleus", "r2": "Membrane"}}
  ]
}`

func TestDecodeSection(t *testing.T) {
	prims, err := DecodeSection(json.RawMessage(sampleSectionJSON))
	if err != nil {
		t.Fatalf("DecodeSection() error = %v", err)
	}
	want := []Kind{KindTerm, KindTerm, KindProcess, KindTable, KindFigure}
	if len(prims) != len(want) {
		t.Fatalf("len(prims) = %d, want %d", len(prims), len(want))
	}
	for i := range want {
		if prims[i].Kind != want[i] {
			t.Errorf("kind[%d] = %q, want %q", i, prims[i].Kind, want[i])
		}
	}

	for i, p := range prims {
		if p.Key.Index != i {
			t.Errorf("prims[%d].Key.Index = %d, want %d", i, p.Key.Index, i)
		}
		if p.Key.BookID != "biology" || p.Key.SectionID != "1.2" {
			t.Errorf("prims[%d].Key = %v, want biology/1.2", i, p.Key)
		}
	}
}

func TestDecodeSectionRejectsMissingBookID(t *testing.T) {
	raw := json.RawMessage(`{"section_id": "1.1", "terms": []}`)
	if _, err := DecodeSection(raw); err == nil {
		t.Fatal("DecodeSection() = nil error, want schema violation for missing book_id")
	}
}

func TestDecodeSectionRejectsBadTerm(t *testing.T) {
	raw := json.RawMessage(`{
	  "book_id": "b", "section_id": "s",
	  "terms": [{"term": "Osmosis"}]
	}`)
	if _, err := DecodeSection(raw); err == nil {
		t.Fatal("DecodeSection() = nil error, want schema violation for missing definition")
	}
}

func TestDecodeSectionRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeSection(json.RawMessage(`{not json`)); err == nil {
		t.Fatal("DecodeSection() = nil error, want parse error")
	}
}
