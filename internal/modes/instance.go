package modes

import (
	"regexp"
	"strings"
)

// Scope distinguishes where an instance draws its material from.
type Scope string

const (
	ScopeSection Scope = "section"
	ScopeBook    Scope = "book"
)

// Instance is one compiled, renderer-ready practice exercise. Exactly
// one payload pointer is non-nil, matching EngineKind. Everything a
// renderer needs to present the exercise and check answers lives inside
// the instance; the source primitives are never consulted again.
type Instance struct {
	ID         string     `json:"id"`
	EngineKind EngineKind `json:"engine_kind"`
	BookID     string     `json:"book_id"`
	SectionID  string     `json:"section_id"`
	Scope      Scope      `json:"scope"`
	Difficulty Difficulty `json:"difficulty"`
	Seed       int64      `json:"seed"`
	Rewards    Rewards    `json:"rewards"`

	RapidRecall     *RecallPayload         `json:"rapid_recall,omitempty"`
	SequenceBuilder *SequencePayload       `json:"sequence_builder,omitempty"`
	SortBuckets     *SortPayload           `json:"sort_buckets,omitempty"`
	EquationForge   *EquationPayload       `json:"equation_forge,omitempty"`
	LabelText       *LabelPayload          `json:"label_text,omitempty"`
	ConceptClash    *ClashPayload          `json:"concept_clash,omitempty"`
	TableChallenge  *TableChallengePayload `json:"table_challenge,omitempty"`
}

// RecallCard is a single multiple-choice card: one prompt, one correct
// option among len(Options).
type RecallCard struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// RecallPayload is the rapid_recall card run: pick the definition that
// matches each term before the streak breaks.
type RecallPayload struct {
	Title string       `json:"title"`
	Cards []RecallCard `json:"cards"`
}

// SequenceStep is one step of a process, tagged with its correct
// position so the instance is self-checking.
type SequenceStep struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

// SequencePayload presents the steps in shuffled order; CorrectOrder
// lists the Order values in their true sequence.
type SequencePayload struct {
	Title        string         `json:"title"`
	Steps        []SequenceStep `json:"steps"`
	CorrectOrder []int          `json:"correct_order"`
}

// SortItem is one feature to place. CorrectBucket always names an entry
// of the payload's Buckets list.
type SortItem struct {
	Feature       string `json:"feature"`
	CorrectBucket string `json:"correct_bucket"`
}

// SortPayload is the sort_buckets drag game built from a comparison
// table: buckets are the value columns, items are the rows whose single
// marked cell identifies the owning bucket.
type SortPayload struct {
	Title   string     `json:"title"`
	Buckets []string   `json:"buckets"`
	Items   []SortItem `json:"items"`
}

// EquationPayload asks the learner to match an equation name to its
// formula among distractor formulas.
type EquationPayload struct {
	Title string       `json:"title"`
	Cards []RecallCard `json:"cards"`
}

// LabelItem asks which label belongs to a figure region.
type LabelItem struct {
	RegionID     string   `json:"region_id"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// LabelPayload is the label_text figure game.
type LabelPayload struct {
	Title    string      `json:"title"`
	ImageRef string      `json:"image_ref"`
	Items    []LabelItem `json:"items"`
}

// ClashCard is a true/false statement about a term.
type ClashCard struct {
	Statement   string `json:"statement"`
	Term        string `json:"term"`
	IsTrue      bool   `json:"is_true"`
	Explanation string `json:"explanation"`
}

// ClashPayload is the concept_clash fallback game: rapid true/false on
// term definitions. Available whenever a section has two or more terms.
type ClashPayload struct {
	Title string      `json:"title"`
	Cards []ClashCard `json:"cards"`
}

// HiddenCell references one concealed cell of the challenge grid, with
// its own option set. Row and Col index into Rows and Columns.
type HiddenCell struct {
	Row          int      `json:"row"`
	Col          int      `json:"col"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// TableChallengePayload carries the full grid plus the hidden-cell set.
// The renderer blanks the hidden cells; every row and column keeps at
// least one visible cell so the learner retains positional context.
type TableChallengePayload struct {
	Title       string       `json:"title"`
	Columns     []string     `json:"columns"`
	Rows        [][]string   `json:"rows"`
	HiddenCells []HiddenCell `json:"hidden_cells"`
}

// payloadCount returns how many payload pointers are set. A valid
// instance has exactly one.
func (in *Instance) payloadCount() int {
	n := 0
	if in.RapidRecall != nil {
		n++
	}
	if in.SequenceBuilder != nil {
		n++
	}
	if in.SortBuckets != nil {
		n++
	}
	if in.EquationForge != nil {
		n++
	}
	if in.LabelText != nil {
		n++
	}
	if in.ConceptClash != nil {
		n++
	}
	if in.TableChallenge != nil {
		n++
	}
	return n
}

var idStripRe = regexp.MustCompile(`[^a-zA-Z0-9:_\-|.]+`)
var idSpaceRe = regexp.MustCompile(`\s+`)

// StableID builds a deterministic, readable instance id from its parts.
// The same content coordinates always produce the same id, so replays
// with a new seed overwrite rather than multiply.
func StableID(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	id := strings.Join(kept, "|")
	id = idSpaceRe.ReplaceAllString(id, " ")
	id = idStripRe.ReplaceAllString(id, "")
	if len(id) > 120 {
		id = id[:120]
	}
	return id
}
