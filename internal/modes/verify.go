package modes

import (
	"fmt"
	"strings"
)

// Verify re-checks a compiled instance against the self-consistency
// invariants: exactly one payload, exactly one correct marker wherever
// the engine requires singularity, bucket names that exist, in-bounds
// hidden-cell coordinates, and full row/column visibility coverage.
// The compiler is expected to always produce verifiable instances;
// Verify exists so tests and the CLI can prove it.
func Verify(in *Instance) error {
	if in.ID == "" {
		return fmt.Errorf("instance has empty id")
	}
	if !in.EngineKind.Valid() {
		return fmt.Errorf("instance %s: unknown engine %q", in.ID, in.EngineKind)
	}
	if !in.Difficulty.Valid() {
		return fmt.Errorf("instance %s: unknown difficulty %q", in.ID, in.Difficulty)
	}
	if n := in.payloadCount(); n != 1 {
		return fmt.Errorf("instance %s: %d payloads set, want exactly 1", in.ID, n)
	}

	switch in.EngineKind {
	case EngineRapidRecall:
		if in.RapidRecall == nil {
			return payloadMismatch(in)
		}
		return verifyCards(in.ID, in.RapidRecall.Cards)
	case EngineEquationForge:
		if in.EquationForge == nil {
			return payloadMismatch(in)
		}
		return verifyCards(in.ID, in.EquationForge.Cards)
	case EngineSequenceBuilder:
		if in.SequenceBuilder == nil {
			return payloadMismatch(in)
		}
		return verifySequence(in.ID, in.SequenceBuilder)
	case EngineSortBuckets:
		if in.SortBuckets == nil {
			return payloadMismatch(in)
		}
		return verifySort(in.ID, in.SortBuckets)
	case EngineLabelText:
		if in.LabelText == nil {
			return payloadMismatch(in)
		}
		return verifyLabel(in.ID, in.LabelText)
	case EngineConceptClash:
		if in.ConceptClash == nil {
			return payloadMismatch(in)
		}
		return verifyClash(in.ID, in.ConceptClash)
	case EngineTableChallenge:
		if in.TableChallenge == nil {
			return payloadMismatch(in)
		}
		return verifyTableChallenge(in.ID, in.TableChallenge)
	}
	return nil
}

// VerifyAll verifies every instance and returns all violations found.
func VerifyAll(instances []Instance) []error {
	var errs []error
	for i := range instances {
		if err := Verify(&instances[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func payloadMismatch(in *Instance) error {
	return fmt.Errorf("instance %s: payload does not match engine %s", in.ID, in.EngineKind)
}

func verifyOptions(id string, where string, options []string, correct int) error {
	if len(options) < 2 {
		return fmt.Errorf("instance %s: %s has %d options, want at least 2", id, where, len(options))
	}
	if correct < 0 || correct >= len(options) {
		return fmt.Errorf("instance %s: %s correct_index %d out of bounds", id, where, correct)
	}
	seen := map[string]bool{}
	for _, o := range options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("instance %s: %s has an empty option", id, where)
		}
		key := normalizeOption(o)
		if seen[key] {
			// A duplicate of the correct text would mark two options
			// correct; any duplicate breaks singularity.
			return fmt.Errorf("instance %s: %s has duplicate option %q", id, where, o)
		}
		seen[key] = true
	}
	return nil
}

func verifyCards(id string, cards []RecallCard) error {
	if len(cards) == 0 {
		return fmt.Errorf("instance %s: no cards", id)
	}
	for i, card := range cards {
		if strings.TrimSpace(card.Prompt) == "" {
			return fmt.Errorf("instance %s: card %d has empty prompt", id, i)
		}
		if err := verifyOptions(id, fmt.Sprintf("card %d", i), card.Options, card.CorrectIndex); err != nil {
			return err
		}
	}
	return nil
}

func verifySequence(id string, p *SequencePayload) error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("instance %s: no steps", id)
	}
	if len(p.Steps) != len(p.CorrectOrder) {
		return fmt.Errorf("instance %s: %d steps but %d correct_order entries", id, len(p.Steps), len(p.CorrectOrder))
	}
	seen := make(map[int]bool, len(p.Steps))
	for _, s := range p.Steps {
		if s.Order < 1 || s.Order > len(p.Steps) {
			return fmt.Errorf("instance %s: step order %d out of range", id, s.Order)
		}
		if seen[s.Order] {
			return fmt.Errorf("instance %s: duplicate step order %d", id, s.Order)
		}
		seen[s.Order] = true
	}
	if len(p.Steps) > 1 && inOrder(p.Steps) {
		return fmt.Errorf("instance %s: steps presented already solved", id)
	}
	return nil
}

func verifySort(id string, p *SortPayload) error {
	if len(p.Buckets) < 2 {
		return fmt.Errorf("instance %s: %d buckets, want at least 2", id, len(p.Buckets))
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("instance %s: no sort items", id)
	}
	buckets := map[string]bool{}
	for _, b := range p.Buckets {
		buckets[b] = true
	}
	for i, item := range p.Items {
		if !buckets[item.CorrectBucket] {
			return fmt.Errorf("instance %s: item %d names absent bucket %q", id, i, item.CorrectBucket)
		}
	}
	return nil
}

func verifyLabel(id string, p *LabelPayload) error {
	if p.ImageRef == "" {
		return fmt.Errorf("instance %s: label payload missing image_ref", id)
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("instance %s: no label items", id)
	}
	for i, item := range p.Items {
		if item.RegionID == "" {
			return fmt.Errorf("instance %s: label item %d has empty region id", id, i)
		}
		if err := verifyOptions(id, fmt.Sprintf("label item %d", i), item.Options, item.CorrectIndex); err != nil {
			return err
		}
	}
	return nil
}

func verifyClash(id string, p *ClashPayload) error {
	if len(p.Cards) == 0 {
		return fmt.Errorf("instance %s: no clash cards", id)
	}
	for i, card := range p.Cards {
		if strings.TrimSpace(card.Statement) == "" {
			return fmt.Errorf("instance %s: clash card %d has empty statement", id, i)
		}
	}
	return nil
}

func verifyTableChallenge(id string, p *TableChallengePayload) error {
	if len(p.Columns) < 2 || len(p.Rows) == 0 {
		return fmt.Errorf("instance %s: degenerate table grid", id)
	}
	if len(p.HiddenCells) == 0 {
		return fmt.Errorf("instance %s: no hidden cells", id)
	}

	hiddenPerRow := make([]int, len(p.Rows))
	hiddenPerCol := make([]int, len(p.Columns))
	seen := map[[2]int]bool{}
	for i, cell := range p.HiddenCells {
		if cell.Row < 0 || cell.Row >= len(p.Rows) || cell.Col < 0 || cell.Col >= len(p.Columns) {
			return fmt.Errorf("instance %s: hidden cell %d at (%d,%d) out of bounds", id, i, cell.Row, cell.Col)
		}
		at := [2]int{cell.Row, cell.Col}
		if seen[at] {
			return fmt.Errorf("instance %s: cell (%d,%d) hidden twice", id, cell.Row, cell.Col)
		}
		seen[at] = true
		hiddenPerRow[cell.Row]++
		hiddenPerCol[cell.Col]++

		if err := verifyOptions(id, fmt.Sprintf("hidden cell %d", i), cell.Options, cell.CorrectIndex); err != nil {
			return err
		}
		want := strings.TrimSpace(p.Rows[cell.Row][cell.Col])
		if cell.Options[cell.CorrectIndex] != want {
			return fmt.Errorf("instance %s: hidden cell (%d,%d) correct option %q does not match grid value %q",
				id, cell.Row, cell.Col, cell.Options[cell.CorrectIndex], want)
		}
	}

	for i, n := range hiddenPerRow {
		if n >= len(p.Columns) {
			return fmt.Errorf("instance %s: row %d has no visible cell", id, i)
		}
	}
	for j, n := range hiddenPerCol {
		if n >= len(p.Rows) {
			return fmt.Errorf("instance %s: column %d has no visible cell", id, j)
		}
	}
	return nil
}
