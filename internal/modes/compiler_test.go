package modes

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/example/fogmap/internal/primitive"
)

func termPrim(section string, idx int, term, def string) primitive.Primitive {
	return primitive.Primitive{
		Key:  primitive.Key{BookID: "biology", SectionID: section, Index: idx},
		Kind: primitive.KindTerm,
		Term: &primitive.Term{Term: term, Definition: def},
	}
}

func fourTerms(section string) []primitive.Primitive {
	return []primitive.Primitive{
		termPrim(section, 0, "Mitochondria", "Powerhouse of the cell"),
		termPrim(section, 1, "Ribosome", "Site of protein synthesis"),
		termPrim(section, 2, "Golgi", "Packages and ships proteins"),
		termPrim(section, 3, "ER", "Membrane network for synthesis and transport"),
	}
}

func comparisonTable(section string, idx int) primitive.Primitive {
	return primitive.Primitive{
		Key:  primitive.Key{BookID: "biology", SectionID: section, Index: idx},
		Kind: primitive.KindTable,
		Table: &primitive.Table{
			Title:   "Cell types",
			Columns: []string{"Feature", "Prokaryote", "Eukaryote"},
			Rows: [][]string{
				{"Nucleoid", "present", ""},
				{"Nucleus", "", "present2"},
				{"Ribosome 70S", "yes", ""},
				{"Membrane organelles", "", "many"},
				{"Cell wall", "murein", ""},
			},
		},
	}
}

func newTestCompiler() *Compiler {
	return NewCompiler(Config{}, Enrichment{})
}

func findEngine(instances []Instance, kind EngineKind) []Instance {
	var out []Instance
	for _, in := range instances {
		if in.EngineKind == kind {
			out = append(out, in)
		}
	}
	return out
}

func TestCompileIsDeterministic(t *testing.T) {
	prims := append(fourTerms("1.1"), comparisonTable("1.1", 4))
	c := newTestCompiler()

	first, _, err := c.Compile(prims, "1.1", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, _, err := c.Compile(prims, "1.1", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical inputs and seed produced different instances")
	}
}

func TestCompileNewSeedChangesShuffle(t *testing.T) {
	prims := fourTerms("1.1")
	c := newTestCompiler()

	first, _, err := c.Compile(prims, "1.1", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, _, err := c.Compile(prims, "1.1", 43)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	// Same ids (stable), but at least one option order should differ.
	if first[0].ID != second[0].ID {
		t.Errorf("stable id changed with seed: %q vs %q", first[0].ID, second[0].ID)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) == string(b) {
		t.Error("different seeds produced identical instances")
	}
}

func TestCompileRapidRecallScenario(t *testing.T) {
	// Four terms, seed 42: every card has 1 correct option and 3
	// distractors drawn from the other three definitions.
	instances, report, err := newTestCompiler().Compile(fourTerms("1.1"), "1.1", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(report.Gaps) != 0 {
		t.Fatalf("unexpected gaps: %v", report.Gaps)
	}

	recalls := findEngine(instances, EngineRapidRecall)
	if len(recalls) != 2 {
		t.Fatalf("got %d rapid_recall instances, want 2 (easy, medium)", len(recalls))
	}

	defs := map[string]string{
		"Mitochondria": "Powerhouse of the cell",
		"Ribosome":     "Site of protein synthesis",
		"Golgi":        "Packages and ships proteins",
		"ER":           "Membrane network for synthesis and transport",
	}
	for _, in := range recalls {
		for _, card := range in.RapidRecall.Cards {
			if len(card.Options) != 4 {
				t.Fatalf("card %q has %d options, want 4", card.Prompt, len(card.Options))
			}
			if got, want := card.Options[card.CorrectIndex], defs[card.Prompt]; got != want {
				t.Errorf("card %q correct option = %q, want %q", card.Prompt, got, want)
			}
			correctCount := 0
			for _, o := range card.Options {
				if o == defs[card.Prompt] {
					correctCount++
				}
			}
			if correctCount != 1 {
				t.Errorf("card %q has %d copies of the correct answer, want 1", card.Prompt, correctCount)
			}
		}
	}
}

func TestCompileOutputSelfValidates(t *testing.T) {
	prims := append(fourTerms("1.1"), comparisonTable("1.1", 4))
	prims = append(prims,
		primitive.Primitive{
			Key:     primitive.Key{BookID: "biology", SectionID: "1.1", Index: 5},
			Kind:    primitive.KindProcess,
			Process: &primitive.Process{Title: "DNA replication", Steps: []string{"Unwind", "Prime", "Extend", "Proofread", "Ligate"}},
		},
		primitive.Primitive{
			Key:  primitive.Key{BookID: "biology", SectionID: "1.1", Index: 6},
			Kind: primitive.KindFigure,
			Figure: &primitive.Figure{
				ImageRef: "cell.png",
				Title:    "The cell",
				Labels:   map[string]string{"r1": "Nucleus", "r2": "Membrane", "r3": "Cytoplasm", "r4": "Vacuole"},
			},
		},
	)

	instances, _, err := newTestCompiler().Compile(prims, "1.1", 7)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(instances) == 0 {
		t.Fatal("no instances compiled")
	}
	for _, err := range VerifyAll(instances) {
		t.Errorf("verify: %v", err)
	}

	// Archetype engines run the full ladder.
	if got := len(findEngine(instances, EngineSequenceBuilder)); got != 4 {
		t.Errorf("sequence_builder instances = %d, want 4", got)
	}
	if got := len(findEngine(instances, EngineLabelText)); got != 4 {
		t.Errorf("label_text instances = %d, want 4", got)
	}
	// Universal engines stop at medium.
	if got := len(findEngine(instances, EngineRapidRecall)); got != 2 {
		t.Errorf("rapid_recall instances = %d, want 2", got)
	}
}

func TestCompileDistractorBookFallback(t *testing.T) {
	// Two in-section terms cannot fill 3 distractors; the book pool
	// supplies the rest.
	prims := []primitive.Primitive{
		termPrim("2.1", 0, "Osmosis", "Water movement across a membrane"),
		termPrim("2.1", 1, "Diffusion", "Movement down a concentration gradient"),
		termPrim("2.1", 2, "Active transport", "Movement requiring energy"),
		termPrim("2.1", 3, "Endocytosis", "Engulfing material into the cell"),
	}
	enrich := Enrichment{
		Glossary: map[string]string{
			"Exocytosis":  "Expelling material from the cell",
			"Pinocytosis": "Uptake of extracellular fluid",
		},
	}

	// With only 4 terms there are exactly 3 in-section distractors per
	// card, so the section pool suffices; shrink it to force fallback.
	short := prims[:2]
	c := NewCompiler(Config{MinRecallTerms: 2}, enrich)
	instances, report, err := c.Compile(short, "2.1", 11)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	recalls := findEngine(instances, EngineRapidRecall)
	if len(recalls) == 0 {
		t.Fatalf("no rapid_recall compiled, gaps: %v", report.Gaps)
	}
	for _, card := range recalls[0].RapidRecall.Cards {
		if len(card.Options) < 3 {
			t.Errorf("card %q has %d options, want at least 3 after book fallback", card.Prompt, len(card.Options))
		}
	}
}

func TestCompileInsufficientTermsIsGapNotError(t *testing.T) {
	prims := []primitive.Primitive{
		termPrim("3.1", 0, "Entropy", "Measure of disorder"),
	}
	instances, report, err := newTestCompiler().Compile(prims, "3.1", 1)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil (gaps are non-fatal)", err)
	}
	if len(instances) != 0 {
		t.Errorf("got %d instances from a single term, want 0", len(instances))
	}
	if len(report.Gaps) == 0 {
		t.Error("expected a content gap for rapid_recall")
	}
}

func TestCompileConceptClashFallback(t *testing.T) {
	// Three terms: below the recall minimum, so the clash fallback must
	// keep the section playable.
	prims := []primitive.Primitive{
		termPrim("4.1", 0, "Allele", "Variant form of a gene"),
		termPrim("4.1", 1, "Genotype", "Genetic makeup of an organism"),
		termPrim("4.1", 2, "Phenotype", "Observable traits of an organism"),
	}
	instances, _, err := newTestCompiler().Compile(prims, "4.1", 5)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	clashes := findEngine(instances, EngineConceptClash)
	if len(clashes) != 2 {
		t.Fatalf("concept_clash instances = %d, want 2", len(clashes))
	}
	for _, err := range VerifyAll(instances) {
		t.Errorf("verify: %v", err)
	}

	// False statements must carry a stolen definition, not the real one.
	for _, in := range clashes {
		for _, card := range in.ConceptClash.Cards {
			if !card.IsTrue && card.Statement == card.Term+": "+defFor(prims, card.Term) {
				t.Errorf("false card %q states the true definition", card.Term)
			}
		}
	}
}

func defFor(prims []primitive.Primitive, term string) string {
	for _, p := range prims {
		if p.Kind == primitive.KindTerm && p.Term.Term == term {
			return p.Term.Definition
		}
	}
	return ""
}

func TestCompileRejectsForeignSection(t *testing.T) {
	prims := fourTerms("1.1")
	prims[2].Key.SectionID = "9.9"
	if _, _, err := newTestCompiler().Compile(prims, "1.1", 1); err == nil {
		t.Fatal("Compile() = nil error, want section mismatch")
	}
}

func TestCompileEquationForge(t *testing.T) {
	prims := []primitive.Primitive{
		{
			Key:  primitive.Key{BookID: "physics", SectionID: "2.3", Index: 0},
			Kind: primitive.KindTerm,
			Term: &primitive.Term{Term: "Newton's second law", Definition: "Force law", Equation: "F = ma"},
		},
		{
			Key:  primitive.Key{BookID: "physics", SectionID: "2.3", Index: 1},
			Kind: primitive.KindTerm,
			Term: &primitive.Term{Term: "Kinetic energy", Definition: "Energy of motion", Equation: "KE = 1/2 mv^2"},
		},
		{
			Key:  primitive.Key{BookID: "physics", SectionID: "2.3", Index: 2},
			Kind: primitive.KindTerm,
			Term: &primitive.Term{Term: "Momentum", Definition: "Mass in motion", Equation: "p = mv"},
		},
	}

	c := NewCompiler(Config{MinOptionCount: 3}, Enrichment{})
	instances, _, err := c.Compile(prims, "2.3", 99)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	forges := findEngine(instances, EngineEquationForge)
	if len(forges) != 4 {
		t.Fatalf("equation_forge instances = %d, want 4 (full ladder)", len(forges))
	}
	for _, in := range forges {
		for _, card := range in.EquationForge.Cards {
			wantFormula := ""
			for _, p := range prims {
				if p.Term.Term == card.Prompt {
					wantFormula = p.Term.Equation
				}
			}
			if card.Options[card.CorrectIndex] != wantFormula {
				t.Errorf("card %q correct option = %q, want %q", card.Prompt, card.Options[card.CorrectIndex], wantFormula)
			}
		}
	}
}

func TestStableID(t *testing.T) {
	got := StableID("biology", "1.1", "rapid_recall", "", "easy")
	want := "biology|1.1|rapid_recall|easy"
	if got != want {
		t.Errorf("StableID() = %q, want %q", got, want)
	}
	if StableID("a b", "c") != StableID("a b", "c") {
		t.Error("StableID not stable")
	}
}

func TestCompileHonorsEligibilityTable(t *testing.T) {
	c := newTestCompiler()

	// A table-only section feeds exactly the table's engines; nothing
	// term-, process-, or figure-shaped compiles.
	instances, _, err := c.Compile([]primitive.Primitive{comparisonTable("3.1", 0)}, "3.1", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	for _, in := range instances {
		if in.EngineKind != EngineSortBuckets && in.EngineKind != EngineTableChallenge {
			t.Errorf("table-only section compiled %s", in.EngineKind)
		}
	}
	if len(findEngine(instances, EngineSortBuckets)) == 0 {
		t.Error("table-only section compiled no sort_buckets")
	}

	// Equation-shaped terms additionally feed equation_forge.
	eqs := []struct{ name, def, formula string }{
		{"Newton's second law", "Force law", "F = ma"},
		{"Weight", "Gravitational force on a mass", "W = mg"},
		{"Pressure", "Force per area", "P = F/A"},
	}
	var prims []primitive.Primitive
	for i, eq := range eqs {
		prims = append(prims, primitive.Primitive{
			Key:  primitive.Key{BookID: "biology", SectionID: "3.2", Index: i},
			Kind: primitive.KindTerm,
			Term: &primitive.Term{Term: eq.name, Definition: eq.def, Equation: eq.formula},
		})
	}
	instances, _, err = c.Compile(prims, "3.2", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(findEngine(instances, EngineEquationForge)) == 0 {
		t.Error("equation-shaped term compiled no equation_forge")
	}
}

func TestReportGapErrors(t *testing.T) {
	c := newTestCompiler()
	_, report, err := c.Compile([]primitive.Primitive{
		termPrim("1.9", 0, "Mitochondria", "Powerhouse of the cell"),
	}, "1.9", 42)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	gapErrs := report.GapErrors()
	if len(gapErrs) != len(report.Gaps) || len(gapErrs) == 0 {
		t.Fatalf("GapErrors() = %d errors, want %d", len(gapErrs), len(report.Gaps))
	}
	var gapErr *ContentGapError
	if !errors.As(gapErrs[0], &gapErr) {
		t.Fatalf("GapErrors()[0] = %T, want *ContentGapError", gapErrs[0])
	}
	if gapErr.SectionID != "1.9" {
		t.Errorf("SectionID = %q, want 1.9", gapErr.SectionID)
	}
	if gapErr.Gap.Engine != report.Gaps[0].Engine {
		t.Errorf("Gap.Engine = %q, want %q", gapErr.Gap.Engine, report.Gaps[0].Engine)
	}
}
