package modes

import (
	"fmt"
	"sort"

	"github.com/example/fogmap/internal/primitive"
)

// Enrichment carries the optional book-level lookup data the compiler
// uses to fill distractor pools when a section alone is too thin.
type Enrichment struct {
	// Glossary maps term -> definition across the whole book.
	Glossary map[string]string

	// BookTerms is the book-level term pool (distractor fallback for
	// recall and equation cards).
	BookTerms []primitive.Term
}

// Compiler turns one section's primitives into practice-mode
// instances. It holds only immutable configuration, so a single
// Compiler is safe to use concurrently across sections.
type Compiler struct {
	cfg    Config
	enrich Enrichment
}

// NewCompiler creates a compiler with the given thresholds and
// book-level enrichment. Zero cfg fields fall back to defaults.
func NewCompiler(cfg Config, enrich Enrichment) *Compiler {
	return &Compiler{cfg: cfg.withDefaults(), enrich: enrich}
}

// sectionContent is the compiler's working view of one section.
type sectionContent struct {
	bookID    string
	sectionID string

	terms     []primitive.Term
	processes []primitive.Process
	tables    []primitive.Table
	figures   []primitive.Figure
	equations []primitive.Term // terms carrying an equation

	// engines is the union of eligibleEngines over the section's
	// primitives; Compile builds nothing outside it.
	engines map[EngineKind]bool

	defs      []string // in-section definition pool
	bookDefs  []string // book-level definition pool
	formulas  []string // in-section formula pool
	bookForms []string // book-level formula pool
}

// Compile produces every instance the section's primitives are eligible
// for, plus a report of signals, archetypes, and content gaps. The
// output is fully determined by (primitives, sectionID, seed): the same
// inputs always yield byte-identical instances.
func (c *Compiler) Compile(prims []primitive.Primitive, sectionID string, seed int64) ([]Instance, *Report, error) {
	content, err := c.collect(prims, sectionID)
	if err != nil {
		return nil, nil, err
	}

	signals := primitive.CollectSignals(prims)
	report := &Report{
		BookID:     content.bookID,
		SectionID:  sectionID,
		Seed:       seed,
		Signals:    signals,
		Archetypes: signals.Archetypes(),
	}

	var instances []Instance
	add := func(engine EngineKind, difficulty Difficulty, discriminator string, build func() (Instance, string)) {
		inst, gapReason := build()
		if gapReason != "" {
			report.addGap(engine, difficulty, gapReason)
			return
		}
		inst.ID = StableID(content.bookID, sectionID, string(engine), discriminator, string(difficulty))
		inst.EngineKind = engine
		inst.BookID = content.bookID
		inst.SectionID = sectionID
		inst.Scope = ScopeSection
		inst.Difficulty = difficulty
		inst.Seed = seed
		inst.Rewards = rewardTable[difficulty]
		instances = append(instances, inst)
	}

	// Universal engines: easy and medium rungs.
	for _, d := range universalDifficulties {
		difficulty := d
		if content.engines[EngineRapidRecall] {
			add(EngineRapidRecall, difficulty, "", func() (Instance, string) {
				rng := rngFor(seed, content.bookID, sectionID, string(EngineRapidRecall), string(difficulty))
				p, gap := c.buildRecall(content, difficulty, rng)
				return Instance{RapidRecall: p}, gap
			})
		}
		if content.engines[EngineTableChallenge] {
			for ti := range content.tables {
				if ti >= 2 {
					break // at most two tables feed challenge runs per section
				}
				table := content.tables[ti]
				disc := fmt.Sprintf("t%d", ti)
				add(EngineTableChallenge, difficulty, disc, func() (Instance, string) {
					rng := rngFor(seed, content.bookID, sectionID, string(EngineTableChallenge), disc, string(difficulty))
					p, gap := c.buildTableChallenge(table, difficulty, rng)
					return Instance{TableChallenge: p}, gap
				})
			}
		}
		if content.engines[EngineSortBuckets] {
			table := content.tables[0]
			add(EngineSortBuckets, difficulty, "", func() (Instance, string) {
				rng := rngFor(seed, content.bookID, sectionID, string(EngineSortBuckets), string(difficulty))
				p, gap := c.buildSort(table, difficulty, rng)
				return Instance{SortBuckets: p}, gap
			})
		}
	}

	// Archetype engines: the full ladder.
	for _, d := range AllDifficulties {
		difficulty := d
		if content.engines[EngineSequenceBuilder] {
			process := content.processes[0]
			add(EngineSequenceBuilder, difficulty, "", func() (Instance, string) {
				rng := rngFor(seed, content.bookID, sectionID, string(EngineSequenceBuilder), string(difficulty))
				p, gap := c.buildSequence(process, difficulty, rng)
				return Instance{SequenceBuilder: p}, gap
			})
		}
		if content.engines[EngineEquationForge] {
			add(EngineEquationForge, difficulty, "", func() (Instance, string) {
				rng := rngFor(seed, content.bookID, sectionID, string(EngineEquationForge), string(difficulty))
				p, gap := c.buildEquation(content.equations, content.formulas, content.bookForms, difficulty, rng)
				return Instance{EquationForge: p}, gap
			})
		}
		if content.engines[EngineLabelText] {
			add(EngineLabelText, difficulty, "", func() (Instance, string) {
				rng := rngFor(seed, content.bookID, sectionID, string(EngineLabelText), string(difficulty))
				p, gap := c.buildLabel(content.figures, difficulty, rng)
				return Instance{LabelText: p}, gap
			})
		}
	}

	// Fallback: concept_clash keeps thin sections playable.
	if len(instances) < c.cfg.MinModesPerSection &&
		content.engines[EngineConceptClash] && len(content.terms) >= c.cfg.MinClashTerms {
		for _, d := range universalDifficulties {
			difficulty := d
			add(EngineConceptClash, difficulty, "", func() (Instance, string) {
				rng := rngFor(seed, content.bookID, sectionID, string(EngineConceptClash), string(difficulty))
				p, gap := c.buildClash(content, difficulty, rng)
				return Instance{ConceptClash: p}, gap
			})
		}
	}

	report.Instances = len(instances)
	return instances, report, nil
}

// collect validates the primitives and splits them into the working
// pools the payload builders consume.
func (c *Compiler) collect(prims []primitive.Primitive, sectionID string) (*sectionContent, error) {
	content := &sectionContent{
		sectionID: sectionID,
		engines:   make(map[EngineKind]bool),
	}

	for i := range prims {
		p := &prims[i]
		if err := p.Validate(); err != nil {
			return nil, err
		}
		for _, engine := range eligibleEngines(p) {
			content.engines[engine] = true
		}
		if p.Key.SectionID != sectionID {
			return nil, fmt.Errorf("primitive %s does not belong to section %s", p.Key, sectionID)
		}
		if content.bookID == "" {
			content.bookID = p.Key.BookID
		} else if p.Key.BookID != content.bookID {
			return nil, fmt.Errorf("primitive %s crosses books (%s and %s)", p.Key, content.bookID, p.Key.BookID)
		}

		switch p.Kind {
		case primitive.KindTerm:
			content.terms = append(content.terms, *p.Term)
			content.defs = append(content.defs, p.Term.Definition)
			if p.HasEquation() {
				content.equations = append(content.equations, *p.Term)
				content.formulas = append(content.formulas, p.Term.Equation)
			}
		case primitive.KindProcess:
			content.processes = append(content.processes, *p.Process)
		case primitive.KindTable:
			content.tables = append(content.tables, *p.Table)
		case primitive.KindFigure:
			content.figures = append(content.figures, *p.Figure)
		}
	}

	for _, t := range c.enrich.BookTerms {
		if t.Definition != "" {
			content.bookDefs = append(content.bookDefs, t.Definition)
		}
		if t.Equation != "" {
			content.bookForms = append(content.bookForms, t.Equation)
		}
	}
	// Glossary iteration must be ordered or sampling loses determinism.
	glossaryTerms := make([]string, 0, len(c.enrich.Glossary))
	for term := range c.enrich.Glossary {
		glossaryTerms = append(glossaryTerms, term)
	}
	sort.Strings(glossaryTerms)
	for _, term := range glossaryTerms {
		content.bookDefs = append(content.bookDefs, c.enrich.Glossary[term])
	}

	return content, nil
}
