// Package modes compiles content primitives into self-contained,
// seeded practice-mode instances for the seven game engines. The
// compiler is a pure transform: identical primitives and seed always
// produce identical instances, so "try similar" is just a new seed.
package modes

import "github.com/example/fogmap/internal/primitive"

// EngineKind names one of the seven interchangeable practice engines.
type EngineKind string

const (
	EngineRapidRecall     EngineKind = "rapid_recall"
	EngineSequenceBuilder EngineKind = "sequence_builder"
	EngineSortBuckets     EngineKind = "sort_buckets"
	EngineEquationForge   EngineKind = "equation_forge"
	EngineLabelText       EngineKind = "label_text"
	EngineConceptClash    EngineKind = "concept_clash"
	EngineTableChallenge  EngineKind = "table_challenge"
)

// AllEngines lists every engine kind in compile order.
var AllEngines = []EngineKind{
	EngineRapidRecall,
	EngineSequenceBuilder,
	EngineSortBuckets,
	EngineEquationForge,
	EngineLabelText,
	EngineConceptClash,
	EngineTableChallenge,
}

// eligibility is the fixed primitive-kind -> engine table. Engines are
// never inferred from content shape beyond this mapping; the single
// exception is equation_forge, which additionally requires the term to
// carry an equation (see eligibleEngines).
var eligibility = map[primitive.Kind][]EngineKind{
	primitive.KindTerm:    {EngineRapidRecall, EngineConceptClash},
	primitive.KindProcess: {EngineSequenceBuilder},
	primitive.KindTable:   {EngineSortBuckets, EngineTableChallenge},
	primitive.KindFigure:  {EngineLabelText},
}

// eligibleEngines returns the engines a primitive can feed.
func eligibleEngines(p *primitive.Primitive) []EngineKind {
	kinds := eligibility[p.Kind]
	if p.HasEquation() {
		out := make([]EngineKind, 0, len(kinds)+1)
		out = append(out, kinds...)
		out = append(out, EngineEquationForge)
		return out
	}
	return kinds
}

// universalEngines are compiled at the first two difficulties for every
// section that can feed them. Archetype engines run the full ladder.
var universalEngines = map[EngineKind]bool{
	EngineRapidRecall:    true,
	EngineSortBuckets:    true,
	EngineTableChallenge: true,
	EngineConceptClash:   true,
}

// IsUniversal reports whether the engine compiles only at the easy and
// medium difficulties.
func (e EngineKind) IsUniversal() bool {
	return universalEngines[e]
}

// Valid reports whether e names a known engine.
func (e EngineKind) Valid() bool {
	for _, k := range AllEngines {
		if e == k {
			return true
		}
	}
	return false
}
