package primitive

// Signals are per-section content counts used for archetype inference
// and surfaced in compile reports.
type Signals struct {
	TermCount     int `json:"term_count"`
	ProcessCount  int `json:"process_count"`
	TableCount    int `json:"table_count"`
	FigureCount   int `json:"figure_count"`
	EquationCount int `json:"equation_count"`
}

// CollectSignals counts primitives by kind for one section.
func CollectSignals(prims []Primitive) Signals {
	var s Signals
	for i := range prims {
		p := &prims[i]
		switch p.Kind {
		case KindTerm:
			s.TermCount++
			if p.HasEquation() {
				s.EquationCount++
			}
		case KindProcess:
			s.ProcessCount++
		case KindTable:
			s.TableCount++
		case KindFigure:
			s.FigureCount++
		}
	}
	return s
}

// archetypeOrder fixes the output order so archetype lists are stable.
var archetypeOrder = []string{"process", "diagram", "table", "equation", "vocab", "concept"}

// Archetypes derives the section's content archetypes from its signals.
// A section with no structured content falls back to "concept".
func (s Signals) Archetypes() []string {
	present := map[string]bool{
		"process":  s.ProcessCount > 0,
		"diagram":  s.FigureCount > 0,
		"table":    s.TableCount > 0,
		"equation": s.EquationCount > 0,
		"vocab":    s.TermCount > 0,
	}

	var out []string
	for _, a := range archetypeOrder {
		if present[a] {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		out = []string{"concept"}
	}
	return out
}
