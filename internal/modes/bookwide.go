package modes

import (
	"strings"

	"github.com/example/fogmap/internal/primitive"
)

// bookSectionID is the pseudo-section book-scope instances compile
// under.
const bookSectionID = "book_wide"

// CompileBookEquations pools equation-shaped terms from every section
// of a book into book-scope equation_forge runs, one per difficulty.
// Returns nil (no gap) when the book holds fewer distinct equations
// than the configured minimum; a book without equations is normal.
func (c *Compiler) CompileBookEquations(bookID string, equations []primitive.Term, seed int64) []Instance {
	deduped := dedupeEquations(equations)
	if len(deduped) < c.cfg.MinBookEquations {
		return nil
	}

	formulas := make([]string, 0, len(deduped))
	for _, eq := range deduped {
		formulas = append(formulas, eq.Equation)
	}

	var out []Instance
	for _, difficulty := range AllDifficulties {
		rng := rngFor(seed, bookID, bookSectionID, string(EngineEquationForge), string(difficulty))
		payload, gap := c.buildEquation(deduped, formulas, nil, difficulty, rng)
		if gap != "" {
			continue
		}
		payload.Title = "Equation Forge (Book)"
		out = append(out, Instance{
			ID:            StableID(bookID, bookSectionID, string(EngineEquationForge), string(difficulty)),
			EngineKind:    EngineEquationForge,
			BookID:        bookID,
			SectionID:     bookSectionID,
			Scope:         ScopeBook,
			Difficulty:    difficulty,
			Seed:          seed,
			Rewards:       bookRewardTable[difficulty],
			EquationForge: payload,
		})
	}
	return out
}

// dedupeEquations drops repeated equations, keyed by term name then by
// formula text, preserving first appearance order.
func dedupeEquations(equations []primitive.Term) []primitive.Term {
	seen := map[string]bool{}
	var out []primitive.Term
	for _, eq := range equations {
		key := strings.ToLower(strings.TrimSpace(eq.Term))
		if key == "" {
			key = normalizeOption(eq.Equation)
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, eq)
	}
	return out
}
