package modes

import (
	"fmt"
	"math/rand"

	"github.com/example/fogmap/internal/primitive"
)

// buildEquation assembles an equation_forge run: match each equation
// name to its formula among distractor formulas. Distractors come from
// the other equations in scope, topped up from the book pool.
func (c *Compiler) buildEquation(equations []primitive.Term, formulas, bookFormulas []string, difficulty Difficulty, rng *rand.Rand) (*EquationPayload, string) {
	if len(equations) == 0 {
		return nil, "no equation-shaped terms in scope"
	}

	k := equationCounts.at(difficulty)
	chosen := sampleUnique(equations, k, rng)

	cards := make([]RecallCard, 0, len(chosen))
	for _, eq := range chosen {
		distractors := pickDistractors(eq.Equation, formulas, bookFormulas, c.cfg.OptionCount-1, rng)
		if len(distractors)+1 < c.cfg.MinOptionCount {
			continue
		}
		options, correct := buildCard(eq.Equation, distractors, rng)
		cards = append(cards, RecallCard{Prompt: eq.Term, Options: options, CorrectIndex: correct})
	}

	if len(cards) == 0 {
		return nil, fmt.Sprintf("no equation has %d distinct distractor formulas", c.cfg.MinOptionCount-1)
	}
	return &EquationPayload{Title: "Equation Forge", Cards: cards}, ""
}
