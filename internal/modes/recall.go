package modes

import (
	"fmt"
	"math/rand"
)

// buildRecall assembles a rapid_recall run: one card per chosen term,
// each asking for the definition among distractor definitions. Returns
// a gap reason instead of a payload when the section cannot support the
// engine.
func (c *Compiler) buildRecall(content *sectionContent, difficulty Difficulty, rng *rand.Rand) (*RecallPayload, string) {
	if len(content.terms) < c.cfg.MinRecallTerms {
		return nil, fmt.Sprintf("need %d terms for rapid_recall, have %d", c.cfg.MinRecallTerms, len(content.terms))
	}

	n := recallCounts.at(difficulty)
	chosen := sampleUnique(content.terms, n, rng)

	cards := make([]RecallCard, 0, len(chosen))
	for _, term := range chosen {
		distractors := pickDistractors(term.Definition, content.defs, content.bookDefs, c.cfg.OptionCount-1, rng)
		if len(distractors)+1 < c.cfg.MinOptionCount {
			// Not enough distinct wrong definitions anywhere; drop the card.
			continue
		}
		options, correct := buildCard(term.Definition, distractors, rng)
		cards = append(cards, RecallCard{Prompt: term.Term, Options: options, CorrectIndex: correct})
	}

	if len(cards) == 0 {
		return nil, fmt.Sprintf("no term has %d distinct distractor definitions", c.cfg.MinOptionCount-1)
	}
	return &RecallPayload{Title: "Rapid Recall", Cards: cards}, ""
}

// buildClash assembles the concept_clash true/false fallback. A false
// statement pairs the term with a definition stolen from another term.
func (c *Compiler) buildClash(content *sectionContent, difficulty Difficulty, rng *rand.Rand) (*ClashPayload, string) {
	if len(content.terms) < c.cfg.MinClashTerms {
		return nil, fmt.Sprintf("need %d terms for concept_clash, have %d", c.cfg.MinClashTerms, len(content.terms))
	}

	n := clashCounts.at(difficulty)
	chosen := sampleUnique(content.terms, n, rng)

	cards := make([]ClashCard, 0, len(chosen))
	for _, term := range chosen {
		isTrue := rng.Intn(2) == 0
		if !isTrue {
			wrong := pickDistractors(term.Definition, content.defs, nil, 1, rng)
			if len(wrong) == 0 {
				// Every other definition matches this one; only a true
				// statement is possible.
				isTrue = true
			} else {
				cards = append(cards, ClashCard{
					Statement:   fmt.Sprintf("%s: %s", term.Term, wrong[0]),
					Term:        term.Term,
					IsTrue:      false,
					Explanation: fmt.Sprintf("That describes something else. %s is: %s", term.Term, term.Definition),
				})
				continue
			}
		}
		cards = append(cards, ClashCard{
			Statement:   fmt.Sprintf("%s: %s", term.Term, term.Definition),
			Term:        term.Term,
			IsTrue:      true,
			Explanation: fmt.Sprintf("%s is indeed: %s", term.Term, term.Definition),
		})
	}

	if len(cards) == 0 {
		return nil, "no clash statements could be formed"
	}
	return &ClashPayload{Title: "Concept Clash", Cards: cards}, ""
}
