package modes

import (
	"fmt"
	"math/rand"

	"github.com/example/fogmap/internal/primitive"
)

// buildSequence turns an ordered process into a sequence_builder run:
// the steps are presented shuffled, and the correct order travels with
// the instance. Easy and medium runs cap the step count.
func (c *Compiler) buildSequence(process primitive.Process, difficulty Difficulty, rng *rand.Rand) (*SequencePayload, string) {
	if len(process.Steps) < c.cfg.MinSequenceSteps {
		return nil, fmt.Sprintf("need %d steps for sequence_builder, have %d", c.cfg.MinSequenceSteps, len(process.Steps))
	}

	steps := process.Steps
	if limit, ok := sequenceCaps[difficulty]; ok && len(steps) > limit {
		steps = steps[:limit]
	}

	items := make([]SequenceStep, len(steps))
	correct := make([]int, len(steps))
	for i, text := range steps {
		items[i] = SequenceStep{Order: i + 1, Text: text}
		correct[i] = i + 1
	}

	presented := shuffled(items, rng)
	if inOrder(presented) && len(presented) > 1 {
		// The shuffle landed on the solved order; rotate so the learner
		// has something to do.
		presented = append(presented[1:], presented[0])
	}

	title := process.Title
	if title == "" {
		title = "Build the sequence"
	}
	return &SequencePayload{Title: title, Steps: presented, CorrectOrder: correct}, ""
}

func inOrder(steps []SequenceStep) bool {
	for i, s := range steps {
		if s.Order != i+1 {
			return false
		}
	}
	return true
}
