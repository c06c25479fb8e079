package modes

import (
	"math/rand"
	"strings"
)

// pickDistractors selects up to n wrong options for a card. Candidates
// come from the section pool first; if that yields fewer than n, the
// book-level pool tops it up. The correct answer and duplicate texts
// are never selected. The result may be shorter than n when both pools
// run dry; the caller decides whether a reduced option count is
// acceptable.
func pickDistractors(correct string, sectionPool, bookPool []string, n int, rng *rand.Rand) []string {
	if n <= 0 {
		return nil
	}

	seen := map[string]bool{normalizeOption(correct): true}
	filter := func(pool []string) []string {
		var out []string
		for _, cand := range pool {
			key := normalizeOption(cand)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, cand)
		}
		return out
	}

	picked := sampleUnique(filter(sectionPool), n, rng)
	if len(picked) < n {
		picked = append(picked, sampleUnique(filter(bookPool), n-len(picked), rng)...)
	}
	return picked
}

// buildCard assembles a shuffled option list with exactly one correct
// entry and returns its index.
func buildCard(correct string, distractors []string, rng *rand.Rand) ([]string, int) {
	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors...)
	options = append(options, correct)
	options = shuffled(options, rng)
	for i, o := range options {
		if o == correct {
			return options, i
		}
	}
	// Unreachable: correct is always appended above.
	return options, 0
}

func normalizeOption(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
