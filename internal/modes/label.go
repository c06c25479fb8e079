package modes

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/example/fogmap/internal/primitive"
)

// buildLabel assembles a label_text run from the section's figures:
// for each chosen region the learner picks the label that belongs
// there, with distractors drawn from the figure's other labels and then
// from labels across the section.
func (c *Compiler) buildLabel(figures []primitive.Figure, difficulty Difficulty, rng *rand.Rand) (*LabelPayload, string) {
	var candidates []primitive.Figure
	for _, f := range figures {
		if len(f.Labels) >= c.cfg.MinOptionCount {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Sprintf("no figure carries %d or more labels", c.cfg.MinOptionCount)
	}

	fig := candidates[rng.Intn(len(candidates))]

	regionIDs := make([]string, 0, len(fig.Labels))
	for id := range fig.Labels {
		regionIDs = append(regionIDs, id)
	}
	sort.Strings(regionIDs)

	figLabels := make([]string, 0, len(regionIDs))
	for _, id := range regionIDs {
		figLabels = append(figLabels, fig.Labels[id])
	}

	var sectionLabels []string
	for _, f := range figures {
		ids := make([]string, 0, len(f.Labels))
		for id := range f.Labels {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			sectionLabels = append(sectionLabels, f.Labels[id])
		}
	}

	n := labelCounts.at(difficulty)
	chosen := sampleUnique(regionIDs, n, rng)

	items := make([]LabelItem, 0, len(chosen))
	for _, regionID := range chosen {
		correct := fig.Labels[regionID]
		distractors := pickDistractors(correct, figLabels, sectionLabels, c.cfg.OptionCount-1, rng)
		if len(distractors)+1 < c.cfg.MinOptionCount {
			continue
		}
		options, correctIdx := buildCard(correct, distractors, rng)
		items = append(items, LabelItem{RegionID: regionID, Options: options, CorrectIndex: correctIdx})
	}

	if len(items) == 0 {
		return nil, "no figure region has enough distinct distractor labels"
	}

	title := fig.Title
	if title == "" {
		title = "Label the figure"
	}
	return &LabelPayload{Title: title, ImageRef: fig.ImageRef, Items: items}, ""
}
