package modes

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/example/fogmap/internal/primitive"
)

// buildSort turns a comparison table into a sort_buckets run. Buckets
// are the value columns; a row becomes a sortable item only when
// exactly one of its bucket cells is filled, which makes the owning
// bucket unambiguous and the instance self-checking.
func (c *Compiler) buildSort(table primitive.Table, difficulty Difficulty, rng *rand.Rand) (*SortPayload, string) {
	if len(table.Columns) < 3 {
		return nil, "sort_buckets needs a table with at least two value columns"
	}
	if len(table.Rows) < 2 {
		return nil, fmt.Sprintf("sort_buckets needs at least 2 rows, have %d", len(table.Rows))
	}

	buckets := table.Columns[1:]

	var items []SortItem
	for _, row := range table.Rows {
		feature := strings.TrimSpace(row[0])
		if feature == "" {
			continue
		}
		owner := ""
		filled := 0
		for j, cell := range row[1:] {
			if strings.TrimSpace(cell) != "" {
				filled++
				owner = buckets[j]
			}
		}
		if filled != 1 {
			continue
		}
		items = append(items, SortItem{Feature: feature, CorrectBucket: owner})
	}

	if len(items) == 0 {
		return nil, "no table row marks exactly one bucket"
	}

	n := sortCounts.at(difficulty)
	picked := sampleUnique(items, n, rng)
	picked = shuffled(picked, rng)

	title := table.Title
	if title == "" {
		title = "Sort the features"
	}
	return &SortPayload{Title: title, Buckets: buckets, Items: picked}, ""
}
