package modes

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/example/fogmap/internal/primitive"
)

// buildTableChallenge hides a subset of a table's value cells and asks
// the learner to restore each one from options drawn out of the same
// column. The hidden set always leaves at least one visible cell in
// every row and every column so the grid stays inferable.
func (c *Compiler) buildTableChallenge(table primitive.Table, difficulty Difficulty, rng *rand.Rand) (*TableChallengePayload, string) {
	if len(table.Rows) < 2 {
		return nil, fmt.Sprintf("table_challenge needs at least 2 rows, have %d", len(table.Rows))
	}

	type candidate struct {
		row, col int
	}
	var candidates []candidate
	for i, row := range table.Rows {
		for j := 1; j < len(row); j++ {
			if strings.TrimSpace(row[j]) != "" {
				candidates = append(candidates, candidate{row: i, col: j})
			}
		}
	}

	visibleInRow := make([]int, len(table.Rows))
	visibleInCol := make([]int, len(table.Columns))
	for i := range table.Rows {
		visibleInRow[i] = len(table.Columns)
	}
	for j := range table.Columns {
		visibleInCol[j] = len(table.Rows)
	}

	target := tableCellCounts.at(difficulty)
	var hidden []HiddenCell
	for _, cand := range shuffled(candidates, rng) {
		if len(hidden) >= target {
			break
		}
		if visibleInRow[cand.row] <= 1 || visibleInCol[cand.col] <= 1 {
			continue
		}

		answer := strings.TrimSpace(table.Rows[cand.row][cand.col])
		distractors := pickDistractors(answer, columnValues(table, cand.col, cand.row), nil, c.cfg.OptionCount-1, rng)
		if len(distractors)+1 < c.cfg.MinOptionCount {
			continue
		}
		options, correct := buildCard(answer, distractors, rng)

		hidden = append(hidden, HiddenCell{
			Row:          cand.row,
			Col:          cand.col,
			Options:      options,
			CorrectIndex: correct,
		})
		visibleInRow[cand.row]--
		visibleInCol[cand.col]--
	}

	if len(hidden) < c.cfg.MinTableCards {
		return nil, fmt.Sprintf("only %d cells qualify for table_challenge, need %d", len(hidden), c.cfg.MinTableCards)
	}

	title := table.Title
	if title == "" {
		title = "Fill the table"
	}
	return &TableChallengePayload{
		Title:       title,
		Columns:     table.Columns,
		Rows:        table.Rows,
		HiddenCells: hidden,
	}, ""
}

// columnValues gathers the non-empty values of a column, excluding the
// given row. These are the natural distractors for the hidden cell.
func columnValues(table primitive.Table, col, excludeRow int) []string {
	var out []string
	for i, row := range table.Rows {
		if i == excludeRow || col >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[col]); v != "" {
			out = append(out, v)
		}
	}
	return out
}
