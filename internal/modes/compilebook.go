package modes

import (
	"context"
	"fmt"

	"github.com/example/fogmap/internal/primitive"
)

// SectionSource is the read-only content access the book compile needs.
// The content store satisfies it.
type SectionSource interface {
	// Sections lists the section ids of a book.
	Sections(ctx context.Context, bookID string) ([]string, error)

	// Section fetches the primitives of one section.
	Section(ctx context.Context, bookID, sectionID string) ([]primitive.Primitive, error)
}

// BookResult aggregates a whole-book compile: all instances in section
// order (book-scope instances last) and one report per section.
type BookResult struct {
	BookID    string
	Instances []Instance
	Reports   []*Report
}

// CompileBook compiles every section of a book, fanning the pure
// per-section compiles across a bounded worker pool, then appends the
// book-wide equation forge. Section order in the result is the store's
// section order regardless of which worker finished first, keeping the
// output deterministic. A fetch or compile error on any section fails
// the batch.
func (c *Compiler) CompileBook(ctx context.Context, src SectionSource, bookID string, seed int64, workers int) (*BookResult, error) {
	sectionIDs, err := src.Sections(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list sections of %s: %w", bookID, err)
	}

	type slot struct {
		instances []Instance
		report    *Report
		equations []primitive.Term
		err       error
	}
	slots := make([]slot, len(sectionIDs))

	pool := newWorkerPool(workers)
	pool.start(ctx)
	for i, sectionID := range sectionIDs {
		i, sectionID := i, sectionID
		accepted := pool.submit(ctx, func(ctx context.Context) {
			prims, err := src.Section(ctx, bookID, sectionID)
			if err != nil {
				slots[i].err = fmt.Errorf("fetch section %s: %w", sectionID, err)
				return
			}
			for j := range prims {
				if prims[j].HasEquation() {
					slots[i].equations = append(slots[i].equations, *prims[j].Term)
				}
			}
			slots[i].instances, slots[i].report, slots[i].err = c.Compile(prims, sectionID, seed)
		})
		if !accepted {
			break
		}
	}
	pool.close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &BookResult{BookID: bookID}
	var bookEquations []primitive.Term
	for i := range slots {
		if slots[i].err != nil {
			return nil, slots[i].err
		}
		result.Instances = append(result.Instances, slots[i].instances...)
		result.Reports = append(result.Reports, slots[i].report)
		bookEquations = append(bookEquations, slots[i].equations...)
	}

	result.Instances = append(result.Instances, c.CompileBookEquations(bookID, bookEquations, seed)...)
	return result, nil
}
