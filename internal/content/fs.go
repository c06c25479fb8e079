// Package content reads compiled book content from a directory tree:
//
//	<root>/<book_id>/sections/<section_id>.json
//	<root>/<book_id>/glossary.json            (optional)
//
// Section files carry the extraction pipeline's wire shape and are
// schema-validated at this boundary; nothing malformed gets past the
// store.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/fogmap/internal/modes"
	"github.com/example/fogmap/internal/primitive"
)

// ErrUnavailable marks content that cannot be read: a missing book,
// a missing section file, or an unreadable root.
var ErrUnavailable = errors.New("content unavailable")

// Store reads book content from a local directory tree.
type Store struct {
	root string
}

// NewStore opens the content tree rooted at root.
func NewStore(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content root %s: %w", root, ErrUnavailable)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory: %w", root, ErrUnavailable)
	}
	return &Store{root: root}, nil
}

// Books lists the book ids present under the root, sorted.
func (s *Store) Books() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read content root: %w", ErrUnavailable)
	}
	var books []string
	for _, e := range entries {
		if e.IsDir() {
			books = append(books, e.Name())
		}
	}
	sort.Strings(books)
	return books, nil
}

// Sections lists the section ids of a book, sorted. Satisfies part of
// modes.SectionSource.
func (s *Store) Sections(_ context.Context, bookID string) ([]string, error) {
	dir := filepath.Join(s.root, bookID, "sections")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", bookID, ErrUnavailable)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Section reads, validates, and decodes one section's primitives. The
// document's own ids must match the path it was read from.
func (s *Store) Section(_ context.Context, bookID, sectionID string) ([]primitive.Primitive, error) {
	path := filepath.Join(s.root, bookID, "sections", sectionID+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("section %s/%s: %w", bookID, sectionID, ErrUnavailable)
	}

	prims, err := primitive.DecodeSection(raw)
	if err != nil {
		return nil, fmt.Errorf("section %s/%s: %w", bookID, sectionID, err)
	}
	for _, p := range prims {
		if p.Key.BookID != bookID || p.Key.SectionID != sectionID {
			return nil, fmt.Errorf("section %s/%s: document claims %s/%s",
				bookID, sectionID, p.Key.BookID, p.Key.SectionID)
		}
	}
	return prims, nil
}

// Glossary reads the book's term glossary. A book without one gets an
// empty map; the compiler treats both the same.
func (s *Store) Glossary(bookID string) (map[string]string, error) {
	path := filepath.Join(s.root, bookID, "glossary.json")
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("glossary of %s: %w", bookID, ErrUnavailable)
	}
	var glossary map[string]string
	if err := json.Unmarshal(raw, &glossary); err != nil {
		return nil, fmt.Errorf("glossary of %s: %w", bookID, err)
	}
	return glossary, nil
}

// BookTerms pools the term primitives of every section in the book,
// in section order. The compiler uses it as the book-level distractor
// fallback.
func (s *Store) BookTerms(ctx context.Context, bookID string) ([]primitive.Term, error) {
	sections, err := s.Sections(ctx, bookID)
	if err != nil {
		return nil, err
	}
	var terms []primitive.Term
	for _, sectionID := range sections {
		prims, err := s.Section(ctx, bookID, sectionID)
		if err != nil {
			return nil, err
		}
		for _, p := range prims {
			if p.Kind == primitive.KindTerm {
				terms = append(terms, *p.Term)
			}
		}
	}
	return terms, nil
}

// Enrichment assembles the book-level lookup data the compiler takes.
func (s *Store) Enrichment(ctx context.Context, bookID string) (modes.Enrichment, error) {
	glossary, err := s.Glossary(bookID)
	if err != nil {
		return modes.Enrichment{}, err
	}
	terms, err := s.BookTerms(ctx, bookID)
	if err != nil {
		return modes.Enrichment{}, err
	}
	return modes.Enrichment{Glossary: glossary, BookTerms: terms}, nil
}
