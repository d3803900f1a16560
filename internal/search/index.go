// Package search retrieves and ranks documents for the rag-search tool.
//
// Candidates come from a Source: the in-memory Index over the built-in
// knowledge, or a remote Client. The Engine re-ranks every candidate set by
// text similarity with a throwaway bleve index and keeps the best matches.
package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Document is a unit of searchable text.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Body  string `json:"body"`
}

// Result is a ranked document.
type Result struct {
	Document
	Score float64 `json:"score"`
}

// Source produces candidate documents for a query.
type Source interface {
	Fetch(ctx context.Context, query string, limit int) ([]Document, error)
}

// Index is a memory-only bleve index over a fixed set of documents. It is
// built once and only read afterwards.
type Index struct {
	index bleve.Index
	docs  map[string]Document
}

// NewIndex indexes docs. Document IDs must be unique and non-empty.
func NewIndex(docs []Document) (*Index, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	ix := &Index{index: idx, docs: make(map[string]Document, len(docs))}
	batch := idx.NewBatch()
	for _, d := range docs {
		if d.ID == "" {
			_ = idx.Close()
			return nil, fmt.Errorf("document %q has no id", d.Title)
		}
		if _, dup := ix.docs[d.ID]; dup {
			_ = idx.Close()
			return nil, fmt.Errorf("duplicate document id %q", d.ID)
		}
		ix.docs[d.ID] = d
		if err := batch.Index(d.ID, indexable(d)); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("indexing %s: %w", d.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("committing index batch: %w", err)
	}
	return ix, nil
}

// Search returns at most size documents ordered by descending score.
func (ix *Index) Search(query string, size int) ([]Result, error) {
	if size <= 0 || len(ix.docs) == 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), size, 0, false)
	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		d, ok := ix.docs[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Result{Document: d, Score: hit.Score})
	}
	return out, nil
}

// Fetch makes Index usable as a Source.
func (ix *Index) Fetch(ctx context.Context, query string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results, err := ix.Search(query, limit)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Close releases the underlying index.
func (ix *Index) Close() error { return ix.index.Close() }

// Rank orders docs by similarity to query and returns the topK best. Documents
// that share no terms with the query are not returned.
func Rank(query string, docs []Document, topK int) ([]Result, error) {
	if topK <= 0 || len(docs) == 0 {
		return nil, nil
	}
	keyed := make([]Document, len(docs))
	for i, d := range docs {
		d.ID = strconv.Itoa(i)
		keyed[i] = d
	}
	ix, err := NewIndex(keyed)
	if err != nil {
		return nil, err
	}
	defer ix.Close()

	results, err := ix.Search(query, topK)
	if err != nil {
		return nil, err
	}
	for i := range results {
		n, _ := strconv.Atoi(results[i].ID)
		results[i].ID = docs[n].ID
	}
	return results, nil
}

func indexable(d Document) map[string]any {
	return map[string]any{
		"title": d.Title,
		"body":  d.Body,
	}
}

func newMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Store = false
	titleField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("title", titleField)

	bodyField := bleve.NewTextFieldMapping()
	bodyField.Store = false
	bodyField.IncludeInAll = true
	docMapping.AddFieldMappingsAt("body", bodyField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = docMapping
	return m
}
