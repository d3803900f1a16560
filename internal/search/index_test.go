package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs() []Document {
	return []Document{
		{ID: "maven", Title: "Maven", Body: "XML-based project management and build tool for Java"},
		{ID: "jest", Title: "Jest", Body: "JavaScript testing framework"},
		{ID: "vite", Title: "Vite", Body: "Fast build tool with native TypeScript support"},
		{ID: "junit", Title: "JUnit 5", Body: "Modern Java testing framework"},
	}
}

func TestIndexSearchRanksBySimilarity(t *testing.T) {
	ix, err := NewIndex(sampleDocs())
	require.NoError(t, err)
	defer ix.Close()
	assert.Equal(t, 4, ix.Len())

	results, err := ix.Search("java testing", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "junit", results[0].ID, "the only document matching both terms ranks first")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestIndexSearchHonoursSize(t *testing.T) {
	ix, err := NewIndex(sampleDocs())
	require.NoError(t, err)
	defer ix.Close()

	results, err := ix.Search("build tool", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = ix.Search("build tool", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexSearchNoMatch(t *testing.T) {
	ix, err := NewIndex(sampleDocs())
	require.NoError(t, err)
	defer ix.Close()

	results, err := ix.Search("kubernetes", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewIndexRejectsBadIDs(t *testing.T) {
	_, err := NewIndex([]Document{{Title: "no id"}})
	assert.Error(t, err)

	_, err = NewIndex([]Document{{ID: "a", Title: "one"}, {ID: "a", Title: "two"}})
	assert.Error(t, err)
}

func TestIndexFetchRespectsCancelledContext(t *testing.T) {
	ix, err := NewIndex(sampleDocs())
	require.NoError(t, err)
	defer ix.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ix.Fetch(ctx, "java", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankKeepsOriginalIDs(t *testing.T) {
	docs := []Document{
		{ID: "dup", Title: "Fastify", Body: "High-performance web framework"},
		{ID: "dup", Title: "Express", Body: "Minimal web application framework"},
		{Title: "Nest", Body: "Progressive Node.js framework"},
	}

	results, err := Rank("minimal web application", docs, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Express", results[0].Title)
	assert.Equal(t, "dup", results[0].ID)
}

type stubSource struct {
	docs  []Document
	err   error
	limit int
}

func (s *stubSource) Fetch(_ context.Context, _ string, limit int) ([]Document, error) {
	s.limit = limit
	return s.docs, s.err
}

func TestEngineClampsAndRanks(t *testing.T) {
	src := &stubSource{docs: sampleDocs()}
	e := NewEngine(src, nil)

	results, err := e.Search(context.Background(), "java", 500, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxResults, src.limit)
	require.Len(t, results, 1)

	_, err = e.Search(context.Background(), "java", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, src.limit)
}

func TestEnginePropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	e := NewEngine(&stubSource{err: boom}, nil)

	_, err := e.Search(context.Background(), "java", 5, 2)
	assert.ErrorIs(t, err, boom)
}
