package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxResults caps how many candidates a single search may fetch.
	MaxResults = 50
)

// Engine retrieves candidates from a Source and re-ranks them.
type Engine struct {
	source Source
	logger *zap.Logger
}

// NewEngine returns an Engine over source.
func NewEngine(source Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{source: source, logger: logger.Named("search")}
}

// Search fetches numResults candidates and returns the topK most similar to
// query. numResults is clamped to 1..MaxResults and topK to 1..numResults.
func (e *Engine) Search(ctx context.Context, query string, numResults, topK int) ([]Result, error) {
	numResults = clamp(numResults, 1, MaxResults)
	topK = clamp(topK, 1, numResults)

	start := time.Now()
	candidates, err := e.source.Fetch(ctx, query, numResults)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}
	results, err := Rank(query, candidates, topK)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	e.logger.Debug("search complete",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
