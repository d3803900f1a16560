package builtins

import (
	"context"
	"fmt"
	"strings"

	"copilot-mcp/internal/search"
)

// Searcher returns the topK best matches out of numResults candidates.
// *search.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, numResults, topK int) ([]search.Result, error)
}

func ragSearch(s Searcher) func(context.Context, map[string]any) (string, error) {
	return func(ctx context.Context, args map[string]any) (string, error) {
		query := stringArg(args, "query")
		numResults, err := intArg(args, "num_results")
		if err != nil {
			return "", err
		}
		topK, err := intArg(args, "top_k")
		if err != nil {
			return "", err
		}

		results, err := s.Search(ctx, query, numResults, topK)
		if err != nil {
			return "", fmt.Errorf("rag search: %w", err)
		}
		return renderResults(query, results), nil
	}
}

func renderResults(query string, results []search.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Search results for '%s':**", query)
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.ID
		}
		fmt.Fprintf(&b, "\n\n%d. **%s**", i+1, title)
		if r.URL != "" {
			fmt.Fprintf(&b, "\n%s", r.URL)
		}
		if r.Body != "" {
			fmt.Fprintf(&b, "\n%s", r.Body)
		}
	}
	return b.String()
}
