// Package builtins provides the tools advertised by the server:
// get-project-info, get-environment-tools and rag-search.
package builtins

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"copilot-mcp/internal/search"
	"copilot-mcp/internal/tools"
)

const (
	ProjectInfoTool      = "get-project-info"
	EnvironmentToolsTool = "get-environment-tools"
	RAGSearchTool        = "rag-search"
)

// Definitions returns the fixed tool table in advertised order.
func Definitions(searcher Searcher) []tools.Definition {
	return []tools.Definition{
		{
			Name:        ProjectInfoTool,
			Description: "Retrieve project information for Java, Node.js, or TypeScript environments",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"project_name": {Type: "string", Description: "The name of the project to retrieve information for"},
				"environment":  {Type: "string", Description: "Environment type: java, node, typescript, or general", Default: "general"},
			}, "project_name"),
			Handler: projectInfo,
		},
		{
			Name:        EnvironmentToolsTool,
			Description: "Get development tools and best practices for Java, Node.js, or TypeScript environments",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"environment": {Type: "string", Description: "Environment type: java, node, typescript"},
				"query":       {Type: "string", Description: "Specific query about tools or libraries", Default: ""},
			}, "environment"),
			Handler: environmentTools,
		},
		{
			Name:        RAGSearchTool,
			Description: "Search for information using RAG-like similarity sorting",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"query":       {Type: "string", Description: "The query to search for"},
				"num_results": {Type: "integer", Description: "Number of candidates to retrieve", Default: 10},
				"top_k":       {Type: "integer", Description: "Number of ranked results to return", Default: 5},
			}, "query"),
			Handler: ragSearch(searcher),
		},
	}
}

// NewRegistry builds the registry of built-in tools.
func NewRegistry(searcher Searcher) (*tools.Registry, error) {
	if searcher == nil {
		return nil, errors.New("builtins: searcher is nil")
	}
	return tools.NewRegistry(Definitions(searcher)...)
}

// Corpus returns the built-in knowledge as searchable documents: one per
// project and one per environment tool.
func Corpus() []search.Document {
	var docs []search.Document
	for _, p := range projects {
		var body strings.Builder
		body.WriteString(p.Description + ". " + p.General + ".")
		for _, e := range p.Envs {
			for _, d := range e.Details {
				fmt.Fprintf(&body, " %s %s: %s.", e.Name, strings.ReplaceAll(d.Key, "_", " "), d.text())
			}
		}
		docs = append(docs, search.Document{
			ID:    "project/" + p.Name,
			Title: p.Name,
			URL:   "catalog://projects/" + p.Name,
			Body:  body.String(),
		})
	}
	for _, e := range environments {
		for _, c := range e.Categories {
			for _, t := range c.Tools {
				path := e.Name + "/" + c.Name + "/" + t.Name
				docs = append(docs, search.Document{
					ID:    "environment/" + path,
					Title: t.Name,
					URL:   "catalog://environments/" + path,
					Body:  fmt.Sprintf("%s (%s %s)", t.Description, e.Name, strings.ReplaceAll(c.Name, "_", " ")),
				})
			}
		}
	}
	return docs
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads an integer argument. Values decoded from JSON arrive as
// float64; defaults arrive as int.
func intArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s: %v is not an integer", key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return int(n), nil
	case nil:
		return 0, fmt.Errorf("%s: missing", key)
	default:
		return 0, fmt.Errorf("%s: unexpected type %T", key, v)
	}
}

// titleCase turns snake_case keys into headings: "build_tools" -> "Build Tools".
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
