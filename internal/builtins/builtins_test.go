package builtins

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copilot-mcp/internal/search"
)

type fakeSearcher struct {
	results    []search.Result
	err        error
	query      string
	numResults int
	topK       int
}

func (f *fakeSearcher) Search(_ context.Context, query string, numResults, topK int) ([]search.Result, error) {
	f.query, f.numResults, f.topK = query, numResults, topK
	return f.results, f.err
}

func TestRegistryAdvertisesCatalogInOrder(t *testing.T) {
	reg, err := NewRegistry(&fakeSearcher{})
	require.NoError(t, err)

	var names []string
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{ProjectInfoTool, EnvironmentToolsTool, RAGSearchTool}, names)
}

func TestNewRegistryRequiresSearcher(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)
}

func TestProjectInfo(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		contains []string
		equals   string
	}{
		{
			name:     "environment details",
			args:     map[string]any{"project_name": "java-core", "environment": "java"},
			contains: []string{"**java-core - JAVA Environment:**", "- Build Tool: Maven", "- Dependencies: spring-boot-starter-web, spring-boot-starter-data-jpa, junit5"},
		},
		{
			name:   "general",
			args:   map[string]any{"project_name": "node-api", "environment": "general"},
			equals: "**node-api:** Node.js TypeScript API service with Express framework",
		},
		{
			name:   "environment the project lacks falls back to description",
			args:   map[string]any{"project_name": "java-core", "environment": "node"},
			equals: "**java-core:** Enterprise Java application with Spring Boot backend",
		},
		{
			name:     "case insensitive lookup keeps the caller's spelling",
			args:     map[string]any{"project_name": "Frontend-App", "environment": "TypeScript"},
			contains: []string{"**Frontend-App - TYPESCRIPT Environment:**", "- Bundler: Vite"},
		},
		{
			name:   "unknown project",
			args:   map[string]any{"project_name": "demo", "environment": "java"},
			equals: "Project 'demo' not found. Available projects: java-core, node-api, frontend-app",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := projectInfo(context.Background(), tt.args)
			require.NoError(t, err)
			if tt.equals != "" {
				assert.Equal(t, tt.equals, out)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestEnvironmentTools(t *testing.T) {
	out, err := environmentTools(context.Background(), map[string]any{"environment": "node", "query": ""})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "**NODE Development Tools:**\n\n**Package Managers:**\n- **npm**: Default Node.js package manager"))
	assert.Contains(t, out, "**Tools:**\n- **nodemon**")
	assert.False(t, strings.HasSuffix(out, "\n"))

	out, err = environmentTools(context.Background(), map[string]any{"environment": "java", "query": "Docker"})
	require.NoError(t, err)
	assert.Equal(t, "**JAVA Tools matching 'Docker':**\n\n**Testing:**\n"+
		"- **junit5**: Modern Java testing framework\n"+
		"- **mockito**: Mocking framework for unit tests\n"+
		"- **testcontainers**: Integration testing with Docker containers\n"+
		"- **spring-boot-test**: Testing support for Spring Boot applications", out)

	out, err = environmentTools(context.Background(), map[string]any{"environment": "typescript", "query": "cobol"})
	require.NoError(t, err)
	assert.Equal(t, "No typescript tools found matching 'cobol'", out)

	out, err = environmentTools(context.Background(), map[string]any{"environment": "rust"})
	require.NoError(t, err)
	assert.Equal(t, "Environment 'rust' not supported. Available: java, node, typescript", out)
}

func TestRAGSearch(t *testing.T) {
	fake := &fakeSearcher{results: []search.Result{
		{Document: search.Document{ID: "1", Title: "Vite", URL: "https://vitejs.dev", Body: "Fast build tool"}, Score: 1.2},
		{Document: search.Document{ID: "2", Body: "untitled"}, Score: 0.4},
	}}
	handler := ragSearch(fake)

	out, err := handler(context.Background(), map[string]any{"query": "build", "num_results": float64(20), "top_k": 2})
	require.NoError(t, err)
	assert.Equal(t, "build", fake.query)
	assert.Equal(t, 20, fake.numResults)
	assert.Equal(t, 2, fake.topK)
	assert.Equal(t, "**Search results for 'build':**\n\n1. **Vite**\nhttps://vitejs.dev\nFast build tool\n\n2. **2**\nuntitled", out)

	fake.results = nil
	out, err = handler(context.Background(), map[string]any{"query": "nothing", "num_results": 10, "top_k": 5})
	require.NoError(t, err)
	assert.Equal(t, "No results found for 'nothing'", out)

	fake.err = errors.New("upstream down")
	_, err = handler(context.Background(), map[string]any{"query": "x", "num_results": 10, "top_k": 5})
	assert.ErrorContains(t, err, "upstream down")
}

func TestRAGSearchThroughRegistryAppliesDefaults(t *testing.T) {
	fake := &fakeSearcher{}
	reg, err := NewRegistry(fake)
	require.NoError(t, err)

	tool, ok := reg.Lookup(RAGSearchTool)
	require.True(t, ok)
	args, err := tool.Prepare(map[string]any{"query": "jest"})
	require.NoError(t, err)
	_, err = tool.Invoke(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, 10, fake.numResults)
	assert.Equal(t, 5, fake.topK)
}

func TestCorpusIsSearchable(t *testing.T) {
	docs := Corpus()
	ix, err := search.NewIndex(docs)
	require.NoError(t, err, "corpus ids must be unique")
	defer ix.Close()

	results, err := ix.Search("docker", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "environment/java/testing/testcontainers", results[0].ID)
	assert.Equal(t, "catalog://environments/java/testing/testcontainers", results[0].URL)
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		in      any
		want    int
		wantErr bool
	}{
		{in: 3, want: 3},
		{in: int64(4), want: 4},
		{in: float64(5), want: 5},
		{in: json.Number("6"), want: 6},
		{in: 2.5, wantErr: true},
		{in: "7", wantErr: true},
		{in: nil, wantErr: true},
	}
	for _, tt := range tests {
		got, err := intArg(map[string]any{"n": tt.in}, "n")
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
