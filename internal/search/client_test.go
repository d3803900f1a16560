package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	var gotQuery, gotLimit, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Go","url":"https://go.dev","snippet":"The Go programming language"},
			{"name":"chi","link":"https://go-chi.io","description":"Lightweight router"},
			{"foo":"bar"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "k3y", srv.Client())
	docs, err := c.Fetch(context.Background(), "go router", 5)
	require.NoError(t, err)

	assert.Equal(t, "go router", gotQuery)
	assert.Equal(t, "5", gotLimit)
	assert.Equal(t, "Bearer k3y", gotAuth)
	require.Len(t, docs, 2, "items without text are dropped")
	assert.Equal(t, Document{ID: "0", Title: "Go", URL: "https://go.dev", Body: "The Go programming language"}, docs[0])
	assert.Equal(t, "chi", docs[1].Title)
	assert.Equal(t, "https://go-chi.io", docs[1].URL)
}

func TestClientFetchArrayRootAndLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"a"},{"title":"b"},{"title":"c"}]`))
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL, "", nil).Fetch(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestClientFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", nil).Fetch(context.Background(), "x", 2)
	assert.ErrorContains(t, err, "502")

	_, err = NewClient("", "", nil).Fetch(context.Background(), "x", 2)
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

func TestClientFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, "", nil).Fetch(ctx, "x", 2)
	assert.ErrorIs(t, err, context.Canceled)
}
