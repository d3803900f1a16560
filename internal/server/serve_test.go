package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copilot-mcp/internal/tools"
)

func TestServeDrainsInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	reg, err := tools.NewRegistry(tools.Definition{
		Name: "slow",
		Handler: func(context.Context, map[string]any) (string, error) {
			close(started)
			<-release
			return "done", nil
		},
	})
	require.NoError(t, err)

	s := New(Config{ShutdownTimeout: 5 * time.Second}, reg, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- s.Serve(ctx, ln) }()

	type result struct {
		status int
		body   string
		err    error
	}
	respCh := make(chan result, 1)
	go func() {
		resp, err := http.Post("http://"+addr+"/mcp", "application/json",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"slow"}}`))
		if err != nil {
			respCh <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		respCh <- result{status: resp.StatusCode, body: string(b)}
	}()

	<-started
	cancel()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return true
		}
		_ = conn.Close()
		return false
	}, 2*time.Second, 20*time.Millisecond, "listener should close on shutdown")

	close(release)
	res := <-respCh
	require.NoError(t, res.err)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, `"text":"done"`)

	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after shutdown")
	}
}

func TestServeReturnsListenerErrors(t *testing.T) {
	reg, err := tools.NewRegistry()
	require.NoError(t, err)
	s := New(Config{}, reg, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = s.Serve(context.Background(), ln)
	assert.Error(t, err)
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8001", Config{Host: "0.0.0.0", Port: 8001}.Addr())
	assert.Equal(t, "[::1]:9000", Config{Host: "::1", Port: 9000}.Addr())
}
