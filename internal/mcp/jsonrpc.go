// Package mcp implements the JSON-RPC 2.0 envelope spoken on /mcp and the
// dispatcher that routes tools/list and tools/call to the tool registry.
package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"copilot-mcp/internal/tools"
)

// Version is the only JSON-RPC version emitted.
const Version = "2.0"

// Methods served by the dispatcher.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is a decoded JSON-RPC request. ID is kept raw so that it is echoed
// back exactly as sent.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response. A nil ID is encoded as null.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object. Every error records the HTTP status it
// is delivered with under data.http_status.
type Error struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`

	status int
}

// NewError builds an error object delivered with the given HTTP status.
func NewError(code int, message string, status int, data map[string]any) *Error {
	d := make(map[string]any, len(data)+1)
	for k, v := range data {
		d[k] = v
	}
	d["http_status"] = status
	return &Error{Code: code, Message: message, Data: d, status: status}
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// HTTPStatus returns the status code the error is sent with.
func (e *Error) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusBadRequest
	}
	return e.status
}

// CallParams are the params of tools/call.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Content is one item of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the result of tools/call. It always holds at least one item.
type CallResult struct {
	Content []Content `json:"content"`
}

// TextResult wraps a handler's text output.
func TextResult(text string) CallResult {
	return CallResult{Content: []Content{{Type: "text", Text: text}}}
}

// ListResult is the result of tools/list.
type ListResult struct {
	Tools []tools.Descriptor `json:"tools"`
}
