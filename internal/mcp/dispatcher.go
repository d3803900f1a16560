package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"copilot-mcp/internal/tools"
)

// ErrMalformedBody is returned when the request body is not a JSON object and
// therefore never formed an envelope.
var ErrMalformedBody = errors.New("malformed request body")

// Catalog is the read-only view of the tool registry the dispatcher needs.
type Catalog interface {
	List() []tools.Descriptor
	Lookup(name string) (*tools.Tool, bool)
}

type methodFunc func(ctx context.Context, params json.RawMessage) (any, *Error)

// Dispatcher routes JSON-RPC requests by method name. It holds no per-request
// state and is safe for concurrent use.
type Dispatcher struct {
	catalog Catalog
	methods map[string]methodFunc
	logger  *zap.Logger
}

// NewDispatcher returns a dispatcher serving catalog.
func NewDispatcher(catalog Catalog, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		catalog: catalog,
		logger:  logger.Named("mcp"),
	}
	d.methods = map[string]methodFunc{
		MethodToolsList: d.toolsList,
		MethodToolsCall: d.toolsCall,
	}
	return d
}

// Handle processes one request body and returns the response envelope with
// the HTTP status to send it with. The only error is ErrMalformedBody.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) (*Response, int, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, http.StatusBadRequest, ErrMalformedBody
	}
	id := fields["id"]

	var method string
	raw, ok := fields["method"]
	if !ok || json.Unmarshal(raw, &method) != nil {
		return errorResponse(id, NewError(CodeInvalidRequest, "Invalid Request: method is required", http.StatusBadRequest, nil))
	}

	fn, ok := d.methods[method]
	if !ok {
		d.logger.Debug("unknown method", zap.String("method", method))
		return errorResponse(id, NewError(CodeMethodNotFound, "Method not found", http.StatusBadRequest,
			map[string]any{"method": method}))
	}

	result, rpcErr := fn(ctx, fields["params"])
	if rpcErr != nil {
		return errorResponse(id, rpcErr)
	}
	return &Response{JSONRPC: Version, ID: id, Result: result}, http.StatusOK, nil
}

func errorResponse(id json.RawMessage, e *Error) (*Response, int, error) {
	return &Response{JSONRPC: Version, ID: id, Error: e}, e.HTTPStatus(), nil
}

func (d *Dispatcher) toolsList(_ context.Context, _ json.RawMessage) (any, *Error) {
	return ListResult{Tools: d.catalog.List()}, nil
}

func (d *Dispatcher) toolsCall(ctx context.Context, raw json.RawMessage) (any, *Error) {
	params, rpcErr := decodeCallParams(raw)
	if rpcErr != nil {
		return nil, rpcErr
	}

	tool, ok := d.catalog.Lookup(params.Name)
	if !ok {
		return nil, NewError(CodeMethodNotFound, "Tool not found: "+params.Name, http.StatusBadRequest,
			map[string]any{"tool": params.Name})
	}

	args, err := tool.Prepare(params.Arguments)
	if err != nil {
		var verr *tools.ValidationError
		if errors.As(err, &verr) {
			return nil, NewError(CodeInvalidParams,
				"Invalid params: "+strings.Join(verr.Fields(), ", "), http.StatusBadRequest,
				map[string]any{"tool": params.Name, "errors": verr.Problems})
		}
		return nil, d.fault(params.Name, err)
	}

	text, err := d.invoke(ctx, tool, args)
	if err != nil {
		return nil, d.fault(params.Name, err)
	}
	return TextResult(text), nil
}

// decodeCallParams extracts name and arguments; absent or null arguments
// become an empty object.
func decodeCallParams(raw json.RawMessage) (CallParams, *Error) {
	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return CallParams{}, NewError(CodeInvalidParams, "Invalid params: params must be an object", http.StatusBadRequest, nil)
		}
	}

	var p CallParams
	if err := json.Unmarshal(fields["name"], &p.Name); err != nil || p.Name == "" {
		return CallParams{}, NewError(CodeInvalidParams, "Invalid params: name is required", http.StatusBadRequest, nil)
	}
	if args, ok := fields["arguments"]; ok && string(args) != "null" {
		if err := json.Unmarshal(args, &p.Arguments); err != nil {
			return CallParams{}, NewError(CodeInvalidParams, "Invalid params: arguments must be an object", http.StatusBadRequest, nil)
		}
	}
	if p.Arguments == nil {
		p.Arguments = map[string]any{}
	}
	return p, nil
}

// invoke runs the handler, converting a panic into an error.
func (d *Dispatcher) invoke(ctx context.Context, tool *tools.Tool, args map[string]any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return tool.Invoke(ctx, args)
}

// fault logs err under a fresh correlation id and returns the generic error
// shown to the client.
func (d *Dispatcher) fault(tool string, err error) *Error {
	correlationID := uuid.New().String()
	d.logger.Error("tool call failed",
		zap.String("tool", tool),
		zap.String("correlation_id", correlationID),
		zap.Error(err),
	)
	return NewError(CodeInternalError, "Internal error", http.StatusInternalServerError,
		map[string]any{"correlation_id": correlationID})
}
