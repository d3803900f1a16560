// Package tools holds the fixed table of callable tools: their descriptors,
// argument schemas and handlers.
package tools

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyName     = errors.New("tool name is empty")
	ErrNilHandler    = errors.New("tool handler is nil")
	ErrDuplicateTool = errors.New("tool already registered")
)

// Handler executes a tool with arguments that already passed validation and
// returns the text shown to the client.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Descriptor is the advertised, serialisable part of a tool.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	InputSchema *Schema `json:"inputSchema"`
}

// Definition binds a descriptor to its handler for registration.
type Definition struct {
	Name        string
	Description string
	InputSchema *Schema
	Handler     Handler
}

// Tool is a registered, immutable tool.
type Tool struct {
	desc      Descriptor
	handler   Handler
	validator *Validator
}

// Descriptor returns the advertised description of the tool.
func (t *Tool) Descriptor() Descriptor { return t.desc }

// Name returns the tool name.
func (t *Tool) Name() string { return t.desc.Name }

// Prepare fills in declared defaults and validates the result. The returned
// map is the one to hand to Invoke.
func (t *Tool) Prepare(args map[string]any) (map[string]any, error) {
	prepared := t.desc.InputSchema.ApplyDefaults(args)
	if err := t.validator.Validate(prepared); err != nil {
		return nil, err
	}
	return prepared, nil
}

// Invoke runs the handler synchronously.
func (t *Tool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	return t.handler(ctx, args)
}

// Registry maps tool names to tools and remembers registration order so that
// listings are stable.
type Registry struct {
	order []*Tool
	index map[string]*Tool
}

// NewRegistry builds a registry from a fixed table. The registry is never
// modified afterwards and is safe for concurrent readers.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		order: make([]*Tool, 0, len(defs)),
		index: make(map[string]*Tool, len(defs)),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, ErrEmptyName
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilHandler, def.Name)
		}
		if _, exists := r.index[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
		}

		schema := def.InputSchema
		if schema == nil {
			schema = &Schema{Type: "object"}
		}
		validator, err := NewValidator(schema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", def.Name, err)
		}

		t := &Tool{
			desc: Descriptor{
				Name:        def.Name,
				Description: def.Description,
				InputSchema: schema,
			},
			handler:   def.Handler,
			validator: validator,
		}
		r.index[def.Name] = t
		r.order = append(r.order, t)
	}
	return r, nil
}

// List returns every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.order))
	for i, t := range r.order {
		out[i] = t.desc
	}
	return out
}

// Lookup finds a tool by exact name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.index[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
