// Package tools defines the external collaborators the speech model can
// invoke mid-conversation, and the catalog the bridge advertises to it.
//
// A tool receives the model's argument JSON and returns a structured
// payload. Invocation failures are surfaced to the model as failure
// results so the assistant can tell the caller; they are never fatal to
// the call.
package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool is one callable collaborator.
type Tool interface {
	// Name is the function name advertised to the model.
	Name() string

	// Description tells the model when to call the tool.
	Description() string

	// Schema describes the argument object.
	Schema() *jsonschema.Schema

	// Invoke runs the tool with the model's argument JSON. The returned
	// value is marshaled and sent back to the model.
	Invoke(ctx context.Context, args string) (any, error)
}

// Catalog is a named set of tools.
type Catalog struct {
	tools  []Tool
	byName map[string]Tool
}

// NewCatalog builds a catalog. Duplicate names panic; the catalog is
// assembled once at startup.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, dup := c.byName[t.Name()]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %q", t.Name()))
		}
		c.byName[t.Name()] = t
		c.tools = append(c.tools, t)
	}
	return c
}

// Lookup returns the named tool, or nil if unknown.
func (c *Catalog) Lookup(name string) Tool {
	if c == nil {
		return nil
	}
	return c.byName[name]
}

// All returns the tools in registration order.
func (c *Catalog) All() []Tool {
	if c == nil {
		return nil
	}
	return c.tools
}

// Func adapts a typed Go function into a Tool. The argument schema is
// derived from T via jsonschema reflection.
type Func[T any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	fn          func(ctx context.Context, arg T) (any, error)
}

// NewFunc builds a Func tool. It panics if a schema cannot be derived
// from T; tool argument types are fixed at compile time.
func NewFunc[T any](name, description string, fn func(ctx context.Context, arg T) (any, error)) *Func[T] {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %q: %v", name, err))
	}
	return &Func[T]{name: name, description: description, schema: schema, fn: fn}
}

func (f *Func[T]) Name() string               { return f.name }
func (f *Func[T]) Description() string        { return f.description }
func (f *Func[T]) Schema() *jsonschema.Schema { return f.schema }

// Invoke decodes the argument JSON (repairing minor syntax damage) and
// calls the wrapped function.
func (f *Func[T]) Invoke(ctx context.Context, args string) (any, error) {
	var v T
	if err := unmarshalJSON([]byte(args), &v); err != nil {
		return nil, fmt.Errorf("tools: %s: bad arguments %q: %w", f.name, args, err)
	}
	return f.fn(ctx, v)
}
