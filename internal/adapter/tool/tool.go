// Package tool implements the tool contract and the execution pipeline that
// wraps every browser action: schema validation, recording, deferred effect
// execution, conditional re-capture, and uniform response assembly.
package tool

import (
	"context"
	"encoding/json"

	"pagepilot/internal/domain"
)

// Tool is one named, schema-described unit of browser capability. Handle
// builds a ToolResult describing the intended action; the side effect itself
// lives in the result's Effect and runs only inside the Executor, which owns
// sequencing and error isolation.
type Tool interface {
	Schema() domain.ToolSchema
	Handle(ctx context.Context, exec *Executor, raw json.RawMessage) (*domain.ToolResult, error)
}

// funcTool adapts a typed handler function to the Tool interface. Parameter
// decoding errors surface as invalid-input failures before the handler runs.
type funcTool[P any] struct {
	schema domain.ToolSchema
	handle func(ctx context.Context, exec *Executor, p P) (*domain.ToolResult, error)
}

// NewTool builds a Tool from a schema and a typed handler.
func NewTool[P any](
	schema domain.ToolSchema,
	handle func(ctx context.Context, exec *Executor, p P) (*domain.ToolResult, error),
) Tool {
	return &funcTool[P]{schema: schema, handle: handle}
}

func (t *funcTool[P]) Schema() domain.ToolSchema { return t.schema }

func (t *funcTool[P]) Handle(ctx context.Context, exec *Executor, raw json.RawMessage) (*domain.ToolResult, error) {
	var p P
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, domain.NewDomainError("tool."+t.schema.Name, domain.ErrInvalidInput, err.Error())
		}
	}
	return t.handle(ctx, exec, p)
}
