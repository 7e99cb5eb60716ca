package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

type pressKeyParams struct {
	Key string `json:"key"`
}

// NewPressKeyTool sends a key press to the focused element. Accepts named
// keys (ENTER, TAB, ESCAPE, arrows) or a single character.
func NewPressKeyTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "press_key",
		Description: "Press a keyboard key (named key like ENTER/TAB/ESCAPE or a single character)",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"key": {"type": "string", "description": "Key name or single character"}
			},
			"required": ["key"]
		}`),
	}, func(ctx context.Context, exec *Executor, p pressKeyParams) (*domain.ToolResult, error) {
		if err := RequireField("key", p.Key); err != nil {
			return nil, domain.NewDomainError("tool.press_key", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Press key %s", p.Key)},
			Effect: &domain.Effect{
				Op: "press_key",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.PressKey(ctx, p.Key)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}
