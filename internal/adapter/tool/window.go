package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

type resizeParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewResizeWindowTool changes the viewport dimensions.
func NewResizeWindowTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "resize_window",
		Description: "Resize the browser viewport",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"width": {"type": "integer", "description": "Viewport width in pixels"},
				"height": {"type": "integer", "description": "Viewport height in pixels"}
			},
			"required": ["width", "height"]
		}`),
	}, func(ctx context.Context, exec *Executor, p resizeParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			ValidatePositive("width", p.Width),
			ValidatePositive("height", p.Height),
			ValidateRange("width", p.Width, 1, 7680),
			ValidateRange("height", p.Height, 1, 4320),
		); err != nil {
			return nil, domain.NewDomainError("tool.resize_window", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Resize viewport to %dx%d", p.Width, p.Height)},
			Effect: &domain.Effect{
				Op: "resize",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.Resize(ctx, p.Width, p.Height)
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}
