package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"pagepilot/internal/domain"
)

type screenshotParams struct {
	Path     string `json:"path"`
	FullPage bool   `json:"full_page"`
}

// NewScreenshotTool captures the viewport or full page to a JPEG file.
func NewScreenshotTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "take_screenshot",
		Description: "Capture a screenshot of the current page to a file",
		Kind:        domain.ToolKindReadOnly,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "File path to write the JPEG to"},
				"full_page": {"type": "boolean", "description": "Capture the full scrollable page instead of the viewport"}
			},
			"required": ["path"]
		}`),
	}, func(ctx context.Context, exec *Executor, p screenshotParams) (*domain.ToolResult, error) {
		if err := RequireField("path", p.Path); err != nil {
			return nil, domain.NewDomainError("tool.take_screenshot", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Screenshot to %s (full_page=%v)", p.Path, p.FullPage)},
			Effect: &domain.Effect{
				Op: "screenshot",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					data, err := d.Screenshot(ctx, p.FullPage)
					if err != nil {
						return nil, err
					}
					if err := os.WriteFile(p.Path, data, 0600); err != nil {
						return nil, domain.WrapOp("screenshot write", err)
					}
					return fmt.Sprintf("Screenshot saved to %s (%d bytes)", p.Path, len(data)), nil
				},
			},
		}, nil
	})
}
