package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

type navigateParams struct {
	URL string `json:"url"`
}

// NewNavigateTool opens a URL in the active tab. Page-load timeouts are
// tolerated: loading is stopped and the snapshot reflects whatever state the
// page reached.
func NewNavigateTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "navigate_to",
		Description: "Navigate the browser to a URL and capture the resulting page state",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"url": {"type": "string", "description": "Absolute http(s) URL to open"}
			},
			"required": ["url"]
		}`),
	}, func(ctx context.Context, exec *Executor, p navigateParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			RequireField("url", p.URL),
			ValidateURL("url", p.URL),
		); err != nil {
			return nil, domain.NewDomainError("tool.navigate_to", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Navigate to %s", p.URL)},
			Effect: &domain.Effect{
				Op: "navigate",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.Navigate(ctx, p.URL)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}

// NewBackTool moves one step back in the tab history.
func NewBackTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "go_back",
		Description: "Go back to the previous page in browser history",
		Kind:        domain.ToolKindDestructive,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Go back in history"},
			Effect: &domain.Effect{
				Op: "back",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.Back(ctx)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}

// NewForwardTool moves one step forward in the tab history.
func NewForwardTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "go_forward",
		Description: "Go forward to the next page in browser history",
		Kind:        domain.ToolKindDestructive,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Go forward in history"},
			Effect: &domain.Effect{
				Op: "forward",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.Forward(ctx)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}
