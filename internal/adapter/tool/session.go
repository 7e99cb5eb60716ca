package tool

import (
	"context"
	"encoding/json"

	"pagepilot/internal/domain"
)

// NewCloseSessionTool releases the browser. The next tool that needs a page
// lazily starts a new session rather than erroring.
func NewCloseSessionTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "close_session",
		Description: "Close the browser session; a new one starts lazily on the next action",
		Kind:        domain.ToolKindDestructive,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Close browser session"},
			Effect: &domain.Effect{
				Op: "close_session",
				Run: func(ctx context.Context) (any, error) {
					exec.clearSnapshot()
					if err := exec.Session().Close(); err != nil {
						return nil, err
					}
					return "Browser session closed", nil
				},
			},
		}, nil
	})
}

// NewResetSessionTool closes the current browser and starts a fresh one.
func NewResetSessionTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "reset_session",
		Description: "Restart the browser with a clean session",
		Kind:        domain.ToolKindDestructive,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Restart browser session"},
			Effect: &domain.Effect{
				Op: "reset_session",
				Run: func(ctx context.Context) (any, error) {
					exec.clearSnapshot()
					if _, err := exec.Session().Reset(ctx); err != nil {
						return nil, err
					}
					return "Browser session restarted", nil
				},
			},
		}, nil
	})
}
