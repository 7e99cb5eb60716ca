package tool

import (
	"context"
	"encoding/json"

	"pagepilot/internal/domain"
)

// NewConsoleLogsTool drains browser console messages captured since the last
// call.
func NewConsoleLogsTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "get_console_logs",
		Description: "Return browser console messages captured since the last call",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Collect console logs"},
			Effect: &domain.Effect{
				Op: "console_logs",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					logs, err := d.ConsoleLogs(ctx)
					if err != nil {
						return nil, err
					}
					if len(logs) == 0 {
						return "No console messages", nil
					}
					return logs, nil
				},
			},
		}, nil
	})
}
