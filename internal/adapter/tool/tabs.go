package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

// NewTabListTool lists open tabs.
func NewTabListTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "tab_list",
		Description: "List open browser tabs",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# List open tabs"},
			Effect: &domain.Effect{
				Op: "tab_list",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return d.TabList(ctx)
				},
			},
		}, nil
	})
}

type tabIDParams struct {
	ID string `json:"id"`
}

// NewTabSelectTool activates a tab by ID.
func NewTabSelectTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "tab_select",
		Description: "Switch to an open tab by its ID",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Tab ID from tab_list"}
			},
			"required": ["id"]
		}`),
	}, func(ctx context.Context, exec *Executor, p tabIDParams) (*domain.ToolResult, error) {
		if err := RequireField("id", p.ID); err != nil {
			return nil, domain.NewDomainError("tool.tab_select", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Switch to tab %s", p.ID)},
			Effect: &domain.Effect{
				Op: "tab_select",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.TabSelect(ctx, p.ID)
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}

type tabNewParams struct {
	URL string `json:"url"`
}

// NewTabNewTool opens a new tab, optionally navigating it.
func NewTabNewTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "tab_new",
		Description: "Open a new browser tab, optionally at a URL",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"url": {"type": "string", "description": "URL to open in the new tab (optional)"}
			}
		}`),
	}, func(ctx context.Context, exec *Executor, p tabNewParams) (*domain.ToolResult, error) {
		if err := ValidateURL("url", p.URL); err != nil {
			return nil, domain.NewDomainError("tool.tab_new", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Open new tab %s", p.URL)},
			Effect: &domain.Effect{
				Op: "tab_new",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					id, err := d.TabNew(ctx, p.URL)
					if err != nil {
						return nil, err
					}
					return fmt.Sprintf("Opened tab %s", id), nil
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}

// NewTabCloseTool closes a tab by ID.
func NewTabCloseTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "tab_close",
		Description: "Close an open tab by its ID",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Tab ID from tab_list"}
			},
			"required": ["id"]
		}`),
	}, func(ctx context.Context, exec *Executor, p tabIDParams) (*domain.ToolResult, error) {
		if err := RequireField("id", p.ID); err != nil {
			return nil, domain.NewDomainError("tool.tab_close", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Close tab %s", p.ID)},
			Effect: &domain.Effect{
				Op: "tab_close",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.TabClose(ctx, p.ID)
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}
