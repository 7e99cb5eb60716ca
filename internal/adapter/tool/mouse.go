package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/adapter/browser"
	"pagepilot/internal/domain"
)

type mouseMoveParams struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewMouseMoveTool moves the pointer to viewport coordinates.
func NewMouseMoveTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "mouse_move",
		Description: "Move the mouse pointer to viewport coordinates",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"x": {"type": "number", "description": "X coordinate"},
				"y": {"type": "number", "description": "Y coordinate"}
			},
			"required": ["x", "y"]
		}`),
	}, func(ctx context.Context, exec *Executor, p mouseMoveParams) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Move mouse to (%.0f, %.0f)", p.X, p.Y)},
			Effect: &domain.Effect{
				Op: "mouse_move",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.MouseMove(ctx, p.X, p.Y)
				},
			},
		}, nil
	})
}

type mouseClickParams struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button"`
}

// NewMouseClickTool clicks at viewport coordinates.
func NewMouseClickTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "mouse_click",
		Description: "Click at viewport coordinates",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"x": {"type": "number", "description": "X coordinate"},
				"y": {"type": "number", "description": "Y coordinate"},
				"button": {"type": "string", "enum": ["left", "right", "middle"], "description": "Mouse button, default left"}
			},
			"required": ["x", "y"]
		}`),
	}, func(ctx context.Context, exec *Executor, p mouseClickParams) (*domain.ToolResult, error) {
		if err := ValidateEnum("button", p.Button, "left", "right", "middle"); err != nil {
			return nil, domain.NewDomainError("tool.mouse_click", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Click at (%.0f, %.0f)", p.X, p.Y)},
			Effect: &domain.Effect{
				Op: "mouse_click",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.MouseClick(ctx, p.X, p.Y, browser.MouseButton(p.Button))
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}

type mouseDragParams struct {
	FromX float64 `json:"from_x"`
	FromY float64 `json:"from_y"`
	ToX   float64 `json:"to_x"`
	ToY   float64 `json:"to_y"`
}

// NewMouseDragTool drags the pointer between two coordinate pairs.
func NewMouseDragTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "mouse_drag",
		Description: "Press, drag, and release the mouse between two coordinate pairs",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"from_x": {"type": "number", "description": "Start X coordinate"},
				"from_y": {"type": "number", "description": "Start Y coordinate"},
				"to_x": {"type": "number", "description": "End X coordinate"},
				"to_y": {"type": "number", "description": "End Y coordinate"}
			},
			"required": ["from_x", "from_y", "to_x", "to_y"]
		}`),
	}, func(ctx context.Context, exec *Executor, p mouseDragParams) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Drag from (%.0f, %.0f) to (%.0f, %.0f)", p.FromX, p.FromY, p.ToX, p.ToY)},
			Effect: &domain.Effect{
				Op: "mouse_drag",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.MouseDrag(ctx, p.FromX, p.FromY, p.ToX, p.ToY)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}
