package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

type dragParams struct {
	StartElement string `json:"start_element"`
	StartRef     string `json:"start_ref"`
	EndElement   string `json:"end_element"`
	EndRef       string `json:"end_ref"`
}

// NewDragAndDropTool drags one snapshot element onto another.
func NewDragAndDropTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "drag_and_drop",
		Description: "Drag an element onto another element, both addressed by snapshot reference",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"start_element": {"type": "string", "description": "Description of the element to drag"},
				"start_ref": {"type": "string", "description": "Snapshot reference of the element to drag"},
				"end_element": {"type": "string", "description": "Description of the drop target"},
				"end_ref": {"type": "string", "description": "Snapshot reference of the drop target"}
			},
			"required": ["start_element", "start_ref", "end_element", "end_ref"]
		}`),
	}, func(ctx context.Context, exec *Executor, p dragParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			RequireField("start_ref", p.StartRef),
			RequireField("end_ref", p.EndRef),
		); err != nil {
			return nil, domain.NewDomainError("tool.drag_and_drop", domain.ErrInvalidInput, err.Error())
		}
		from, err := exec.ResolveRef(p.StartRef)
		if err != nil {
			return nil, err
		}
		to, err := exec.ResolveRef(p.EndRef)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Drag %q (%s) onto %q (%s)", p.StartElement, from, p.EndElement, to)},
			Effect: &domain.Effect{
				Op: "drag",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.DragAndDrop(ctx, from, to)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}
