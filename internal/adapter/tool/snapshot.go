package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

// elementParams is the common shape of ref-based interaction parameters:
// a human-readable description plus the exact snapshot reference.
type elementParams struct {
	Element string `json:"element"`
	Ref     string `json:"ref"`
}

// elementSchema builds the parameter schema shared by ref-based tools.
func elementSchema(extra string) json.RawMessage {
	props := `
		"element": {"type": "string", "description": "Human-readable element description"},
		"ref": {"type": "string", "description": "Exact element reference from the page snapshot"}`
	required := `["element", "ref"]`
	if extra != "" {
		props += ",\n" + extra
	}
	return json.RawMessage(`{"type": "object", "properties": {` + props + `}, "required": ` + required + `}`)
}

// NewCapturePageTool scans the current page into a fresh snapshot and renders
// the page-state block.
func NewCapturePageTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "capture_page",
		Description: "Capture a DOM snapshot of the current page for element analysis",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Capture page snapshot with interactive element references"},
			Effect: &domain.Effect{
				Op: "capture",
				Run: func(ctx context.Context) (any, error) {
					// Ensure the session exists; the pipeline performs the
					// capture itself so all tools share one code path.
					_, err := exec.Driver(ctx)
					return nil, err
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}

// NewClickTool clicks an element by snapshot reference, falling back to a
// script click when the native click fails.
func NewClickTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "click_element",
		Description: "Click on an element using its reference from the page snapshot",
		Kind:        domain.ToolKindDestructive,
		Parameters:  elementSchema(""),
	}, func(ctx context.Context, exec *Executor, p elementParams) (*domain.ToolResult, error) {
		if err := RequireField("ref", p.Ref); err != nil {
			return nil, domain.NewDomainError("tool.click_element", domain.ErrInvalidInput, err.Error())
		}
		loc, err := exec.ResolveRef(p.Ref)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Click %q (%s)", p.Element, loc)},
			Effect: &domain.Effect{
				Op: "click",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					if err := d.Click(ctx, loc); err != nil {
						exec.Logger().Debug("native click failed, trying script click",
							"ref", p.Ref, "error", err)
						return nil, d.ClickJS(ctx, loc)
					}
					return nil, nil
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}

// NewHoverTool moves the pointer over an element.
func NewHoverTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "hover_element",
		Description: "Hover the pointer over an element from the page snapshot",
		Kind:        domain.ToolKindDestructive,
		Parameters:  elementSchema(""),
	}, func(ctx context.Context, exec *Executor, p elementParams) (*domain.ToolResult, error) {
		if err := RequireField("ref", p.Ref); err != nil {
			return nil, domain.NewDomainError("tool.hover_element", domain.ErrInvalidInput, err.Error())
		}
		loc, err := exec.ResolveRef(p.Ref)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Hover over %q (%s)", p.Element, loc)},
			Effect: &domain.Effect{
				Op: "hover",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.Hover(ctx, loc)
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}

type typeTextParams struct {
	elementParams
	Text   string `json:"text"`
	Submit bool   `json:"submit"`
}

// NewTypeTextTool types into an element, optionally submitting with Enter.
// Existing content is cleared first.
func NewTypeTextTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "type_text",
		Description: "Type text into an input element from the page snapshot",
		Kind:        domain.ToolKindDestructive,
		Parameters: elementSchema(`
		"text": {"type": "string", "description": "Text to type"},
		"submit": {"type": "boolean", "description": "Press Enter after typing"}`),
	}, func(ctx context.Context, exec *Executor, p typeTextParams) (*domain.ToolResult, error) {
		if err := RequireField("ref", p.Ref); err != nil {
			return nil, domain.NewDomainError("tool.type_text", domain.ErrInvalidInput, err.Error())
		}
		loc, err := exec.ResolveRef(p.Ref)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Type %q into %q (%s)", p.Text, p.Element, loc)},
			Effect: &domain.Effect{
				Op: "type",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					if err := d.SendKeys(ctx, loc, p.Text, true); err != nil {
						return nil, err
					}
					if p.Submit {
						return nil, d.PressKey(ctx, "ENTER")
					}
					return nil, nil
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}

type selectOptionParams struct {
	elementParams
	Option string `json:"option"`
}

// NewSelectOptionTool picks a dropdown option by value or visible label.
func NewSelectOptionTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "select_option",
		Description: "Select a dropdown option by value or visible label",
		Kind:        domain.ToolKindDestructive,
		Parameters: elementSchema(`
		"option": {"type": "string", "description": "Option value or visible label"}`),
	}, func(ctx context.Context, exec *Executor, p selectOptionParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			RequireField("ref", p.Ref),
			RequireField("option", p.Option),
		); err != nil {
			return nil, domain.NewDomainError("tool.select_option", domain.ErrInvalidInput, err.Error())
		}
		loc, err := exec.ResolveRef(p.Ref)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Select option %q in %q (%s)", p.Option, p.Element, loc)},
			Effect: &domain.Effect{
				Op: "select",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.SelectOption(ctx, loc, p.Option)
				},
			},
			CaptureSnapshot: true,
			WaitForNetwork:  true,
		}, nil
	})
}
