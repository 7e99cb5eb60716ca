package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

// NewVerifyElementVisibleTool checks that a snapshot element is visible on
// the live page right now.
func NewVerifyElementVisibleTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "browser_verify_element_visible",
		Description: "Verify that an element from the page snapshot is currently visible",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  elementSchema(""),
	}, func(ctx context.Context, exec *Executor, p elementParams) (*domain.ToolResult, error) {
		if err := RequireField("ref", p.Ref); err != nil {
			return nil, domain.NewDomainError("tool.browser_verify_element_visible", domain.ErrInvalidInput, err.Error())
		}
		loc, err := exec.ResolveRef(p.Ref)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Verify %q (%s) is visible", p.Element, loc)},
			Effect: &domain.Effect{
				Op: "verify_visible",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					visible, err := d.IsVisible(ctx, loc)
					if err != nil {
						return nil, err
					}
					if !visible {
						return nil, domain.NewDomainError("verify_visible", domain.ErrElementNotFound,
							fmt.Sprintf("%s (%s) is not visible", p.Ref, loc))
					}
					return fmt.Sprintf("Element %s is visible", p.Ref), nil
				},
			},
		}, nil
	})
}

type verifyTextParams struct {
	Text string `json:"text"`
}

// NewVerifyTextPresentTool checks that the page body contains a text.
func NewVerifyTextPresentTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "browser_verify_text_present",
		Description: "Verify that the page contains the given text",
		Kind:        domain.ToolKindReadOnly,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Text expected somewhere on the page"}
			},
			"required": ["text"]
		}`),
	}, func(ctx context.Context, exec *Executor, p verifyTextParams) (*domain.ToolResult, error) {
		if err := RequireField("text", p.Text); err != nil {
			return nil, domain.NewDomainError("tool.browser_verify_text_present", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Verify page contains %q", p.Text)},
			Effect: &domain.Effect{
				Op: "verify_text",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					present, err := d.TextPresent(ctx, p.Text)
					if err != nil {
						return nil, err
					}
					if !present {
						return nil, domain.NewDomainError("verify_text", domain.ErrElementNotFound,
							fmt.Sprintf("text %q not found on page", p.Text))
					}
					return fmt.Sprintf("Text %q is present", p.Text), nil
				},
			},
		}, nil
	})
}
