package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

type dialogParams struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// NewDialogHandleTool accepts, dismisses, or reads the open JavaScript
// dialog (alert, confirm, prompt).
func NewDialogHandleTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "dialog_handle",
		Description: "Handle browser dialogs (alert, confirm, prompt)",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"action": {"type": "string", "enum": ["accept", "dismiss", "get_text"], "description": "Dialog action: 'accept', 'dismiss', or 'get_text'"},
				"text": {"type": "string", "description": "Text to enter in a prompt dialog (optional)"}
			},
			"required": ["action"]
		}`),
	}, func(ctx context.Context, exec *Executor, p dialogParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			RequireField("action", p.Action),
			ValidateEnum("action", p.Action, "accept", "dismiss", "get_text"),
		); err != nil {
			return nil, domain.NewDomainError("tool.dialog_handle", domain.ErrInvalidInput, err.Error())
		}

		var code []string
		switch p.Action {
		case "accept":
			code = []string{"# Accept dialog"}
			if p.Text != "" {
				code = append(code, fmt.Sprintf("Input Text Into Alert    %s", p.Text))
			}
			code = append(code, "Handle Alert    ACCEPT")
		case "dismiss":
			code = []string{"# Dismiss dialog", "Handle Alert    DISMISS"}
		case "get_text":
			code = []string{"# Get dialog text", "${dialog_text}=    Handle Alert    ACCEPT", "Log    ${dialog_text}"}
		}

		return &domain.ToolResult{
			Code: code,
			Effect: &domain.Effect{
				Op: "dialog_handle",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					switch p.Action {
					case "get_text":
						info, err := d.DialogText(ctx)
						if err != nil {
							return nil, err
						}
						return fmt.Sprintf("Dialog text: %s", info.Message), nil
					case "accept":
						if _, err := d.HandleDialog(ctx, true, p.Text); err != nil {
							return nil, err
						}
						return "Accepted dialog", nil
					default:
						if _, err := d.HandleDialog(ctx, false, ""); err != nil {
							return nil, err
						}
						return "Dismissed dialog", nil
					}
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}
