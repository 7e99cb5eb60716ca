package tool

import (
	"context"
	"encoding/json"

	"pagepilot/internal/domain"
)

type executeJSParams struct {
	Script string `json:"script"`
}

// NewExecuteJSTool evaluates a JavaScript expression on the current page and
// returns its result.
func NewExecuteJSTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "execute_js",
		Description: "Execute JavaScript on the current page and return the result",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"script": {"type": "string", "description": "JavaScript expression to evaluate"}
			},
			"required": ["script"]
		}`),
	}, func(ctx context.Context, exec *Executor, p executeJSParams) (*domain.ToolResult, error) {
		if err := RequireField("script", p.Script); err != nil {
			return nil, domain.NewDomainError("tool.execute_js", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{"# Execute JavaScript", "# " + p.Script},
			Effect: &domain.Effect{
				Op: "evaluate",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					out, err := d.Evaluate(ctx, p.Script)
					if err != nil {
						return nil, err
					}
					return "Result: " + out, nil
				},
			},
		}, nil
	})
}
