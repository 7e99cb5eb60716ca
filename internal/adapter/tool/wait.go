package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pagepilot/internal/domain"
)

type waitForParams struct {
	Text     string  `json:"text"`
	TextGone string  `json:"text_gone"`
	Seconds  float64 `json:"seconds"`
}

// waitPollInterval is how often wait_for re-checks its condition.
const waitPollInterval = 500 * time.Millisecond

// NewWaitForTool waits for text to appear or disappear, or just sleeps.
// Polling retries live in this tool; the pipeline itself never retries.
func NewWaitForTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "wait_for",
		Description: "Wait for text to appear or disappear on the page, or for a fixed number of seconds",
		Kind:        domain.ToolKindReadOnly,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"text": {"type": "string", "description": "Wait until this text is present"},
				"text_gone": {"type": "string", "description": "Wait until this text is absent"},
				"seconds": {"type": "number", "description": "Maximum seconds to wait, or the sleep duration when no text is given (default 5)"}
			}
		}`),
	}, func(ctx context.Context, exec *Executor, p waitForParams) (*domain.ToolResult, error) {
		if p.Text == "" && p.TextGone == "" && p.Seconds <= 0 {
			return nil, domain.NewDomainError("tool.wait_for", domain.ErrInvalidInput,
				"one of 'text', 'text_gone', 'seconds' is required")
		}
		timeout := time.Duration(p.Seconds * float64(time.Second))
		if timeout <= 0 {
			timeout = 5 * time.Second
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Wait up to %s (text=%q text_gone=%q)", timeout, p.Text, p.TextGone)},
			Effect: &domain.Effect{
				Op: "wait",
				Run: func(ctx context.Context) (any, error) {
					if p.Text == "" && p.TextGone == "" {
						select {
						case <-time.After(timeout):
							return fmt.Sprintf("Waited %s", timeout), nil
						case <-ctx.Done():
							return nil, ctx.Err()
						}
					}

					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					deadline := time.Now().Add(timeout)
					for {
						met, err := conditionMet(ctx, d, p.Text, p.TextGone)
						if err != nil {
							return nil, err
						}
						if met {
							return "Condition met", nil
						}
						if time.Now().After(deadline) {
							return nil, domain.NewDomainError("wait_for", domain.ErrNavTimeout,
								fmt.Sprintf("condition not met within %s", timeout))
						}
						select {
						case <-time.After(waitPollInterval):
						case <-ctx.Done():
							return nil, ctx.Err()
						}
					}
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}

func conditionMet(ctx context.Context, d interface {
	TextPresent(ctx context.Context, text string) (bool, error)
}, text, textGone string) (bool, error) {
	if text != "" {
		present, err := d.TextPresent(ctx, text)
		if err != nil || !present {
			return false, err
		}
	}
	if textGone != "" {
		present, err := d.TextPresent(ctx, textGone)
		if err != nil || present {
			return false, err
		}
	}
	return true, nil
}
