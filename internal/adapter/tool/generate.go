package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pagepilot/internal/domain"
)

type generateScriptParams struct {
	Format       string `json:"format"`
	TestName     string `json:"test_name"`
	Filename     string `json:"filename"`
	IncludeSetup *bool  `json:"include_setup"`
}

// NewGenerateScriptTool converts the recorded action history into a test
// script in one of the supported automation formats.
func NewGenerateScriptTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "generate_script",
		Description: "Generate a test script from the recorded browser actions",
		Kind:        domain.ToolKindReadOnly,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"format": {
					"type": "string",
					"enum": ["pytest", "unittest", "selenium_python", "robot_framework", "playwright", "webdriverio", "selenium_java", "selenium_js"],
					"description": "Target script format"
				},
				"test_name": {"type": "string", "description": "Name of the generated test (default test_recorded_scenario)"},
				"filename": {"type": "string", "description": "Optional path to save the script to"},
				"include_setup": {"type": "boolean", "description": "Include driver setup and teardown boilerplate (default true)"}
			},
			"required": ["format"]
		}`),
	}, func(ctx context.Context, exec *Executor, p generateScriptParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			RequireField("format", p.Format),
			ValidateEnum("format", strings.ToLower(p.Format), scriptFormats...),
		); err != nil {
			return nil, domain.NewDomainError("tool.generate_script", domain.ErrInvalidInput, err.Error())
		}

		entries, err := exec.Recorder().Entries(ctx)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return &domain.ToolResult{
				Code: []string{"No actions recorded. Start recording first with start_recording tool."},
			}, nil
		}

		testName := p.TestName
		if testName == "" {
			testName = "test_recorded_scenario"
		}
		includeSetup := true
		if p.IncludeSetup != nil {
			includeSetup = *p.IncludeSetup
		}

		script, err := GenerateScript(entries, p.Format, testName, includeSetup)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Generate %s script from %d recorded actions", p.Format, len(entries))},
			Effect: &domain.Effect{
				Op: "generate_script",
				Run: func(ctx context.Context) (any, error) {
					if p.Filename != "" {
						if err := os.WriteFile(p.Filename, []byte(script), 0o600); err != nil {
							return nil, domain.WrapOp("generate_script", err)
						}
						return fmt.Sprintf("Script saved to %s\n\n%s", p.Filename, script), nil
					}
					return script, nil
				},
			},
		}, nil
	})
}
