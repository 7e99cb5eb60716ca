package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

type networkParams struct {
	Action  string `json:"action"`
	Offline bool   `json:"offline"`
}

// NewNetworkMonitorTool lists captured page requests, clears the capture
// buffer, or toggles offline emulation.
func NewNetworkMonitorTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "network_monitor",
		Description: "Monitor network requests or control network state",
		Kind:        domain.ToolKindDestructive,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"action": {"type": "string", "enum": ["get_requests", "clear", "set_offline"], "description": "Network action: 'get_requests', 'clear', or 'set_offline'"},
				"offline": {"type": "boolean", "description": "Offline mode for the set_offline action"}
			},
			"required": ["action"]
		}`),
	}, func(ctx context.Context, exec *Executor, p networkParams) (*domain.ToolResult, error) {
		if err := ValidateAll(
			RequireField("action", p.Action),
			ValidateEnum("action", p.Action, "get_requests", "clear", "set_offline"),
		); err != nil {
			return nil, domain.NewDomainError("tool.network_monitor", domain.ErrInvalidInput, err.Error())
		}

		var code []string
		switch p.Action {
		case "get_requests":
			code = []string{"# Get network requests"}
		case "clear":
			code = []string{"# Clear network logs"}
		case "set_offline":
			mode := "online"
			if p.Offline {
				mode = "offline"
			}
			code = []string{fmt.Sprintf("# Set network to %s mode", mode)}
		}

		return &domain.ToolResult{
			Code: code,
			Effect: &domain.Effect{
				Op: "network_monitor",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					switch p.Action {
					case "get_requests":
						reqs, err := d.NetworkRequests(ctx)
						if err != nil {
							return nil, err
						}
						if len(reqs) == 0 {
							return "No network requests captured", nil
						}
						return reqs, nil
					case "clear":
						if err := d.ClearNetworkLog(ctx); err != nil {
							return nil, err
						}
						return "Network log cleared", nil
					default:
						if err := d.SetOffline(ctx, p.Offline); err != nil {
							return nil, err
						}
						mode := "online"
						if p.Offline {
							mode = "offline"
						}
						return fmt.Sprintf("Network set to %s mode", mode), nil
					}
				},
			},
		}, nil
	})
}
