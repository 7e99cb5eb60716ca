package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

// NewStartRecordingTool clears the action history and begins recording.
func NewStartRecordingTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "start_recording",
		Description: "Start recording browser actions for script generation (clears previous history)",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Start action recording"},
			Effect: &domain.Effect{
				Op: "start_recording",
				Run: func(ctx context.Context) (any, error) {
					id, err := exec.Recorder().Start(ctx)
					if err != nil {
						return nil, err
					}
					return fmt.Sprintf("Recording started (session %s)", id), nil
				},
			},
		}, nil
	})
}

// NewStopRecordingTool stops recording; the history stays available for
// generate_script.
func NewStopRecordingTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "stop_recording",
		Description: "Stop recording browser actions (history is kept for script generation)",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Stop action recording"},
			Effect: &domain.Effect{
				Op: "stop_recording",
				Run: func(ctx context.Context) (any, error) {
					exec.Recorder().Stop()
					st := exec.Recorder().Status(ctx)
					return fmt.Sprintf("Recording stopped (%d actions captured)", st.Actions), nil
				},
			},
		}, nil
	})
}

// NewRecordingStatusTool reports the recorder state.
func NewRecordingStatusTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "recording_status",
		Description: "Report whether recording is active and how many actions are captured",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Recording status"},
			Effect: &domain.Effect{
				Op: "recording_status",
				Run: func(ctx context.Context) (any, error) {
					return exec.Recorder().Status(ctx), nil
				},
			},
		}, nil
	})
}

// NewClearRecordingTool empties the action history unconditionally.
func NewClearRecordingTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "clear_recording",
		Description: "Clear the recorded action history",
		Kind:        domain.ToolKindReadOnly,
		Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{
			Code: []string{"# Clear recorded actions"},
			Effect: &domain.Effect{
				Op: "clear_recording",
				Run: func(ctx context.Context) (any, error) {
					if err := exec.Recorder().Clear(ctx); err != nil {
						return nil, err
					}
					return "Recording history cleared", nil
				},
			},
		}, nil
	})
}
