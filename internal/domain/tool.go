package domain

import (
	"context"
	"encoding/json"
)

// ToolKind classifies a tool by its effect on page state. The classification
// is advisory: callers may use it to warn before state-changing actions, the
// execution pipeline treats both kinds identically.
type ToolKind string

const (
	ToolKindReadOnly    ToolKind = "readOnly"
	ToolKindDestructive ToolKind = "destructive"
)

// ToolSchema describes a tool for the tool-calling protocol.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
	Kind        ToolKind        `json:"kind"`
}

// Effect is the deferred side effect a tool wants performed. Handlers build
// one instead of touching the browser themselves, so the execution context
// controls sequencing, error isolation and logging. Op tags the intended
// operation for traces and logs; Run performs it.
//
// Run's return value feeds the response: a string is appended to the
// response text, any other non-nil value is marshaled into the structured
// payload.
type Effect struct {
	Op  string
	Run func(ctx context.Context) (any, error)
}

// ToolResult is what a tool handler returns before anything executes:
// pseudo-code lines documenting the intended action, the optional deferred
// effect, and post-execution flags. Constructed fresh per invocation and
// consumed exactly once.
type ToolResult struct {
	Code            []string
	Effect          *Effect
	CaptureSnapshot bool
	WaitForNetwork  bool
}

// RunResult is the uniform response of a tool invocation — the sole public
// surface of the core. Err is empty on success.
type RunResult struct {
	Tool      string          `json:"tool"`
	Text      string          `json:"text"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Err       string          `json:"error,omitempty"`
	Retryable bool            `json:"retryable,omitempty"`
}

// IsError reports whether the invocation failed.
func (r *RunResult) IsError() bool { return r.Err != "" }

// ActionEntry is one recorded tool invocation. Params holds the raw,
// pre-validation arguments so generated scripts reflect caller intent.
type ActionEntry struct {
	ID     string          `json:"id"`
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params"`
	At     int64           `json:"at"` // unix milliseconds
}
