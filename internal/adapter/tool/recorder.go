package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pagepilot/internal/adapter/history"
	"pagepilot/internal/domain"
)

// RecordingStatus is the introspection view of the recorder.
type RecordingStatus struct {
	Active    bool   `json:"active"`
	SessionID string `json:"session_id,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
	Actions   int    `json:"actions"`
}

// Recorder gates the action history: while active, every tool invocation's
// raw arguments are appended exactly as submitted, before execution, so
// generated scripts reflect caller intent even when execution later fails.
type Recorder struct {
	mu        sync.Mutex
	store     history.Store
	logger    *slog.Logger
	active    bool
	sessionID string
	startedAt time.Time
}

func NewRecorder(store history.Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Start clears the history and begins a new recording session.
func (r *Recorder) Start(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Clear(ctx); err != nil {
		return "", err
	}
	r.active = true
	r.sessionID = history.NewID()
	r.startedAt = time.Now()
	return r.sessionID, nil
}

// Stop disables recording. The history is retained for script generation.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
}

// Clear empties the history unconditionally.
func (r *Recorder) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Clear(ctx)
}

func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Record appends one invocation if recording is active. Store failures are
// logged, never propagated: recording must not fail the tool run.
func (r *Recorder) Record(ctx context.Context, toolName string, raw json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	params := raw
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}
	entry := domain.ActionEntry{
		ID:     history.NewID(),
		Tool:   toolName,
		Params: params,
		At:     time.Now().UnixMilli(),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.Warn("failed to record action", "tool", toolName, "error", err)
	}
}

// Entries returns the recorded actions in invocation order.
func (r *Recorder) Entries(ctx context.Context) ([]domain.ActionEntry, error) {
	return r.store.List(ctx)
}

// Status reports the current recording state.
func (r *Recorder) Status(ctx context.Context) RecordingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := RecordingStatus{Active: r.active, SessionID: r.sessionID}
	if !r.startedAt.IsZero() {
		st.StartedAt = r.startedAt.UTC().Format(time.RFC3339)
	}
	if entries, err := r.store.List(ctx); err == nil {
		st.Actions = len(entries)
	}
	return st
}
