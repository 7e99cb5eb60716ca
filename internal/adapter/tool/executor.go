package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"pagepilot/internal/adapter/browser"
	"pagepilot/internal/domain"
	"pagepilot/internal/infra/tracer"
)

// controlTools are never recorded: they manage the recording itself, and a
// generated script must contain only the actions performed between start
// and stop.
var controlTools = map[string]bool{
	"start_recording":  true,
	"stop_recording":   true,
	"recording_status": true,
	"clear_recording":  true,
	"generate_script":  true,
}

// Options tunes the execution pipeline.
type Options struct {
	// RateLimitPerMinute caps destructive tool invocations. 0 disables.
	RateLimitPerMinute int
	// SettleDelay is waited after effects that declare WaitForNetwork.
	SettleDelay time.Duration
}

// Executor is the single choke-point for tool invocation. It owns the
// current snapshot and the browser session handle; tool handlers read both
// only through its accessors. Runs are serialized by a mutex because the
// snapshot is shared mutable state and the browser session is a
// single-threaded external resource.
type Executor struct {
	mu       sync.Mutex
	registry *Registry
	session  *browser.Manager
	recorder *Recorder
	logger   *slog.Logger
	limiter  *rate.Limiter
	settle   time.Duration
	snapshot *domain.PageSnapshot
}

// NewExecutor wires the pipeline together.
func NewExecutor(reg *Registry, session *browser.Manager, rec *Recorder, logger *slog.Logger, opts Options) *Executor {
	e := &Executor{
		registry: reg,
		session:  session,
		recorder: rec,
		logger:   logger,
		settle:   opts.SettleDelay,
	}
	if opts.RateLimitPerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitPerMinute)/60.0, opts.RateLimitPerMinute)
	}
	return e
}

// Run dispatches one tool call and always returns a structured result;
// errors from any stage become failure results, never panics or raw error
// returns across this boundary.
func (e *Executor) Run(ctx context.Context, name string, raw json.RawMessage) *domain.RunResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := tracer.StartSpan(ctx, "tool."+name,
		trace.WithAttributes(tracer.StringAttr("tool.name", name)),
	)
	defer span.End()

	t, err := e.registry.Get(name)
	if err != nil {
		return e.fail(span, name, err)
	}

	if err := e.registry.Validate(name, raw); err != nil {
		return e.fail(span, name, err)
	}

	if t.Schema().Kind == domain.ToolKindDestructive && e.limiter != nil && !e.limiter.Allow() {
		return e.fail(span, name, domain.NewDomainError("tool.run", domain.ErrRateLimit, name))
	}

	// Record intent before execution so the history reflects what was
	// asked for even when execution fails.
	if !controlTools[name] {
		e.recorder.Record(ctx, name, raw)
	}

	res, err := t.Handle(ctx, e, raw)
	if err != nil {
		return e.fail(span, name, err)
	}
	if res == nil {
		res = &domain.ToolResult{}
	}

	out := &domain.RunResult{Tool: name}

	var confirmation, effectText string
	captured := false
	if res.Effect != nil {
		span.SetAttributes(tracer.StringAttr("tool.effect", res.Effect.Op))
		val, err := res.Effect.Run(ctx)
		if err != nil {
			return e.fail(span, name, err)
		}
		switch v := val.(type) {
		case nil:
		case string:
			effectText = v
		default:
			if data, merr := json.MarshalIndent(v, "", "  "); merr == nil {
				out.Payload = data
			} else {
				effectText = fmt.Sprintf("%v", v)
			}
		}
		if res.WaitForNetwork && e.settle > 0 {
			time.Sleep(e.settle)
		}
		if res.CaptureSnapshot {
			e.capture(ctx)
			captured = true
		}
		confirmation = name + " executed successfully"
	} else {
		// No deferred effect: a pure documentation/preparation tool.
		confirmation = name + " prepared"
	}

	var b strings.Builder
	b.WriteString(confirmation)
	if len(res.Code) > 0 {
		b.WriteString("\n```\n")
		b.WriteString(strings.Join(res.Code, "\n"))
		b.WriteString("\n```")
	}
	if effectText != "" {
		b.WriteString("\n")
		b.WriteString(effectText)
	}
	if captured {
		b.WriteString("\n\n")
		b.WriteString(RenderSnapshot(e.snapshot))
	}
	out.Text = b.String()

	tracer.SetOK(span)
	return out
}

// fail converts any pipeline error into a structured failure result.
func (e *Executor) fail(span trace.Span, name string, err error) *domain.RunResult {
	tracer.RecordError(span, err)
	e.logger.Warn("tool failed", "tool", name, "error", err)

	retryable := domain.IsRetryableError(err)
	text := fmt.Sprintf("%s failed: %s", name, err.Error())
	if retryable {
		text += " (transient, retry may succeed)"
	}
	return &domain.RunResult{
		Tool:      name,
		Text:      text,
		Err:       err.Error(),
		Retryable: retryable,
	}
}

// capture replaces the current snapshot with a fresh scan of the live page.
// It never fails: an unreadable page degrades to an empty snapshot, a failed
// element probe to a snapshot with metadata only.
func (e *Executor) capture(ctx context.Context) {
	d, err := e.session.Get(ctx)
	if err != nil {
		e.logger.Warn("capture degraded to empty snapshot", "error", err)
		e.snapshot = domain.EmptySnapshot()
		return
	}
	url, err := d.CurrentURL(ctx)
	if err != nil {
		e.logger.Warn("capture degraded to empty snapshot", "error", err)
		e.snapshot = domain.EmptySnapshot()
		return
	}
	title, err := d.Title(ctx)
	if err != nil {
		e.logger.Warn("capture degraded to empty snapshot", "error", err)
		e.snapshot = domain.EmptySnapshot()
		return
	}
	probes, err := d.ProbeElements(ctx)
	if err != nil {
		e.logger.Warn("element probe failed, keeping page metadata only", "error", err)
		e.snapshot = &domain.PageSnapshot{URL: url, Title: title}
		return
	}
	e.snapshot = domain.BuildSnapshot(url, title, probes)
	e.logger.Debug("snapshot captured", "url", url, "elements", len(e.snapshot.Elements))
}

// The accessors below are for tool handlers and effects, which always run
// under the Run mutex; they must not lock it again.

// Driver returns the live browser session, launching one if needed.
func (e *Executor) Driver(ctx context.Context) (browser.Driver, error) {
	return e.session.Get(ctx)
}

// Session exposes the session manager for lifecycle tools.
func (e *Executor) Session() *browser.Manager { return e.session }

// RequireSnapshot returns a read view of the current snapshot, or
// ErrNoSnapshot when nothing has been captured yet. The copy keeps handlers
// from mutating executor-owned state.
func (e *Executor) RequireSnapshot() (*domain.PageSnapshot, error) {
	if e.snapshot == nil {
		return nil, domain.ErrNoSnapshot
	}
	return copySnapshot(e.snapshot), nil
}

// ResolveRef maps a snapshot reference to a live-page locator. Unknown refs
// resolve to the degenerate fallback locator; only a missing snapshot is an
// error here.
func (e *Executor) ResolveRef(ref string) (domain.Locator, error) {
	if e.snapshot == nil {
		return domain.Locator{}, domain.ErrNoSnapshot
	}
	return e.snapshot.ResolveRef(ref), nil
}

// clearSnapshot drops the current snapshot. For session lifecycle effects,
// which run under the Run mutex.
func (e *Executor) clearSnapshot() { e.snapshot = nil }

// Recorder exposes the action recorder for the recording control tools.
func (e *Executor) Recorder() *Recorder { return e.recorder }

// Logger exposes the pipeline logger to handlers.
func (e *Executor) Logger() *slog.Logger { return e.logger }

// SnapshotView returns a read copy of the current snapshot (nil when none
// exists). Safe to call from outside a tool run.
func (e *Executor) SnapshotView() *domain.PageSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshot == nil {
		return nil
	}
	return copySnapshot(e.snapshot)
}

// Close releases the browser session. Further runs lazily recreate it.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = nil
	return e.session.Close()
}

func copySnapshot(s *domain.PageSnapshot) *domain.PageSnapshot {
	out := &domain.PageSnapshot{URL: s.URL, Title: s.Title}
	out.Elements = make([]domain.ElementDescriptor, len(s.Elements))
	for i, el := range s.Elements {
		cp := el
		cp.CSSClasses = append([]string(nil), el.CSSClasses...)
		cp.Attributes = make(map[string]string, len(el.Attributes))
		for k, v := range el.Attributes {
			cp.Attributes[k] = v
		}
		out.Elements[i] = cp
	}
	return out
}
