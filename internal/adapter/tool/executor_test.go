package tool

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagepilot/internal/adapter/browser"
	"pagepilot/internal/adapter/history"
	"pagepilot/internal/domain"
)

// fakeDriver is an in-memory Driver for pipeline tests. Only the methods the
// tests exercise do anything; the rest satisfy the interface.
type fakeDriver struct {
	mu        sync.Mutex
	url       string
	title     string
	probes    []domain.ElementProbe
	clickErr  error
	navigated []string
	clicks    []domain.Locator
	jsClicks  []domain.Locator
	tabs      []browser.TabInfo
	closed    bool

	dialog        *browser.DialogInfo
	dialogAccepts []bool
	promptTexts   []string
	netlog        []browser.NetworkRequest
	offline       bool
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	f.url = url
	return nil
}

func (f *fakeDriver) Back(ctx context.Context) error    { return nil }
func (f *fakeDriver) Forward(ctx context.Context) error { return nil }

func (f *fakeDriver) CurrentURL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url, nil
}

func (f *fakeDriver) Title(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, nil
}

func (f *fakeDriver) ProbeElements(ctx context.Context) ([]domain.ElementProbe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes, nil
}

func (f *fakeDriver) Click(ctx context.Context, loc domain.Locator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, loc)
	return f.clickErr
}

func (f *fakeDriver) ClickJS(ctx context.Context, loc domain.Locator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jsClicks = append(f.jsClicks, loc)
	return nil
}

func (f *fakeDriver) Hover(ctx context.Context, loc domain.Locator) error { return nil }
func (f *fakeDriver) SendKeys(ctx context.Context, loc domain.Locator, text string, clear bool) error {
	return nil
}
func (f *fakeDriver) SelectOption(ctx context.Context, loc domain.Locator, option string) error {
	return nil
}
func (f *fakeDriver) SetFiles(ctx context.Context, loc domain.Locator, paths []string) error {
	return nil
}
func (f *fakeDriver) DragAndDrop(ctx context.Context, from, to domain.Locator) error { return nil }
func (f *fakeDriver) IsVisible(ctx context.Context, loc domain.Locator) (bool, error) {
	return true, nil
}
func (f *fakeDriver) TextPresent(ctx context.Context, text string) (bool, error) { return true, nil }
func (f *fakeDriver) PressKey(ctx context.Context, key string) error             { return nil }
func (f *fakeDriver) MouseMove(ctx context.Context, x, y float64) error          { return nil }
func (f *fakeDriver) MouseClick(ctx context.Context, x, y float64, button browser.MouseButton) error {
	return nil
}
func (f *fakeDriver) MouseDrag(ctx context.Context, fromX, fromY, toX, toY float64) error {
	return nil
}
func (f *fakeDriver) Evaluate(ctx context.Context, expression string) (string, error) {
	return "", nil
}

func (f *fakeDriver) TabList(ctx context.Context) ([]browser.TabInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tabs, nil
}

func (f *fakeDriver) TabNew(ctx context.Context, url string) (string, error) { return "tab-1", nil }
func (f *fakeDriver) TabClose(ctx context.Context, id string) error          { return nil }
func (f *fakeDriver) TabSelect(ctx context.Context, id string) error         { return nil }
func (f *fakeDriver) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	return []byte("png"), nil
}
func (f *fakeDriver) PrintPDF(ctx context.Context) ([]byte, error) { return []byte("pdf"), nil }
func (f *fakeDriver) Resize(ctx context.Context, width, height int) error {
	return nil
}
func (f *fakeDriver) ConsoleLogs(ctx context.Context) ([]browser.ConsoleEntry, error) {
	return nil, nil
}

func (f *fakeDriver) DialogText(ctx context.Context) (browser.DialogInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dialog == nil {
		return browser.DialogInfo{}, domain.NewDomainError("dialog", domain.ErrElementNotFound, "no open dialog")
	}
	return *f.dialog, nil
}

func (f *fakeDriver) HandleDialog(ctx context.Context, accept bool, promptText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dialog == nil {
		return "", domain.NewDomainError("dialog", domain.ErrElementNotFound, "no open dialog")
	}
	f.dialogAccepts = append(f.dialogAccepts, accept)
	f.promptTexts = append(f.promptTexts, promptText)
	msg := f.dialog.Message
	f.dialog = nil
	return msg, nil
}

func (f *fakeDriver) NetworkRequests(ctx context.Context) ([]browser.NetworkRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.netlog
	f.netlog = nil
	return out, nil
}

func (f *fakeDriver) ClearNetworkLog(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.netlog = nil
	return nil
}

func (f *fakeDriver) SetOffline(ctx context.Context, offline bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
	return nil
}
func (f *fakeDriver) Name() string { return "fake" }

func (f *fakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func buttonProbe(text string) domain.ElementProbe {
	return domain.ElementProbe{
		Tag:       "button",
		Text:      text,
		Attrs:     map[string]string{},
		Displayed: true,
		Enabled:   true,
	}
}

// newTestExecutor wires a pipeline around a fake browser with the full tool
// set registered.
func newTestExecutor(t *testing.T, d *fakeDriver, opts Options) *Executor {
	t.Helper()

	reg := NewRegistry(discard())
	for _, tool := range []Tool{
		NewNavigateTool(), NewCapturePageTool(), NewClickTool(), NewTypeTextTool(),
		NewStartRecordingTool(), NewStopRecordingTool(), NewRecordingStatusTool(),
		NewClearRecordingTool(), NewGenerateScriptTool(), NewTabListTool(),
		NewDialogHandleTool(), NewNetworkMonitorTool(),
	} {
		require.NoError(t, reg.Register(tool))
	}

	session := browser.NewManager(func(ctx context.Context) (browser.Driver, error) {
		return d, nil
	}, discard())
	rec := NewRecorder(history.NewMemoryStore(), discard())
	return NewExecutor(reg, session, rec, discard(), opts)
}

func TestRunUnknownTool(t *testing.T) {
	exec := newTestExecutor(t, &fakeDriver{}, Options{})

	res := exec.Run(context.Background(), "does_not_exist", nil)
	require.True(t, res.IsError())
	assert.Contains(t, res.Text, "does_not_exist failed:")
	assert.False(t, res.Retryable)
}

func TestRunValidationFailureSkipsEffect(t *testing.T) {
	d := &fakeDriver{}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "navigate_to", json.RawMessage(`{}`))
	require.True(t, res.IsError())
	assert.Contains(t, res.Text, "navigate_to failed:")
	assert.Empty(t, d.navigated, "effect must not run on invalid input")
}

func TestRunNavigateCapturesPageState(t *testing.T) {
	d := &fakeDriver{
		title:  "Example Domain",
		probes: []domain.ElementProbe{buttonProbe("Submit")},
	}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "navigate_to",
		json.RawMessage(`{"url": "https://example.com"}`))
	require.False(t, res.IsError(), res.Text)

	assert.Contains(t, res.Text, "navigate_to executed successfully")
	assert.Contains(t, res.Text, "# Navigate to https://example.com")
	assert.Contains(t, res.Text, "- Page URL: https://example.com")
	assert.Contains(t, res.Text, "- Page Title: Example Domain")
	assert.Contains(t, res.Text, `- button "Submit" [ref=e1]`)
	assert.Equal(t, []string{"https://example.com"}, d.navigated)
}

func TestRunClickWithoutSnapshot(t *testing.T) {
	d := &fakeDriver{}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "click_element",
		json.RawMessage(`{"element": "Submit button", "ref": "e1"}`))
	require.True(t, res.IsError())
	assert.Contains(t, res.Text, "click_element failed:")
	assert.Contains(t, res.Err, "no snapshot available")
	assert.Empty(t, d.clicks)
}

func TestRunClickResolvedRef(t *testing.T) {
	d := &fakeDriver{probes: []domain.ElementProbe{buttonProbe("Submit")}}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "capture_page", nil)
	require.False(t, res.IsError(), res.Text)

	res = exec.Run(context.Background(), "click_element",
		json.RawMessage(`{"element": "Submit button", "ref": "e1"}`))
	require.False(t, res.IsError(), res.Text)

	require.Len(t, d.clicks, 1)
	assert.Equal(t, domain.ByXPath, d.clicks[0].Strategy)
	assert.Contains(t, d.clicks[0].Value, "Submit")
}

func TestRunClickUnknownRefUsesFallbackLocator(t *testing.T) {
	d := &fakeDriver{probes: []domain.ElementProbe{buttonProbe("Submit")}}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "capture_page", nil)
	require.False(t, res.IsError(), res.Text)

	// e99 is not in the snapshot; the click degrades to the data-ref
	// fallback selector instead of failing at resolution time.
	res = exec.Run(context.Background(), "click_element",
		json.RawMessage(`{"element": "ghost", "ref": "e99"}`))
	require.False(t, res.IsError(), res.Text)
	require.Len(t, d.clicks, 1)
	assert.Equal(t, domain.Locator{Strategy: domain.ByCSS, Value: "[data-ref='e99']"}, d.clicks[0])
}

func TestRunClickFallsBackToScriptClick(t *testing.T) {
	d := &fakeDriver{
		probes:   []domain.ElementProbe{buttonProbe("Submit")},
		clickErr: domain.NewDomainError("browser.click", domain.ErrElementNotFound, "e1"),
	}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "capture_page", nil)
	require.False(t, res.IsError(), res.Text)

	res = exec.Run(context.Background(), "click_element",
		json.RawMessage(`{"element": "Submit button", "ref": "e1"}`))
	require.False(t, res.IsError(), res.Text)
	assert.Len(t, d.clicks, 1)
	assert.Len(t, d.jsClicks, 1)
}

func TestRunPreparedToolWithoutEffect(t *testing.T) {
	exec := newTestExecutor(t, &fakeDriver{}, Options{})
	require.NoError(t, exec.registry.Register(NewTool(domain.ToolSchema{
		Name:       "describe_plan",
		Kind:       domain.ToolKindReadOnly,
		Parameters: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, func(ctx context.Context, exec *Executor, _ struct{}) (*domain.ToolResult, error) {
		return &domain.ToolResult{Code: []string{"# step one"}}, nil
	})))

	res := exec.Run(context.Background(), "describe_plan", nil)
	require.False(t, res.IsError(), res.Text)
	assert.True(t, strings.HasPrefix(res.Text, "describe_plan prepared"))
	assert.Contains(t, res.Text, "```\n# step one\n```")
	assert.NotContains(t, res.Text, "### Page state")
}

func TestRunReadOnlyReplayIsIdentical(t *testing.T) {
	d := &fakeDriver{
		url:    "https://example.com",
		title:  "Example",
		probes: []domain.ElementProbe{buttonProbe("Submit"), buttonProbe("Cancel")},
	}
	exec := newTestExecutor(t, d, Options{})

	first := exec.Run(context.Background(), "capture_page", nil)
	second := exec.Run(context.Background(), "capture_page", nil)
	require.False(t, first.IsError())
	require.False(t, second.IsError())
	assert.Equal(t, first.Text, second.Text)
}

func TestRunRateLimitsDestructiveTools(t *testing.T) {
	d := &fakeDriver{}
	exec := newTestExecutor(t, d, Options{RateLimitPerMinute: 1})

	res := exec.Run(context.Background(), "navigate_to",
		json.RawMessage(`{"url": "https://example.com"}`))
	require.False(t, res.IsError(), res.Text)

	res = exec.Run(context.Background(), "navigate_to",
		json.RawMessage(`{"url": "https://example.com/2"}`))
	require.True(t, res.IsError())
	assert.Contains(t, res.Err, "rate limit")
	assert.True(t, res.Retryable)
	assert.Contains(t, res.Text, "(transient, retry may succeed)")

	// Read-only tools are never limited.
	res = exec.Run(context.Background(), "capture_page", nil)
	assert.False(t, res.IsError(), res.Text)
}

func TestRunPayloadForStructuredResults(t *testing.T) {
	d := &fakeDriver{tabs: []browser.TabInfo{{ID: "t1", URL: "https://example.com", Active: true}}}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "tab_list", nil)
	require.False(t, res.IsError(), res.Text)
	require.NotEmpty(t, res.Payload)

	var tabs []browser.TabInfo
	require.NoError(t, json.Unmarshal(res.Payload, &tabs))
	require.Len(t, tabs, 1)
	assert.Equal(t, "t1", tabs[0].ID)
}

func TestRunRecordingFlow(t *testing.T) {
	d := &fakeDriver{probes: []domain.ElementProbe{buttonProbe("Submit")}}
	exec := newTestExecutor(t, d, Options{})
	ctx := context.Background()

	res := exec.Run(ctx, "start_recording", nil)
	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "Recording started")

	res = exec.Run(ctx, "navigate_to", json.RawMessage(`{"url": "https://example.com"}`))
	require.False(t, res.IsError(), res.Text)
	res = exec.Run(ctx, "click_element", json.RawMessage(`{"element": "Submit", "ref": "e1"}`))
	require.False(t, res.IsError(), res.Text)

	res = exec.Run(ctx, "stop_recording", nil)
	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "Recording stopped (2 actions captured)")

	// Control tools never appear in the recorded history.
	entries, err := exec.Recorder().Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "navigate_to", entries[0].Tool)
	assert.Equal(t, "click_element", entries[1].Tool)

	res = exec.Run(ctx, "generate_script", json.RawMessage(`{"format": "pytest"}`))
	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "generate_script executed successfully")
	assert.Contains(t, res.Text, `driver.get("https://example.com")`)
}

func TestRunGenerateScriptWithoutHistory(t *testing.T) {
	exec := newTestExecutor(t, &fakeDriver{}, Options{})

	res := exec.Run(context.Background(), "generate_script",
		json.RawMessage(`{"format": "pytest"}`))
	require.False(t, res.IsError(), res.Text)
	assert.True(t, strings.HasPrefix(res.Text, "generate_script prepared"))
	assert.Contains(t, res.Text, "No actions recorded")
}

func TestRunGenerateScriptBadFormat(t *testing.T) {
	exec := newTestExecutor(t, &fakeDriver{}, Options{})

	res := exec.Run(context.Background(), "generate_script",
		json.RawMessage(`{"format": "cypress"}`))
	require.True(t, res.IsError())
	assert.Contains(t, res.Err, "invalid")
}

func TestRunFailedToolStillRecorded(t *testing.T) {
	d := &fakeDriver{}
	exec := newTestExecutor(t, d, Options{})
	ctx := context.Background()

	res := exec.Run(ctx, "start_recording", nil)
	require.False(t, res.IsError(), res.Text)

	// No snapshot exists, so the click fails, but the intent is recorded.
	res = exec.Run(ctx, "click_element", json.RawMessage(`{"element": "x", "ref": "e1"}`))
	require.True(t, res.IsError())

	entries, err := exec.Recorder().Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "click_element", entries[0].Tool)
}

func TestSnapshotViewIsACopy(t *testing.T) {
	d := &fakeDriver{
		url:    "https://example.com",
		probes: []domain.ElementProbe{buttonProbe("Submit")},
	}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "capture_page", nil)
	require.False(t, res.IsError(), res.Text)

	view := exec.SnapshotView()
	require.NotNil(t, view)
	require.Len(t, view.Elements, 1)
	view.Elements[0].AccessibleText = "mutated"
	view.Elements[0].Attributes["role"] = "mutated"

	again := exec.SnapshotView()
	assert.Equal(t, "Submit", again.Elements[0].AccessibleText)
	assert.Empty(t, again.Elements[0].Attributes["role"])
}

func TestExecutorClose(t *testing.T) {
	d := &fakeDriver{}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "capture_page", nil)
	require.False(t, res.IsError(), res.Text)

	require.NoError(t, exec.Close())
	assert.True(t, d.closed)
	assert.Nil(t, exec.SnapshotView())
}
