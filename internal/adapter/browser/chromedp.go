package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"pagepilot/internal/domain"
)

// Config holds chromedp driver settings.
type Config struct {
	// RemoteURL is a CDP WebSocket endpoint. Empty launches a local Chrome.
	RemoteURL string
	// Headless controls a locally launched Chrome.
	Headless bool
	// Timeout bounds each non-navigation action.
	Timeout time.Duration
	// NavTimeout bounds page loads. On expiry the load is stopped and
	// Navigate returns nil.
	NavTimeout time.Duration
}

// maxScreenshotBytes is the size above which screenshot quality is lowered.
const maxScreenshotBytes = 2 << 20

// maxConsoleBuffer bounds buffered console messages between drains.
const maxConsoleBuffer = 500

// maxNetworkBuffer bounds buffered network requests between drains.
const maxNetworkBuffer = 500

type cdpTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// ChromeDriver implements Driver on chromedp.
type ChromeDriver struct {
	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	activeID      string
	tabs          map[string]*cdpTab
	timeout       time.Duration
	navTimeout    time.Duration
	logger        *slog.Logger

	consoleMu  sync.Mutex
	consoleLog []ConsoleEntry

	dialogMu sync.Mutex
	dialog   *DialogInfo

	networkMu  sync.Mutex
	networkLog []NetworkRequest
}

// New launches or attaches to a Chrome and returns a ready driver.
func New(cfg Config, logger *slog.Logger) (*ChromeDriver, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = cfg.Timeout
	}

	d := &ChromeDriver{
		tabs:       make(map[string]*cdpTab),
		timeout:    cfg.Timeout,
		navTimeout: cfg.NavTimeout,
		logger:     logger,
	}

	var allocCtx context.Context
	if cfg.RemoteURL != "" {
		allocCtx, d.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		logger.Info("connecting to remote browser", "url", cfg.RemoteURL)
	} else {
		opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
		copy(opts, chromedp.DefaultExecAllocatorOptions[:])
		opts = append(opts,
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1280, 720),
		)
		allocCtx, d.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		logger.Info("launching local browser", "headless", cfg.Headless)
	}

	d.browserCtx, d.browserCancel = chromedp.NewContext(allocCtx)

	tabCtx, tabCancel := chromedp.NewContext(d.browserCtx)

	// The CDP session binds to the context given to the first Run, so the
	// startup timeout cannot be a derived context; it would kill the
	// session on expiry. Race a goroutine against a timer instead.
	startDone := make(chan error, 1)
	go func() { startDone <- chromedp.Run(tabCtx) }()
	select {
	case err := <-startDone:
		if err != nil {
			tabCancel()
			d.Close()
			return nil, fmt.Errorf("start browser: %w", err)
		}
	case <-time.After(cfg.Timeout):
		tabCancel()
		d.Close()
		return nil, fmt.Errorf("start browser: timed out after %v", cfg.Timeout)
	}

	ct := chromedp.FromContext(tabCtx)
	id := string(ct.Target.TargetID)
	d.tabs[id] = &cdpTab{ctx: tabCtx, cancel: tabCancel}
	d.activeID = id
	d.attachListeners(tabCtx)

	logger.Info("browser started")
	return d, nil
}

func (d *ChromeDriver) Name() string { return "chromedp" }

// activeTab returns the active tab. Caller must hold mu.
func (d *ChromeDriver) activeTab() *cdpTab {
	return d.tabs[d.activeID]
}

// actionCtx derives an action-scoped context from the active tab. chromedp
// actions must run on the tab context, so the caller's ctx cannot be the
// parent; its cancellation is propagated instead. Caller must hold mu.
func (d *ChromeDriver) actionCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(d.activeTab().ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

func (d *ChromeDriver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return d.actionCtx(ctx, d.timeout)
}

// attachListeners subscribes the tab's console, dialog and network events
// into the driver's buffers and enables the network domain for the tab.
func (d *ChromeDriver) attachListeners(tabCtx context.Context) {
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			entry := ConsoleEntry{Level: string(e.Type), Text: consoleText(e.Args), At: time.Now()}
			d.consoleMu.Lock()
			if len(d.consoleLog) < maxConsoleBuffer {
				d.consoleLog = append(d.consoleLog, entry)
			}
			d.consoleMu.Unlock()
		case *page.EventJavascriptDialogOpening:
			d.dialogMu.Lock()
			d.dialog = &DialogInfo{Type: string(e.Type), Message: e.Message}
			d.dialogMu.Unlock()
		case *page.EventJavascriptDialogClosed:
			d.dialogMu.Lock()
			d.dialog = nil
			d.dialogMu.Unlock()
		case *network.EventRequestWillBeSent:
			req := NetworkRequest{Method: e.Request.Method, URL: e.Request.URL, At: time.Now()}
			d.networkMu.Lock()
			if len(d.networkLog) < maxNetworkBuffer {
				d.networkLog = append(d.networkLog, req)
			}
			d.networkMu.Unlock()
		}
	})
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		d.logger.Warn("enable network events", "error", err)
	}
}

func consoleText(args []*runtime.RemoteObject) string {
	var parts []string
	for _, a := range args {
		switch {
		case a == nil:
			continue
		case a.Value != nil:
			var s string
			if err := json.Unmarshal(a.Value, &s); err == nil {
				parts = append(parts, s)
			} else {
				parts = append(parts, string(a.Value))
			}
		default:
			parts = append(parts, a.Description)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func (d *ChromeDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tab := d.activeTab()
	tctx, cancel := d.actionCtx(ctx, d.navTimeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// Stop loading and proceed with whatever rendered so far.
		sctx, scancel := context.WithTimeout(tab.ctx, 2*time.Second)
		defer scancel()
		_ = chromedp.Run(sctx, chromedp.Evaluate("window.stop()", nil))
		d.logger.Warn("navigation timed out, continuing with partial load", "url", url)
		return nil
	}
	return domain.WrapOp("navigate", err)
}

func (d *ChromeDriver) Back(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return domain.WrapOp("back", chromedp.Run(tctx, chromedp.NavigateBack()))
}

func (d *ChromeDriver) Forward(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return domain.WrapOp("forward", chromedp.Run(tctx, chromedp.NavigateForward()))
}

func (d *ChromeDriver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var url string
	if err := chromedp.Run(tctx, chromedp.Location(&url)); err != nil {
		return "", domain.WrapOp("current_url", err)
	}
	return url, nil
}

func (d *ChromeDriver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var title string
	if err := chromedp.Run(tctx, chromedp.Title(&title)); err != nil {
		return "", domain.WrapOp("title", err)
	}
	return title, nil
}

func (d *ChromeDriver) ProbeElements(ctx context.Context) ([]domain.ElementProbe, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var raw string
	if err := chromedp.Run(tctx, chromedp.Evaluate(probeJS, &raw)); err != nil {
		return nil, domain.WrapOp("probe", err)
	}
	return decodeProbes(raw)
}

// cdpSelector maps a locator to a chromedp selector and query option.
func cdpSelector(loc domain.Locator) (string, chromedp.QueryOption) {
	switch loc.Strategy {
	case domain.ByID:
		return loc.Value, chromedp.ByID
	case domain.ByXPath:
		return loc.Value, chromedp.BySearch
	default:
		return loc.Value, chromedp.ByQuery
	}
}

func (d *ChromeDriver) Click(ctx context.Context, loc domain.Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	sel, opt := cdpSelector(loc)
	return domain.WrapOp("click", chromedp.Run(tctx,
		chromedp.WaitVisible(sel, opt),
		chromedp.Click(sel, opt),
	))
}

func (d *ChromeDriver) ClickJS(ctx context.Context, loc domain.Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var found bool
	if err := chromedp.Run(tctx, chromedp.Evaluate(clickJS(loc), &found)); err != nil {
		return domain.WrapOp("click_js", err)
	}
	if !found {
		return domain.NewDomainError("click_js", domain.ErrElementNotFound, loc.String())
	}
	return nil
}

// elementCenter reads the located element's viewport center. Caller must
// hold mu.
func (d *ChromeDriver) elementCenter(tctx context.Context, loc domain.Locator) (float64, float64, error) {
	expr := fmt.Sprintf(`(function() {
  var el = %s;
  if (!el) return "";
  var r = el.getBoundingClientRect();
  return JSON.stringify({x: r.left + r.width / 2, y: r.top + r.height / 2});
})()`, locatorExprJS(loc))

	var raw string
	if err := chromedp.Run(tctx, chromedp.Evaluate(expr, &raw)); err != nil {
		return 0, 0, err
	}
	if raw == "" {
		return 0, 0, domain.NewDomainError("locate", domain.ErrElementNotFound, loc.String())
	}
	var pt struct{ X, Y float64 }
	if err := json.Unmarshal([]byte(raw), &pt); err != nil {
		return 0, 0, err
	}
	return pt.X, pt.Y, nil
}

func (d *ChromeDriver) Hover(ctx context.Context, loc domain.Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	x, y, err := d.elementCenter(tctx, loc)
	if err != nil {
		return domain.WrapOp("hover", err)
	}
	return domain.WrapOp("hover", chromedp.Run(tctx,
		chromedp.MouseEvent(input.MouseMoved, x, y),
	))
}

func (d *ChromeDriver) SendKeys(ctx context.Context, loc domain.Locator, text string, clear bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	sel, opt := cdpSelector(loc)
	actions := []chromedp.Action{chromedp.WaitVisible(sel, opt)}
	if clear {
		actions = append(actions, chromedp.Clear(sel, opt))
	}
	actions = append(actions, chromedp.SendKeys(sel, text, opt))
	return domain.WrapOp("send_keys", chromedp.Run(tctx, actions...))
}

func (d *ChromeDriver) SelectOption(ctx context.Context, loc domain.Locator, option string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var ok bool
	if err := chromedp.Run(tctx, chromedp.Evaluate(selectOptionJS(loc, option), &ok)); err != nil {
		return domain.WrapOp("select_option", err)
	}
	if !ok {
		return domain.NewDomainError("select_option", domain.ErrElementNotFound,
			fmt.Sprintf("%s option %q", loc, option))
	}
	return nil
}

func (d *ChromeDriver) SetFiles(ctx context.Context, loc domain.Locator, paths []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	sel, opt := cdpSelector(loc)
	return domain.WrapOp("set_files", chromedp.Run(tctx,
		chromedp.SetUploadFiles(sel, paths, opt),
	))
}

func (d *ChromeDriver) DragAndDrop(ctx context.Context, from, to domain.Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	fx, fy, err := d.elementCenter(tctx, from)
	if err != nil {
		return domain.WrapOp("drag_and_drop", err)
	}
	tx, ty, err := d.elementCenter(tctx, to)
	if err != nil {
		return domain.WrapOp("drag_and_drop", err)
	}
	return domain.WrapOp("drag_and_drop", d.dragPath(tctx, fx, fy, tx, ty))
}

// dragPath presses at the start point, moves through a midpoint, and
// releases at the end point.
func (d *ChromeDriver) dragPath(tctx context.Context, fromX, fromY, toX, toY float64) error {
	return chromedp.Run(tctx,
		chromedp.MouseEvent(input.MousePressed, fromX, fromY,
			chromedp.Button("left"), chromedp.ClickCount(1)),
		chromedp.MouseEvent(input.MouseMoved, (fromX+toX)/2, (fromY+toY)/2),
		chromedp.MouseEvent(input.MouseMoved, toX, toY),
		chromedp.MouseEvent(input.MouseReleased, toX, toY,
			chromedp.Button("left")),
	)
}

func (d *ChromeDriver) IsVisible(ctx context.Context, loc domain.Locator) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var visible bool
	if err := chromedp.Run(tctx, chromedp.Evaluate(visibleJS(loc), &visible)); err != nil {
		return false, domain.WrapOp("is_visible", err)
	}
	return visible, nil
}

func (d *ChromeDriver) TextPresent(ctx context.Context, text string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var present bool
	if err := chromedp.Run(tctx, chromedp.Evaluate(textPresentJS(text), &present)); err != nil {
		return false, domain.WrapOp("text_present", err)
	}
	return present, nil
}

func (d *ChromeDriver) PressKey(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	seq, err := keySequence(key)
	if err != nil {
		return err
	}
	return domain.WrapOp("press_key", chromedp.Run(tctx, chromedp.KeyEvent(seq)))
}

func (d *ChromeDriver) MouseMove(ctx context.Context, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return domain.WrapOp("mouse_move", chromedp.Run(tctx,
		chromedp.MouseEvent(input.MouseMoved, x, y),
	))
}

func (d *ChromeDriver) MouseClick(ctx context.Context, x, y float64, button MouseButton) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if button == "" {
		button = ButtonLeft
	}
	return domain.WrapOp("mouse_click", chromedp.Run(tctx,
		chromedp.MouseClickXY(x, y, chromedp.Button(string(button))),
	))
}

func (d *ChromeDriver) MouseDrag(ctx context.Context, fromX, fromY, toX, toY float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return domain.WrapOp("mouse_drag", d.dragPath(tctx, fromX, fromY, toX, toY))
}

func (d *ChromeDriver) Evaluate(ctx context.Context, expression string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var result interface{}
	if err := chromedp.Run(tctx, chromedp.Evaluate(expression, &result)); err != nil {
		return "", domain.WrapOp("evaluate", err)
	}

	switch v := result.(type) {
	case string:
		return v, nil
	case nil:
		return "undefined", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v), nil
		}
		return string(data), nil
	}
}

func (d *ChromeDriver) TabList(ctx context.Context) ([]TabInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	targets, err := chromedp.Targets(d.browserCtx)
	if err != nil {
		return nil, domain.WrapOp("tab_list", err)
	}

	var tabs []TabInfo
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		tabs = append(tabs, TabInfo{
			ID:     string(t.TargetID),
			Title:  t.Title,
			URL:    t.URL,
			Active: string(t.TargetID) == d.activeID,
		})
	}
	return tabs, nil
}

func (d *ChromeDriver) TabNew(ctx context.Context, url string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if url == "" {
		url = "about:blank"
	}

	// target.CreateTarget guarantees a fresh tab; chromedp.NewContext
	// without a target ID may silently reuse an existing blank one.
	var newTargetID target.ID
	if err := chromedp.Run(d.browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			newTargetID, err = target.CreateTarget(url).Do(ctx)
			return err
		}),
	); err != nil {
		return "", domain.WrapOp("tab_new", err)
	}

	newCtx, newCancel := chromedp.NewContext(d.browserCtx, chromedp.WithTargetID(newTargetID))
	if err := chromedp.Run(newCtx); err != nil {
		newCancel()
		return "", domain.WrapOp("tab_new attach", err)
	}

	id := string(newTargetID)
	d.tabs[id] = &cdpTab{ctx: newCtx, cancel: newCancel}
	d.activeID = id
	d.attachListeners(newCtx)
	return id, nil
}

func (d *ChromeDriver) TabClose(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tab, ok := d.tabs[id]
	if !ok {
		return domain.NewDomainError("tab_close", domain.ErrInvalidInput, "unknown tab "+id)
	}

	closingActive := id == d.activeID

	// Canceling the tab context is how chromedp closes tabs.
	tab.cancel()
	delete(d.tabs, id)

	if closingActive {
		d.activeID = ""
		for other := range d.tabs {
			d.activeID = other
			break
		}
		if d.activeID == "" {
			// Keep the driver usable with a fresh blank tab.
			newCtx, newCancel := chromedp.NewContext(d.browserCtx)
			if err := chromedp.Run(newCtx); err != nil {
				newCancel()
				return domain.WrapOp("tab_close replacement", err)
			}
			ct := chromedp.FromContext(newCtx)
			newID := string(ct.Target.TargetID)
			d.tabs[newID] = &cdpTab{ctx: newCtx, cancel: newCancel}
			d.activeID = newID
			d.attachListeners(newCtx)
		}
	}
	return nil
}

func (d *ChromeDriver) TabSelect(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.tabs[id]; !ok {
		return domain.NewDomainError("tab_select", domain.ErrInvalidInput, "unknown tab "+id)
	}
	d.activeID = id

	return domain.WrapOp("tab_select", chromedp.Run(d.browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return target.ActivateTarget(target.ID(id)).Do(ctx)
		}),
	))
}

// screenshotQualities is the descending JPEG quality ladder tried until the
// image fits under maxScreenshotBytes.
var screenshotQualities = []int{80, 60, 40, 20}

func (d *ChromeDriver) captureJPEG(tctx context.Context, fullPage bool, quality int) ([]byte, error) {
	var buf []byte
	var action chromedp.Action
	if fullPage {
		action = chromedp.FullScreenshot(&buf, quality)
	} else {
		q := int64(quality)
		action = chromedp.ActionFunc(func(actx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(q).
				Do(actx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		})
	}
	if err := chromedp.Run(tctx, action); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *ChromeDriver) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var buf []byte
	for _, quality := range screenshotQualities {
		var err error
		buf, err = d.captureJPEG(tctx, fullPage, quality)
		if err != nil {
			return nil, domain.WrapOp("screenshot", err)
		}
		if len(buf) <= maxScreenshotBytes {
			return buf, nil
		}
		d.logger.Debug("screenshot too large, lowering quality",
			"quality", quality, "bytes", len(buf))
	}
	// Still oversized at the lowest quality; the image is valid, let the
	// caller decide.
	return buf, nil
}

func (d *ChromeDriver) PrintPDF(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var buf []byte
	err := chromedp.Run(tctx, chromedp.ActionFunc(func(actx context.Context) error {
		data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(actx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	}))
	if err != nil {
		return nil, domain.WrapOp("print_pdf", err)
	}
	return buf, nil
}

func (d *ChromeDriver) Resize(ctx context.Context, width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return domain.WrapOp("resize", chromedp.Run(tctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
	))
}

func (d *ChromeDriver) ConsoleLogs(ctx context.Context) ([]ConsoleEntry, error) {
	d.consoleMu.Lock()
	defer d.consoleMu.Unlock()

	out := d.consoleLog
	d.consoleLog = nil
	return out, nil
}

func (d *ChromeDriver) DialogText(ctx context.Context) (DialogInfo, error) {
	d.dialogMu.Lock()
	defer d.dialogMu.Unlock()

	if d.dialog == nil {
		return DialogInfo{}, domain.NewDomainError("dialog", domain.ErrElementNotFound, "no open dialog")
	}
	return *d.dialog, nil
}

func (d *ChromeDriver) HandleDialog(ctx context.Context, accept bool, promptText string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialogMu.Lock()
	open := d.dialog
	d.dialogMu.Unlock()
	if open == nil {
		return "", domain.NewDomainError("dialog", domain.ErrElementNotFound, "no open dialog")
	}

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()

	action := page.HandleJavaScriptDialog(accept)
	if promptText != "" {
		action = action.WithPromptText(promptText)
	}
	if err := chromedp.Run(tctx, action); err != nil {
		return "", domain.WrapOp("dialog", err)
	}

	d.dialogMu.Lock()
	d.dialog = nil
	d.dialogMu.Unlock()
	return open.Message, nil
}

func (d *ChromeDriver) NetworkRequests(ctx context.Context) ([]NetworkRequest, error) {
	d.networkMu.Lock()
	defer d.networkMu.Unlock()

	out := d.networkLog
	d.networkLog = nil
	return out, nil
}

func (d *ChromeDriver) ClearNetworkLog(ctx context.Context) error {
	d.networkMu.Lock()
	defer d.networkMu.Unlock()

	d.networkLog = nil
	return nil
}

func (d *ChromeDriver) SetOffline(ctx context.Context, offline bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return domain.WrapOp("set_offline", chromedp.Run(tctx,
		network.EmulateNetworkConditions(offline, 0, -1, -1),
	))
}

func (d *ChromeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, tab := range d.tabs {
		tab.cancel()
	}
	d.tabs = map[string]*cdpTab{}
	if d.browserCancel != nil {
		d.browserCancel()
	}
	if d.allocCancel != nil {
		d.allocCancel()
	}
	d.logger.Info("browser closed")
	return nil
}
