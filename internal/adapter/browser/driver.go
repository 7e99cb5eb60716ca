// Package browser provides the live-page capability behind the tool layer.
// The Driver interface is what tool handlers program against; the chromedp
// implementation talks to a real Chrome over CDP.
package browser

import (
	"context"
	"time"

	"pagepilot/internal/domain"
)

// MouseButton names a pointer button for coordinate-based clicks.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// TabInfo describes one open page target.
type TabInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// ConsoleEntry is one captured browser console message.
type ConsoleEntry struct {
	Level string    `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// DialogInfo describes an open JavaScript dialog (alert, confirm, prompt).
type DialogInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NetworkRequest is one captured outgoing page request.
type NetworkRequest struct {
	Method string    `json:"method"`
	URL    string    `json:"url"`
	At     time.Time `json:"at"`
}

// Driver is the browser capability. Implementations must be safe for
// concurrent use; the tool layer additionally serializes tool runs, so
// contention is limited to background consumers.
type Driver interface {
	// Navigate loads url in the active tab. Exceeding the navigation
	// timeout stops loading and returns nil so work proceeds against the
	// partially loaded page.
	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error

	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)

	// ProbeElements walks the DOM once and returns raw element probes for
	// snapshot construction. Classification happens in the domain layer.
	ProbeElements(ctx context.Context) ([]domain.ElementProbe, error)

	Click(ctx context.Context, loc domain.Locator) error
	// ClickJS dispatches a synthetic click through script, for elements a
	// native click cannot reach (overlays, off-screen targets).
	ClickJS(ctx context.Context, loc domain.Locator) error
	Hover(ctx context.Context, loc domain.Locator) error
	// SendKeys types text into the element. With clear set, existing
	// content is removed first.
	SendKeys(ctx context.Context, loc domain.Locator, text string, clear bool) error
	// SelectOption picks a <select> option by value or visible label.
	SelectOption(ctx context.Context, loc domain.Locator, option string) error
	SetFiles(ctx context.Context, loc domain.Locator, paths []string) error
	DragAndDrop(ctx context.Context, from, to domain.Locator) error

	IsVisible(ctx context.Context, loc domain.Locator) (bool, error)
	TextPresent(ctx context.Context, text string) (bool, error)

	PressKey(ctx context.Context, key string) error
	MouseMove(ctx context.Context, x, y float64) error
	MouseClick(ctx context.Context, x, y float64, button MouseButton) error
	MouseDrag(ctx context.Context, fromX, fromY, toX, toY float64) error

	Evaluate(ctx context.Context, expression string) (string, error)

	TabList(ctx context.Context) ([]TabInfo, error)
	TabNew(ctx context.Context, url string) (string, error)
	TabClose(ctx context.Context, id string) error
	TabSelect(ctx context.Context, id string) error

	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	PrintPDF(ctx context.Context) ([]byte, error)
	Resize(ctx context.Context, width, height int) error

	// ConsoleLogs drains messages captured since the last call.
	ConsoleLogs(ctx context.Context) ([]ConsoleEntry, error)

	// DialogText reports the open JavaScript dialog without closing it.
	DialogText(ctx context.Context) (DialogInfo, error)
	// HandleDialog accepts or dismisses the open dialog and returns its
	// message. promptText is typed into a prompt before accepting.
	HandleDialog(ctx context.Context, accept bool, promptText string) (string, error)

	// NetworkRequests drains requests captured since the last call.
	NetworkRequests(ctx context.Context) ([]NetworkRequest, error)
	ClearNetworkLog(ctx context.Context) error
	// SetOffline toggles offline network emulation for the active tab.
	SetOffline(ctx context.Context, offline bool) error

	Name() string
	Close() error
}
