package browser

import (
	"github.com/chromedp/chromedp/kb"

	"pagepilot/internal/domain"
)

// namedKeys maps the key names tools accept to the rune sequences the
// keyboard layer understands.
var namedKeys = map[string]string{
	"ENTER":       kb.Enter,
	"RETURN":      kb.Enter,
	"TAB":         kb.Tab,
	"ESCAPE":      kb.Escape,
	"ESC":         kb.Escape,
	"SPACE":       " ",
	"BACKSPACE":   kb.Backspace,
	"DELETE":      kb.Delete,
	"ARROW_UP":    kb.ArrowUp,
	"ARROW_DOWN":  kb.ArrowDown,
	"ARROW_LEFT":  kb.ArrowLeft,
	"ARROW_RIGHT": kb.ArrowRight,
	"UP":          kb.ArrowUp,
	"DOWN":        kb.ArrowDown,
	"LEFT":        kb.ArrowLeft,
	"RIGHT":       kb.ArrowRight,
	"HOME":        kb.Home,
	"END":         kb.End,
	"PAGE_UP":     kb.PageUp,
	"PAGE_DOWN":   kb.PageDown,
}

// keySequence resolves a key name to the sequence for a key event. Single
// printable characters pass through unchanged.
func keySequence(key string) (string, error) {
	if seq, ok := namedKeys[key]; ok {
		return seq, nil
	}
	if len([]rune(key)) == 1 {
		return key, nil
	}
	return "", domain.NewDomainError("press_key", domain.ErrInvalidInput, "unknown key "+key)
}
