package domain

import (
	"fmt"
	"strings"
)

// LocatorStrategy names a way of finding an element on the live page.
type LocatorStrategy string

const (
	ByID    LocatorStrategy = "id"
	ByXPath LocatorStrategy = "xpath"
	ByCSS   LocatorStrategy = "css"
)

// Locator is a (strategy, value) pair resolvable against the live page by
// the browser capability.
type Locator struct {
	Strategy LocatorStrategy `json:"strategy"`
	Value    string          `json:"value"`
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// ResolveRef derives a locator for a reference captured in this snapshot.
// Pure function of the stored descriptor: it never re-reads the live DOM
// and never fails. Precedence, first satisfied wins:
//
//	id attribute > tag+text containment > tag+role > tag+all classes.
//
// Text matching is substring containment, not equality: more robust against
// whitespace churn, at the cost of ambiguity among duplicate texts (first
// match wins downstream). Unknown refs, and descriptors with none of the
// above, fall through to a data-ref attribute selector that almost certainly
// matches nothing; the failure then surfaces where the locator is actually
// dereferenced.
func (s *PageSnapshot) ResolveRef(ref string) Locator {
	desc := s.Element(ref)
	if desc == nil {
		return fallbackLocator(ref)
	}

	if id := desc.Attributes["id"]; id != "" {
		return Locator{Strategy: ByID, Value: id}
	}
	if text := desc.AccessibleText; text != "" {
		escaped := strings.ReplaceAll(text, `"`, `\"`)
		return Locator{
			Strategy: ByXPath,
			Value:    fmt.Sprintf(`//%s[contains(text(), "%s")]`, desc.Tag, escaped),
		}
	}
	if role := desc.Attributes["role"]; role != "" {
		return Locator{
			Strategy: ByXPath,
			Value:    fmt.Sprintf(`//%s[@role="%s"]`, desc.Tag, role),
		}
	}
	if len(desc.CSSClasses) > 0 {
		return Locator{
			Strategy: ByCSS,
			Value:    desc.Tag + "." + strings.Join(desc.CSSClasses, "."),
		}
	}
	return fallbackLocator(ref)
}

func fallbackLocator(ref string) Locator {
	return Locator{Strategy: ByCSS, Value: fmt.Sprintf("[data-ref='%s']", ref)}
}
