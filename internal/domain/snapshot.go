package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSnapshotElements caps how many interactive elements one snapshot holds.
const MaxSnapshotElements = 100

// maxAccessibleText caps the accessible text stored per descriptor.
const maxAccessibleText = 100

// interactiveTags are element types that are interactive by nature.
var interactiveTags = map[string]bool{
	"button":   true,
	"input":    true,
	"a":        true,
	"select":   true,
	"textarea": true,
}

// interactiveRoles are ARIA roles that mark an element interactive.
var interactiveRoles = map[string]bool{
	"button":   true,
	"link":     true,
	"menuitem": true,
	"tab":      true,
	"checkbox": true,
	"radio":    true,
}

// ElementProbe is the raw per-node reading a browser capability returns from
// a DOM scan. Attrs carries only the attributes the classifier and the
// descriptor builder look at (id, role, type, class, onclick, tabindex,
// aria-label, value, title, alt).
type ElementProbe struct {
	Tag       string            `json:"tag"`
	Text      string            `json:"text"`
	Attrs     map[string]string `json:"attrs"`
	Displayed bool              `json:"displayed"`
	Enabled   bool              `json:"enabled"`
}

// ElementDescriptor is one DOM element captured at snapshot time.
// Immutable once stored; the whole set is replaced on the next capture.
type ElementDescriptor struct {
	Ref            string            `json:"ref"`
	Tag            string            `json:"tag"`
	AccessibleText string            `json:"text,omitempty"`
	Interactable   bool              `json:"interactable"`
	CSSClasses     []string          `json:"css_classes,omitempty"`
	Attributes     map[string]string `json:"attributes"` // id, role, type only
}

// PageSnapshot is the catalog of interactive elements plus page metadata,
// valid until superseded by the next capture. Refs are e1..eN, dense,
// in DOM traversal order; they are not stable across snapshots.
type PageSnapshot struct {
	URL      string              `json:"url"`
	Title    string              `json:"title"`
	Elements []ElementDescriptor `json:"elements"`
}

// EmptySnapshot is the valid terminal state produced when capture fails.
func EmptySnapshot() *PageSnapshot {
	return &PageSnapshot{}
}

// Element returns the descriptor for ref, or nil if the ref is not in this
// snapshot.
func (s *PageSnapshot) Element(ref string) *ElementDescriptor {
	for i := range s.Elements {
		if s.Elements[i].Ref == ref {
			return &s.Elements[i]
		}
	}
	return nil
}

// IsInteractive classifies a probe as interactive: known interactive tag,
// interactive ARIA role, a click handler attribute, a tabindex, or a class
// list hinting at clickability.
func IsInteractive(p ElementProbe) bool {
	if interactiveTags[strings.ToLower(p.Tag)] {
		return true
	}
	if interactiveRoles[p.Attrs["role"]] {
		return true
	}
	if _, ok := p.Attrs["onclick"]; ok {
		return true
	}
	if _, ok := p.Attrs["tabindex"]; ok {
		return true
	}
	class := strings.ToLower(p.Attrs["class"])
	return strings.Contains(class, "click") || strings.Contains(class, "btn")
}

// AccessibleText derives the display text of a probe: aria-label, then
// trimmed text content, then value, then title, then alt. First non-empty
// wins; truncated to 100 characters.
func AccessibleText(p ElementProbe) string {
	candidates := []string{
		p.Attrs["aria-label"],
		strings.TrimSpace(p.Text),
		p.Attrs["value"],
		p.Attrs["title"],
		p.Attrs["alt"],
	}
	for _, c := range candidates {
		if c != "" {
			return truncateRunes(c, maxAccessibleText)
		}
	}
	return ""
}

// truncateRunes cuts s to at most max characters, never splitting a rune.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// describeProbe builds a descriptor from a qualifying probe, or nil when the
// probe is unusable (no tag). Returning nil instead of erroring keeps
// per-node failures out of the capture path.
func describeProbe(ref string, p ElementProbe) *ElementDescriptor {
	tag := strings.ToLower(strings.TrimSpace(p.Tag))
	if tag == "" {
		return nil
	}
	var classes []string
	if c := p.Attrs["class"]; c != "" {
		classes = strings.Fields(c)
	}
	return &ElementDescriptor{
		Ref:            ref,
		Tag:            tag,
		AccessibleText: AccessibleText(p),
		Interactable:   p.Displayed && p.Enabled,
		CSSClasses:     classes,
		Attributes: map[string]string{
			"id":   p.Attrs["id"],
			"role": p.Attrs["role"],
			"type": p.Attrs["type"],
		},
	}
}

// BuildSnapshot turns a DOM scan into a snapshot: interactive probes that
// are displayed and enabled, in traversal order, capped at
// MaxSnapshotElements, with dense 1-based refs. Pure function of its inputs;
// callers own the replacement of any prior snapshot.
func BuildSnapshot(url, title string, probes []ElementProbe) *PageSnapshot {
	snap := &PageSnapshot{URL: url, Title: title}
	for _, p := range probes {
		if len(snap.Elements) >= MaxSnapshotElements {
			break
		}
		if !IsInteractive(p) || !p.Displayed || !p.Enabled {
			continue
		}
		ref := fmt.Sprintf("e%d", len(snap.Elements)+1)
		desc := describeProbe(ref, p)
		if desc == nil {
			continue
		}
		snap.Elements = append(snap.Elements, *desc)
	}
	return snap
}
