package tool

import (
	"fmt"
	"strings"

	"pagepilot/internal/domain"
)

// headingLevels maps header tags to their level annotation.
var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// RenderSnapshot produces the page-state text block downstream agents parse:
//
//	### Page state
//	- Page URL: <url>
//	- Page Title: <title>
//	- Page Snapshot:
//	```yaml
//	- <tag> "<text>" [ref=eN] [role=...] [disabled] [level=N]
//	```
//
// The element line grammar is a de-facto wire format; change it only in
// lockstep with consumers.
func RenderSnapshot(snap *domain.PageSnapshot) string {
	if snap == nil {
		snap = domain.EmptySnapshot()
	}

	var b strings.Builder
	b.WriteString("### Page state\n")
	fmt.Fprintf(&b, "- Page URL: %s\n", snap.URL)
	fmt.Fprintf(&b, "- Page Title: %s\n", snap.Title)
	b.WriteString("- Page Snapshot:\n")
	b.WriteString("```yaml\n")
	for _, el := range snap.Elements {
		b.WriteString(renderElement(el))
		b.WriteByte('\n')
	}
	b.WriteString("```")
	return b.String()
}

func renderElement(el domain.ElementDescriptor) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(el.Tag)
	if el.AccessibleText != "" {
		fmt.Fprintf(&b, " %q", el.AccessibleText)
	}

	props := []string{fmt.Sprintf("[ref=%s]", el.Ref)}
	if role := el.Attributes["role"]; role != "" {
		props = append(props, fmt.Sprintf("[role=%s]", role))
	}
	if !el.Interactable {
		props = append(props, "[disabled]")
	}
	if level, ok := headingLevels[el.Tag]; ok {
		props = append(props, fmt.Sprintf("[level=%d]", level))
	}

	b.WriteString(" ")
	b.WriteString(strings.Join(props, " "))
	return b.String()
}
