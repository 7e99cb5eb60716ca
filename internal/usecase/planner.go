package usecase

import (
	"fmt"
	"strings"

	"pagepilot/internal/domain"
)

// ChecklistItem is one suggested test for a detected page feature.
type ChecklistItem struct {
	Feature     string   `json:"feature"`
	Description string   `json:"description"`
	Refs        []string `json:"refs,omitempty"`
}

// featureKeywords map a feature bucket to the element-text keywords that
// suggest it. Matching is case-insensitive substring containment.
var featureKeywords = map[string][]string{
	"login":  {"login", "log in", "sign in", "password", "username"},
	"search": {"search", "query", "find"},
}

// maxChecklistRefs caps how many element refs one checklist item cites.
const maxChecklistRefs = 5

// BuildChecklist derives a keyword-heuristic test checklist from a captured
// snapshot: login, search, form and navigation buckets, each item citing the
// element refs that triggered it.
func BuildChecklist(snap *domain.PageSnapshot) []ChecklistItem {
	if snap == nil {
		return nil
	}

	matched := map[string][]string{}
	var formRefs, navRefs []string

	for _, el := range snap.Elements {
		text := strings.ToLower(el.AccessibleText)
		for feature, keywords := range featureKeywords {
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					matched[feature] = append(matched[feature], el.Ref)
					break
				}
			}
		}
		if el.Attributes["type"] == "password" {
			matched["login"] = append(matched["login"], el.Ref)
		}
		if el.Attributes["type"] == "search" {
			matched["search"] = append(matched["search"], el.Ref)
		}

		switch el.Tag {
		case "input", "select", "textarea":
			formRefs = append(formRefs, el.Ref)
		case "a":
			navRefs = append(navRefs, el.Ref)
		}
	}

	var items []ChecklistItem
	if refs := matched["login"]; len(refs) > 0 {
		items = append(items, ChecklistItem{
			Feature:     "login",
			Description: "Verify login with valid credentials, invalid credentials, and empty fields",
			Refs:        capRefs(refs),
		})
	}
	if refs := matched["search"]; len(refs) > 0 {
		items = append(items, ChecklistItem{
			Feature:     "search",
			Description: "Verify search returns relevant results and handles empty and nonsense queries",
			Refs:        capRefs(refs),
		})
	}
	if len(formRefs) > 0 {
		items = append(items, ChecklistItem{
			Feature:     "form",
			Description: fmt.Sprintf("Submit the form (%d fields) with valid values and with required fields left empty", len(formRefs)),
			Refs:        capRefs(formRefs),
		})
	}
	if len(navRefs) > 0 {
		items = append(items, ChecklistItem{
			Feature:     "navigation",
			Description: fmt.Sprintf("Follow each of the %d navigation links and verify the destination loads", len(navRefs)),
			Refs:        capRefs(navRefs),
		})
	}
	return items
}

func capRefs(refs []string) []string {
	refs = dedupe(refs)
	if len(refs) > maxChecklistRefs {
		return refs[:maxChecklistRefs]
	}
	return refs
}

func dedupe(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	var out []string
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// RenderChecklist formats a checklist as a markdown report.
func RenderChecklist(snap *domain.PageSnapshot, items []ChecklistItem) string {
	var b strings.Builder
	title := "page"
	if snap != nil && snap.Title != "" {
		title = snap.Title
	}
	fmt.Fprintf(&b, "## Test checklist: %s\n", title)
	if snap != nil && snap.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", snap.URL)
	}
	if len(items) == 0 {
		b.WriteString("\nNo testable features detected.\n")
		return b.String()
	}
	for _, item := range items {
		fmt.Fprintf(&b, "\n- **%s**: %s", item.Feature, item.Description)
		if len(item.Refs) > 0 {
			fmt.Fprintf(&b, " (elements: %s)", strings.Join(item.Refs, ", "))
		}
	}
	b.WriteString("\n")
	return b.String()
}
