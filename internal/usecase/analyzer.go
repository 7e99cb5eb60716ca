package usecase

import (
	"fmt"
	"sort"
	"strings"

	"pagepilot/internal/domain"
)

// FeatureRisk scores one page feature for test-priority ranking.
type FeatureRisk struct {
	Feature string   `json:"feature"`
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Reasons []string `json:"reasons"`
}

// Report is the risk assessment of a page given its snapshot and the action
// history accumulated against it.
type Report struct {
	URL          string         `json:"url"`
	Title        string         `json:"title"`
	Risks        []FeatureRisk  `json:"risks"`
	ActionCounts map[string]int `json:"action_counts"`
}

// Risk score thresholds.
const (
	highRiskThreshold   = 5
	mediumRiskThreshold = 2
)

func riskLevel(score int) string {
	switch {
	case score >= highRiskThreshold:
		return "high"
	case score >= mediumRiskThreshold:
		return "medium"
	default:
		return "low"
	}
}

// Analyze scores the page's features: authentication surface, form
// complexity and navigation breadth, weighted by how much recorded activity
// already touched the page.
func Analyze(snap *domain.PageSnapshot, entries []domain.ActionEntry) *Report {
	r := &Report{ActionCounts: map[string]int{}}
	if snap != nil {
		r.URL = snap.URL
		r.Title = snap.Title
	}
	for _, e := range entries {
		r.ActionCounts[e.Tool]++
	}

	var passwords, inputs, links, buttons int
	if snap != nil {
		for _, el := range snap.Elements {
			switch el.Tag {
			case "input", "select", "textarea":
				inputs++
				if el.Attributes["type"] == "password" {
					passwords++
				}
			case "a":
				links++
			case "button":
				buttons++
			}
		}
	}

	if passwords > 0 {
		risk := FeatureRisk{
			Feature: "authentication",
			Score:   3 + passwords,
			Reasons: []string{fmt.Sprintf("%d password field(s) present", passwords)},
		}
		if n := r.ActionCounts["type_text"]; n > 0 {
			risk.Score++
			risk.Reasons = append(risk.Reasons, fmt.Sprintf("%d typing action(s) already recorded", n))
		}
		risk.Level = riskLevel(risk.Score)
		r.Risks = append(r.Risks, risk)
	}

	if inputs > 0 {
		risk := FeatureRisk{
			Feature: "forms",
			Score:   1 + inputs/3,
			Reasons: []string{fmt.Sprintf("%d form field(s) present", inputs)},
		}
		if inputs > 5 {
			risk.Reasons = append(risk.Reasons, "large form, validation paths multiply")
		}
		risk.Level = riskLevel(risk.Score)
		r.Risks = append(r.Risks, risk)
	}

	if links > 0 || buttons > 0 {
		risk := FeatureRisk{
			Feature: "navigation",
			Score:   1 + (links+buttons)/10,
			Reasons: []string{fmt.Sprintf("%d link(s) and %d button(s) present", links, buttons)},
		}
		risk.Level = riskLevel(risk.Score)
		r.Risks = append(r.Risks, risk)
	}

	sort.Slice(r.Risks, func(i, j int) bool { return r.Risks[i].Score > r.Risks[j].Score })
	return r
}

// RenderReport formats the assessment as markdown.
func RenderReport(r *Report) string {
	var b strings.Builder
	b.WriteString("## Risk assessment")
	if r.Title != "" {
		fmt.Fprintf(&b, ": %s", r.Title)
	}
	b.WriteString("\n")
	if r.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
	}

	if len(r.Risks) == 0 {
		b.WriteString("\nNo risk-bearing features detected.\n")
	}
	for _, risk := range r.Risks {
		fmt.Fprintf(&b, "\n- **%s** (%s, score %d): %s",
			risk.Feature, risk.Level, risk.Score, strings.Join(risk.Reasons, "; "))
	}

	if len(r.ActionCounts) > 0 {
		b.WriteString("\n\n### Recorded activity\n")
		tools := make([]string, 0, len(r.ActionCounts))
		for tool := range r.ActionCounts {
			tools = append(tools, tool)
		}
		sort.Strings(tools)
		for _, tool := range tools {
			fmt.Fprintf(&b, "- %s: %d\n", tool, r.ActionCounts[tool])
		}
	} else {
		b.WriteString("\n")
	}
	return b.String()
}
