package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagepilot/internal/domain"
)

func TestAnalyzeRanksAuthenticationHighest(t *testing.T) {
	snap := loginPageSnapshot()
	entries := []domain.ActionEntry{
		{Tool: "navigate_to", Params: json.RawMessage(`{}`)},
		{Tool: "type_text", Params: json.RawMessage(`{}`)},
		{Tool: "type_text", Params: json.RawMessage(`{}`)},
	}

	report := Analyze(snap, entries)
	require.NotEmpty(t, report.Risks)
	assert.Equal(t, "authentication", report.Risks[0].Feature)
	assert.Equal(t, "high", report.Risks[0].Level)
	assert.Equal(t, 2, report.ActionCounts["type_text"])
}

func TestAnalyzeWithoutSnapshot(t *testing.T) {
	report := Analyze(nil, nil)
	assert.Empty(t, report.Risks)
	assert.Empty(t, report.URL)
}

func TestAnalyzeNavigationOnly(t *testing.T) {
	snap := &domain.PageSnapshot{
		Elements: []domain.ElementDescriptor{
			{Ref: "e1", Tag: "a", Attributes: map[string]string{}},
			{Ref: "e2", Tag: "button", Attributes: map[string]string{}},
		},
	}

	report := Analyze(snap, nil)
	require.Len(t, report.Risks, 1)
	assert.Equal(t, "navigation", report.Risks[0].Feature)
	assert.Equal(t, "low", report.Risks[0].Level)
}

func TestRenderReport(t *testing.T) {
	snap := loginPageSnapshot()
	report := Analyze(snap, []domain.ActionEntry{{Tool: "click_element"}})

	out := RenderReport(report)
	assert.Contains(t, out, "## Risk assessment: Sign in")
	assert.Contains(t, out, "URL: https://shop.example/login")
	assert.Contains(t, out, "**authentication**")
	assert.Contains(t, out, "### Recorded activity")
	assert.Contains(t, out, "- click_element: 1")
}

func TestRenderReportEmpty(t *testing.T) {
	out := RenderReport(Analyze(nil, nil))
	assert.Contains(t, out, "No risk-bearing features detected.")
}
