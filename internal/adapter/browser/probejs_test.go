package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagepilot/internal/domain"
)

func TestDecodeProbes(t *testing.T) {
	raw := `[{"tag":"button","text":"Go","attrs":{"id":"go"},"displayed":true,"enabled":true},
	         {"tag":"div","text":"","attrs":{},"displayed":false,"enabled":true}]`

	probes, err := decodeProbes(raw)
	require.NoError(t, err)
	require.Len(t, probes, 2)
	assert.Equal(t, "button", probes[0].Tag)
	assert.Equal(t, "go", probes[0].Attrs["id"])
	assert.False(t, probes[1].Displayed)
}

func TestDecodeProbesBadJSON(t *testing.T) {
	_, err := decodeProbes("not json")
	assert.Error(t, err)
}

func TestLocatorExprJS(t *testing.T) {
	assert.Equal(t,
		`document.getElementById("go")`,
		locatorExprJS(domain.Locator{Strategy: domain.ByID, Value: "go"}))
	assert.Equal(t,
		`document.querySelector("div.btn")`,
		locatorExprJS(domain.Locator{Strategy: domain.ByCSS, Value: "div.btn"}))
	// Quotes inside XPath values survive the JSON escaping.
	assert.Contains(t,
		locatorExprJS(domain.Locator{Strategy: domain.ByXPath, Value: `//a[contains(text(), "Go")]`}),
		`document.evaluate("//a[contains(text(), \"Go\")]"`)
}

func TestKeySequence(t *testing.T) {
	seq, err := keySequence("ENTER")
	require.NoError(t, err)
	assert.Equal(t, "\r", seq)

	seq, err = keySequence("a")
	require.NoError(t, err)
	assert.Equal(t, "a", seq)

	_, err = keySequence("BOGUS_KEY")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
