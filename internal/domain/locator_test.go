package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapWith(desc ElementDescriptor) *PageSnapshot {
	return &PageSnapshot{URL: "u", Title: "t", Elements: []ElementDescriptor{desc}}
}

func TestResolveRefPrecedence(t *testing.T) {
	tests := []struct {
		name string
		desc ElementDescriptor
		want Locator
	}{
		{
			name: "id wins over everything",
			desc: ElementDescriptor{
				Ref: "e1", Tag: "button", AccessibleText: "Go",
				CSSClasses: []string{"btn"},
				Attributes: map[string]string{"id": "go", "role": "button"},
			},
			want: Locator{Strategy: ByID, Value: "go"},
		},
		{
			name: "text containment when no id",
			desc: ElementDescriptor{
				Ref: "e1", Tag: "button", AccessibleText: "Submit",
				Attributes: map[string]string{"role": "button"},
			},
			want: Locator{Strategy: ByXPath, Value: `//button[contains(text(), "Submit")]`},
		},
		{
			name: "quotes in text are escaped",
			desc: ElementDescriptor{
				Ref: "e1", Tag: "a", AccessibleText: `say "hi"`,
				Attributes: map[string]string{},
			},
			want: Locator{Strategy: ByXPath, Value: `//a[contains(text(), "say \"hi\"")]`},
		},
		{
			name: "role when no id or text",
			desc: ElementDescriptor{
				Ref: "e1", Tag: "div",
				Attributes: map[string]string{"role": "tab"},
			},
			want: Locator{Strategy: ByXPath, Value: `//div[@role="tab"]`},
		},
		{
			name: "all classes AND semantics",
			desc: ElementDescriptor{
				Ref: "e1", Tag: "span",
				CSSClasses: []string{"btn", "btn-primary"},
				Attributes: map[string]string{},
			},
			want: Locator{Strategy: ByCSS, Value: "span.btn.btn-primary"},
		},
		{
			name: "degenerate fallback",
			desc: ElementDescriptor{Ref: "e1", Tag: "div", Attributes: map[string]string{}},
			want: Locator{Strategy: ByCSS, Value: "[data-ref='e1']"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snapWith(tt.desc).ResolveRef("e1"))
		})
	}
}

func TestResolveRefUnknownIsFailSoft(t *testing.T) {
	snap := &PageSnapshot{}
	loc := snap.ResolveRef("e42")
	assert.Equal(t, Locator{Strategy: ByCSS, Value: "[data-ref='e42']"}, loc)
}
