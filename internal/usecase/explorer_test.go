package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagepilot/internal/domain"
)

// fakeRunner simulates the tool pipeline for a small static site: each page
// has a title, element count and outgoing links.
type fakeRunner struct {
	pages   map[string]fakePage
	current string
	runs    []string
}

type fakePage struct {
	title string
	refs  int
	links []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, raw json.RawMessage) *domain.RunResult {
	f.runs = append(f.runs, name)
	switch name {
	case "navigate_to":
		var p struct {
			URL string `json:"url"`
		}
		_ = json.Unmarshal(raw, &p)
		if _, ok := f.pages[p.URL]; !ok {
			return &domain.RunResult{Tool: name, Text: name + " failed", Err: "element not found"}
		}
		f.current = p.URL
		return &domain.RunResult{Tool: name, Text: name + " executed successfully"}
	case "execute_js":
		links, _ := json.Marshal(f.pages[f.current].links)
		return &domain.RunResult{
			Tool: name,
			Text: fmt.Sprintf("execute_js executed successfully\nResult: %s", links),
		}
	default:
		return &domain.RunResult{Tool: name, Text: name + " failed", Err: "tool not found"}
	}
}

func (f *fakeRunner) SnapshotView() *domain.PageSnapshot {
	page, ok := f.pages[f.current]
	if !ok {
		return nil
	}
	snap := &domain.PageSnapshot{URL: f.current, Title: page.title}
	for i := 0; i < page.refs; i++ {
		snap.Elements = append(snap.Elements, domain.ElementDescriptor{
			Ref: fmt.Sprintf("e%d", i+1), Tag: "a",
		})
	}
	return snap
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestExploreWalksSameHostLinks(t *testing.T) {
	runner := &fakeRunner{pages: map[string]fakePage{
		"https://shop.example": {
			title: "Home", refs: 3,
			links: []string{
				"https://shop.example/catalog",
				"https://shop.example/about",
				"https://elsewhere.example/ad",
				"mailto:info@shop.example",
			},
		},
		"https://shop.example/catalog": {
			title: "Catalog", refs: 8,
			links: []string{"https://shop.example", "https://shop.example/about"},
		},
		"https://shop.example/about": {title: "About", refs: 1},
	}}

	site, err := NewExplorer(runner, discard(), 10).Explore(context.Background(), "https://shop.example")
	require.NoError(t, err)

	require.Len(t, site.Pages, 3)
	assert.Equal(t, "Home", site.Pages[0].Title)
	assert.Equal(t, "Catalog", site.Pages[1].Title)
	assert.Equal(t, 8, site.Pages[1].Elements)
	assert.Equal(t, "About", site.Pages[2].Title)
}

func TestExploreBoundsPageCount(t *testing.T) {
	// Every page links to a fresh one; the crawl must stop at the cap.
	pages := map[string]fakePage{}
	for i := 0; i < 20; i++ {
		pages[fmt.Sprintf("https://deep.example/p%d", i)] = fakePage{
			title: fmt.Sprintf("Page %d", i),
			links: []string{fmt.Sprintf("https://deep.example/p%d", i+1)},
		}
	}
	runner := &fakeRunner{pages: pages}

	site, err := NewExplorer(runner, discard(), 5).Explore(context.Background(), "https://deep.example/p0")
	require.NoError(t, err)
	assert.Len(t, site.Pages, 5)
}

func TestExploreRecordsFailedPages(t *testing.T) {
	runner := &fakeRunner{pages: map[string]fakePage{
		"https://shop.example": {
			title: "Home",
			links: []string{"https://shop.example/broken"},
		},
	}}

	site, err := NewExplorer(runner, discard(), 10).Explore(context.Background(), "https://shop.example")
	require.NoError(t, err)

	require.Len(t, site.Pages, 2)
	assert.Empty(t, site.Pages[0].Err)
	assert.NotEmpty(t, site.Pages[1].Err)
}

func TestExploreDedupesFragmentLinks(t *testing.T) {
	runner := &fakeRunner{pages: map[string]fakePage{
		"https://docs.example": {
			title: "Docs",
			links: []string{
				"https://docs.example/guide#intro",
				"https://docs.example/guide#usage",
			},
		},
		"https://docs.example/guide": {title: "Guide"},
	}}

	site, err := NewExplorer(runner, discard(), 10).Explore(context.Background(), "https://docs.example")
	require.NoError(t, err)
	assert.Len(t, site.Pages, 2)
}

func TestExploreRejectsRelativeStart(t *testing.T) {
	_, err := NewExplorer(&fakeRunner{}, discard(), 10).Explore(context.Background(), "/relative")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExploreStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{pages: map[string]fakePage{
		"https://shop.example": {title: "Home"},
	}}
	site, err := NewExplorer(runner, discard(), 10).Explore(ctx, "https://shop.example")
	require.Error(t, err)
	assert.Empty(t, site.Pages)
}
