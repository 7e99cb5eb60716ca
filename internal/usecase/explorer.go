// Package usecase holds workflow consumers built on the tool pipeline's
// public contract: site exploration, test planning and risk analysis. They
// drive the browser only through tool runs and snapshot read views.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"pagepilot/internal/domain"
)

const defaultMaxPages = 10

// harvestLinksScript collects every anchor href on the page as a JSON array.
const harvestLinksScript = `JSON.stringify(Array.from(document.querySelectorAll('a[href]')).map(function(a) { return a.href; }))`

// Runner is the slice of the execution pipeline the workflow consumers use.
type Runner interface {
	Run(ctx context.Context, name string, raw json.RawMessage) *domain.RunResult
	SnapshotView() *domain.PageSnapshot
}

// PageVisit is one explored page. Err is set when navigation failed and the
// page could not be captured.
type PageVisit struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Elements int    `json:"elements"`
	Err      string `json:"error,omitempty"`
}

// SiteMap is the result of an exploration run.
type SiteMap struct {
	Start string      `json:"start"`
	Pages []PageVisit `json:"pages"`
}

// Explorer walks a site breadth-first from a start URL, one page at a time,
// staying on the start host and stopping after maxPages visits.
type Explorer struct {
	runner   Runner
	logger   *slog.Logger
	maxPages int
}

func NewExplorer(runner Runner, logger *slog.Logger, maxPages int) *Explorer {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Explorer{runner: runner, logger: logger, maxPages: maxPages}
}

// Explore visits pages reachable from startURL via same-host links. A failed
// navigation is recorded and skipped; only an invalid start URL or a
// cancelled context abort the run.
func (e *Explorer) Explore(ctx context.Context, startURL string) (*SiteMap, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" {
		return nil, domain.NewDomainError("explorer.explore", domain.ErrInvalidInput,
			"start URL must be absolute")
	}

	site := &SiteMap{Start: startURL}
	visited := make(map[string]bool)
	queue := []string{normalizeLink(startURL)}

	for len(queue) > 0 && len(site.Pages) < e.maxPages {
		if err := ctx.Err(); err != nil {
			return site, err
		}

		target := queue[0]
		queue = queue[1:]
		if visited[target] {
			continue
		}
		visited[target] = true

		args, _ := json.Marshal(map[string]string{"url": target})
		res := e.runner.Run(ctx, "navigate_to", args)
		if res.IsError() {
			e.logger.Warn("exploration skipped page", "url", target, "error", res.Err)
			site.Pages = append(site.Pages, PageVisit{URL: target, Err: res.Err})
			continue
		}

		visit := PageVisit{URL: target}
		if snap := e.runner.SnapshotView(); snap != nil {
			visit.Title = snap.Title
			visit.Elements = len(snap.Elements)
		}
		site.Pages = append(site.Pages, visit)

		for _, link := range e.harvestLinks(ctx, start.Host) {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	e.logger.Info("exploration finished", "start", startURL, "pages", len(site.Pages))
	return site, nil
}

// harvestLinks pulls same-host links off the current page. Harvest failures
// just end the crawl at this branch.
func (e *Explorer) harvestLinks(ctx context.Context, host string) []string {
	args, _ := json.Marshal(map[string]string{"script": harvestLinksScript})
	res := e.runner.Run(ctx, "execute_js", args)
	if res.IsError() {
		return nil
	}

	raw := extractResultLine(res.Text)
	if raw == "" {
		return nil
	}
	var hrefs []string
	if err := json.Unmarshal([]byte(raw), &hrefs); err != nil {
		e.logger.Debug("unparseable link harvest", "error", err)
		return nil
	}

	var links []string
	for _, h := range hrefs {
		u, err := url.Parse(h)
		if err != nil || u.Host != host {
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		links = append(links, normalizeLink(h))
	}
	return links
}

// extractResultLine finds the evaluation result in a tool response text.
func extractResultLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(line, "Result: "); ok {
			return rest
		}
	}
	return ""
}

// normalizeLink strips fragments so anchors on one page dedupe to one visit.
func normalizeLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/")
}
