// Package extract turns raw evidence prose into a normalized citation list.
package extract

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/factlock/factlock/internal/domain"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)
)

// strategy is one tier of the extraction chain. It returns nil when the
// tier finds nothing, letting the next tier run.
type strategy func(text string) []domain.EvidenceItem

// Citations extracts citation pairs from evidence text. Tiers, in order:
// citations the provider returned out-of-band, markdown links in the
// prose, then bare URLs with a generic title. The first non-empty tier
// wins. Returns nil when every tier comes up empty; callers on the
// refutation path treat that as an evidentiary failure.
func Citations(text string, provided []domain.EvidenceItem) []domain.EvidenceItem {
	strategies := []strategy{
		func(string) []domain.EvidenceItem { return provided },
		markdownLinks,
		bareURLs,
	}

	for _, s := range strategies {
		if items := s(text); len(items) > 0 {
			return items
		}
	}
	return nil
}

// CitationsOrPlaceholder is Citations with a guaranteed non-empty result:
// when nothing can be extracted it substitutes exactly one synthetic item
// pointing at a web search for the original question. Used on the
// evaluation path, where downstream consumers must never see an empty
// source list.
func CitationsOrPlaceholder(question, text string, provided []domain.EvidenceItem) []domain.EvidenceItem {
	if items := Citations(text, provided); len(items) > 0 {
		return items
	}
	return []domain.EvidenceItem{Placeholder(question)}
}

// Placeholder builds the synthetic fallback citation for a question. The
// URL is deterministic for a given question.
func Placeholder(question string) domain.EvidenceItem {
	return domain.EvidenceItem{
		Title: fmt.Sprintf("Web search: %s", question),
		URL:   "https://www.google.com/search?q=" + url.QueryEscape(question),
	}
}

// markdownLinks scans for [title](url) syntax left-to-right, preserving
// order of appearance. Duplicates are kept as-is.
func markdownLinks(text string) []domain.EvidenceItem {
	matches := markdownLinkPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	items := make([]domain.EvidenceItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, domain.EvidenceItem{Title: m[1], URL: m[2]})
	}
	return items
}

// bareURLs matches naked URLs and assigns each a generic title.
func bareURLs(text string) []domain.EvidenceItem {
	matches := bareURLPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	items := make([]domain.EvidenceItem, 0, len(matches))
	for i, u := range matches {
		items = append(items, domain.EvidenceItem{
			Title: fmt.Sprintf("Source %d", i+1),
			URL:   u,
		})
	}
	return items
}
