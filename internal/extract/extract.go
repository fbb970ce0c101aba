// Package extract locates content items in fetched HTML documents. Several
// independent heuristics (structural selectors, JSON-LD and microdata,
// CMS-specific patterns) each propose candidates; the Orchestrator merges,
// deduplicates, and validates them. Nothing in this package performs network
// or storage I/O.
package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/models"
)

// previewMaxChars bounds the body preview carried on a candidate.
const previewMaxChars = 500

// Extractor is one heuristic for finding content items in a document.
// Implementations are read-only over the document and must not panic on
// malformed markup; a block that cannot be parsed is skipped.
type Extractor interface {
	Name() string
	Extract(doc *goquery.Document, base *url.URL) []models.ContentCandidate
}

// Orchestrator runs a fixed, ordered set of extractors over a document.
// The order is part of the contract: when two extractors find the same
// (title, URL) pair, the earlier extractor's candidate survives dedup.
type Orchestrator struct {
	extractors []Extractor
}

// NewOrchestrator returns an Orchestrator with the default extractor set:
// article selectors, structured data, then CMS patterns.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		extractors: []Extractor{
			&ArticleExtractor{},
			&StructuredDataExtractor{},
			&CMSExtractor{},
		},
	}
}

// ExtractAll runs every extractor, concatenates the results, removes
// duplicate (title, URL) pairs keeping the first occurrence, and drops
// candidates that fail validation.
func (o *Orchestrator) ExtractAll(doc *goquery.Document, base *url.URL) []models.ContentCandidate {
	var merged []models.ContentCandidate
	for _, ex := range o.extractors {
		merged = append(merged, ex.Extract(doc, base)...)
	}

	seen := make(map[string]struct{}, len(merged))
	var out []models.ContentCandidate
	for _, c := range merged {
		key := c.Title + "|" + c.URL
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if Valid(c) {
			out = append(out, c)
		}
	}
	return out
}

const (
	minTitleChars = 10
	maxTitleChars = 200
)

// denylist holds lowercase phrases that mark a "candidate" as site chrome
// rather than content: cookie banners, auth pages, error pages, legal
// boilerplate.
var denylist = []string{
	"cookie",
	"privacy policy",
	"terms of service",
	"log in",
	"login",
	"sign in",
	"sign up",
	"404",
	"page not found",
	"subscribe to our",
}

// Valid reports whether a candidate passes the content-quality rules: a
// title between 10 and 200 characters inclusive, a non-empty URL, and no
// denylisted phrase in the title.
func Valid(c models.ContentCandidate) bool {
	if c.URL == "" {
		return false
	}
	n := utf8.RuneCountInString(c.Title)
	if n < minTitleChars || n > maxTitleChars {
		return false
	}
	lowered := strings.ToLower(c.Title)
	for _, phrase := range denylist {
		if strings.Contains(lowered, phrase) {
			return false
		}
	}
	return true
}

// cleanText collapses runs of whitespace into single spaces and trims the
// result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncatePreview caps s at previewMaxChars characters.
func truncatePreview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewMaxChars {
		return s
	}
	return string(runes[:previewMaxChars])
}

// resolveURL resolves href against the document base. Unparseable or empty
// hrefs fall back to the base URL itself.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		if base == nil {
			return ""
		}
		return base.String()
	}
	ref, err := url.Parse(href)
	if err != nil {
		if base == nil {
			return href
		}
		return base.String()
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
