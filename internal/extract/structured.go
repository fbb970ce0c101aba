package extract

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/models"
)

// articleTypes is the schema.org Article family recognized in JSON-LD
// @type values and microdata itemtype attributes.
var articleTypes = map[string]bool{
	"Article":     true,
	"BlogPosting": true,
	"NewsArticle": true,
	"TechArticle": true,
	"Report":      true,
}

// StructuredDataExtractor reads embedded structured data: JSON-LD script
// blocks and microdata itemscope elements. A block that fails to parse is
// logged and skipped; it never aborts the rest of the scan.
type StructuredDataExtractor struct{}

func (e *StructuredDataExtractor) Name() string { return "structured-data" }

func (e *StructuredDataExtractor) Extract(doc *goquery.Document, base *url.URL) []models.ContentCandidate {
	var out []models.ContentCandidate

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			slog.Debug("skipping malformed JSON-LD block", "error", err)
			return
		}
		out = append(out, e.walkJSONLD(data, base)...)
	})

	doc.Find(`[itemtype*="Article"]`).Each(func(_ int, s *goquery.Selection) {
		if c, ok := e.fromMicrodata(s, base); ok {
			out = append(out, c)
		}
	})

	return out
}

// walkJSONLD recursively descends arrays and objects (including @graph
// wrappers) collecting every node whose @type is in the Article family.
func (e *StructuredDataExtractor) walkJSONLD(data any, base *url.URL) []models.ContentCandidate {
	var out []models.ContentCandidate

	switch v := data.(type) {
	case []any:
		for _, item := range v {
			out = append(out, e.walkJSONLD(item, base)...)
		}
	case map[string]any:
		if isArticleType(v["@type"]) {
			if c, ok := e.fromJSONLDNode(v, base); ok {
				out = append(out, c)
			}
		}
		// Keys are visited in sorted order so the candidate order (and
		// therefore dedup outcomes) stays deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch nested := v[k].(type) {
			case []any, map[string]any:
				out = append(out, e.walkJSONLD(nested, base)...)
			}
		}
	}

	return out
}

// isArticleType handles @type as either a single string or a list of
// strings.
func isArticleType(v any) bool {
	switch t := v.(type) {
	case string:
		return articleTypes[t]
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && articleTypes[s] {
				return true
			}
		}
	}
	return false
}

// fromJSONLDNode maps schema.org fields onto a candidate: headline/name to
// title, description/abstract to the body preview, datePublished to the
// publish date, author.name (or a bare author string) to the author.
func (e *StructuredDataExtractor) fromJSONLDNode(node map[string]any, base *url.URL) (models.ContentCandidate, bool) {
	title := stringField(node, "headline")
	if title == "" {
		title = stringField(node, "name")
	}
	if title == "" {
		return models.ContentCandidate{}, false
	}

	body := stringField(node, "description")
	if body == "" {
		body = stringField(node, "abstract")
	}

	candidateURL := stringField(node, "url")
	if candidateURL != "" {
		candidateURL = resolveURL(base, candidateURL)
	} else if base != nil {
		candidateURL = base.String()
	}

	return models.ContentCandidate{
		Title:       cleanText(title),
		BodyPreview: truncatePreview(cleanText(body)),
		URL:         candidateURL,
		PublishedAt: parseDate(stringField(node, "datePublished")),
		Author:      authorName(node["author"]),
		Type:        models.TypeArticle,
		Strategy:    e.Name(),
	}, true
}

func stringField(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return s
}

// authorName accepts the three shapes schema.org author values take in the
// wild: a bare string, an object with a name, or a list of either.
func authorName(v any) string {
	switch a := v.(type) {
	case string:
		return cleanText(a)
	case map[string]any:
		return cleanText(stringField(a, "name"))
	case []any:
		for _, item := range a {
			if name := authorName(item); name != "" {
				return name
			}
		}
	}
	return ""
}

// fromMicrodata builds a candidate from an element carrying an Article
// itemtype, reading itemprop children.
func (e *StructuredDataExtractor) fromMicrodata(s *goquery.Selection, base *url.URL) (models.ContentCandidate, bool) {
	title := cleanText(s.Find(`[itemprop="headline"], [itemprop="name"]`).First().Text())
	if title == "" {
		return models.ContentCandidate{}, false
	}

	candidateURL := ""
	if urlEl := s.Find(`[itemprop="url"]`).First(); urlEl.Length() > 0 {
		href, ok := urlEl.Attr("href")
		if !ok {
			href = urlEl.Text()
		}
		candidateURL = resolveURL(base, href)
	} else if base != nil {
		candidateURL = base.String()
	}

	var published *time.Time
	if dateEl := s.Find(`[itemprop="datePublished"]`).First(); dateEl.Length() > 0 {
		published = extractDate(dateEl)
	}

	return models.ContentCandidate{
		Title:       title,
		BodyPreview: truncatePreview(cleanText(s.Find(`[itemprop="description"]`).First().Text())),
		URL:         candidateURL,
		PublishedAt: published,
		Author:      cleanText(s.Find(`[itemprop="author"]`).First().Text()),
		Type:        models.TypeArticle,
		Strategy:    e.Name(),
	}, true
}
