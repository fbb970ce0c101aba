package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/models"
)

// platform is one known CMS: a detection predicate plus the container
// selectors its themes conventionally use. Child-field selectors are shared
// with the article extractor.
type platform struct {
	name       string
	matches    func(doc *goquery.Document) bool
	containers []string
}

// platforms is checked in order; the first match wins. WordPress goes first
// because its fingerprints are the most specific.
var platforms = []platform{
	{
		name: "wordpress",
		matches: func(doc *goquery.Document) bool {
			return doc.Find(`meta[name="generator"][content*="WordPress"]`).Length() > 0 ||
				doc.Find("body.wordpress").Length() > 0 ||
				doc.Find(`script[src*="wp-content"], link[href*="wp-content"]`).Length() > 0
		},
		containers: []string{".post", ".hentry", `article[id^="post-"]`},
	},
	{
		name: "shopify",
		matches: func(doc *goquery.Document) bool {
			return doc.Find(`meta[name="shopify-checkout-api-token"]`).Length() > 0 ||
				doc.Find(`script[src*="shopify"]`).Length() > 0
		},
		containers: []string{".article", ".blog-post", ".post"},
	},
	{
		name: "ghost",
		matches: func(doc *goquery.Document) bool {
			return doc.Find(`meta[name="generator"][content*="Ghost"]`).Length() > 0
		},
		containers: []string{".post-card", ".post", "article"},
	},
}

// CMSExtractor detects which platform generated the page and applies that
// platform's tuned container selectors. Pages from an unrecognized platform
// yield nothing; the generic article extractor covers those.
type CMSExtractor struct{}

func (e *CMSExtractor) Name() string { return "cms" }

func (e *CMSExtractor) Extract(doc *goquery.Document, base *url.URL) []models.ContentCandidate {
	for _, p := range platforms {
		if !p.matches(doc) {
			continue
		}
		sel := articleSelectors
		sel.containers = p.containers
		candidates := extractFromContainers(doc, base, sel, e.Name()+"/"+p.name)
		for i := range candidates {
			candidates[i].Type = models.TypeBlogPost
		}
		return candidates
	}
	return nil
}
