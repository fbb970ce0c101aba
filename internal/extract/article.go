package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/models"
)

// selectorSet groups the per-field selector priority lists used when pulling
// candidate fields out of a container element. Within each list, the first
// selector that matches wins.
type selectorSet struct {
	containers []string
	titles     []string
	bodies     []string
	dates      []string
	authors    []string
}

var articleSelectors = selectorSet{
	containers: []string{
		"article",
		`[role="article"]`,
		".post",
		".article",
		".news-item",
		".blog-post",
		".entry",
		".story",
	},
	titles: []string{
		"h1",
		"h2",
		".title",
		".headline",
		".post-title",
		".entry-title",
		".article-title",
	},
	bodies: []string{
		".content",
		".post-content",
		".entry-content",
		".article-content",
		".description",
		".excerpt",
		".summary",
	},
	dates: []string{
		"time",
		".date",
		".published",
		".post-date",
		".article-date",
		"[datetime]",
	},
	authors: []string{
		".author",
		".byline",
		".post-author",
		".article-author",
		`[rel="author"]`,
	},
}

// ArticleExtractor scans structural selectors common to blogs and news
// sites. When no container element matches it falls back to treating the
// whole page as a single article.
type ArticleExtractor struct{}

func (e *ArticleExtractor) Name() string { return "article" }

func (e *ArticleExtractor) Extract(doc *goquery.Document, base *url.URL) []models.ContentCandidate {
	candidates := extractFromContainers(doc, base, articleSelectors, e.Name())
	if len(candidates) > 0 {
		return candidates
	}

	// Listing selectors found nothing: this may be a single-article page.
	if c, ok := extractPageLevel(doc, base, e.Name()); ok {
		return []models.ContentCandidate{c}
	}
	return nil
}

// extractFromContainers finds every element matching the container selector
// group (a single comma-joined selector keeps document order and drops
// duplicate nodes) and pulls one candidate out of each. Shared with the CMS
// extractor, which supplies platform-tuned container lists.
func extractFromContainers(doc *goquery.Document, base *url.URL, sel selectorSet, strategy string) []models.ContentCandidate {
	var out []models.ContentCandidate
	doc.Find(strings.Join(sel.containers, ", ")).Each(func(_ int, s *goquery.Selection) {
		if c, ok := extractFromElement(s, base, sel, strategy); ok {
			out = append(out, c)
		}
	})
	return out
}

// extractFromElement builds a candidate from one container element. The
// title is required; everything else is best-effort.
func extractFromElement(s *goquery.Selection, base *url.URL, sel selectorSet, strategy string) (models.ContentCandidate, bool) {
	titleEl := findChild(s, sel.titles)
	if titleEl == nil {
		return models.ContentCandidate{}, false
	}
	title := cleanText(titleEl.Text())
	if title == "" {
		return models.ContentCandidate{}, false
	}

	candidateURL := ""
	if link := s.Find("a[href]").First(); link.Length() > 0 {
		href, _ := link.Attr("href")
		candidateURL = resolveURL(base, href)
	} else if base != nil {
		candidateURL = base.String()
	}

	body := ""
	if bodyEl := findChild(s, sel.bodies); bodyEl != nil {
		body = truncatePreview(cleanText(bodyEl.Text()))
	}

	var author string
	if authorEl := findChild(s, sel.authors); authorEl != nil {
		author = cleanText(authorEl.Text())
	}

	return models.ContentCandidate{
		Title:       title,
		BodyPreview: body,
		URL:         candidateURL,
		PublishedAt: extractDate(findChild(s, sel.dates)),
		Author:      author,
		Type:        models.TypeArticle,
		Strategy:    strategy,
	}, true
}

// findChild returns the first element matched by the selector priority list,
// or nil when nothing matches.
func findChild(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if found := s.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// Page-level fallback selector lists. These look at the whole document, so
// they include meta tags alongside the structural selectors.
var (
	pageTitleSelectors = []string{
		"h1",
		".entry-title",
		".post-title",
		".article-title",
		".title",
		`meta[property="og:title"]`,
		"title",
	}
	pageBodySelectors = []string{
		".entry-content",
		".post-content",
		".article-content",
		".content",
		"main",
		`[role="main"]`,
	}
	pageDateSelectors = []string{
		"time[datetime]",
		".published",
		".post-date",
		".article-date",
		`meta[property="article:published_time"]`,
	}
	pageAuthorSelectors = []string{
		".author",
		".byline",
		".post-author",
		`[rel="author"]`,
		`meta[name="author"]`,
	}
)

// extractPageLevel treats the document itself as a single article, reading
// each field from its page-level priority list. Meta elements contribute
// their content attribute; everything else contributes text.
func extractPageLevel(doc *goquery.Document, base *url.URL, strategy string) (models.ContentCandidate, bool) {
	title := firstPageValue(doc, pageTitleSelectors)
	if title == "" {
		return models.ContentCandidate{}, false
	}

	pageURL := ""
	if base != nil {
		pageURL = base.String()
	}

	var published *time.Time
	if raw := firstPageValue(doc, pageDateSelectors); raw != "" {
		published = parseDate(raw)
	}

	return models.ContentCandidate{
		Title:       title,
		BodyPreview: truncatePreview(firstPageValue(doc, pageBodySelectors)),
		URL:         pageURL,
		PublishedAt: published,
		Author:      firstPageValue(doc, pageAuthorSelectors),
		Type:        models.TypeArticle,
		Strategy:    strategy,
	}, true
}

// firstPageValue walks a selector priority list against the whole document
// and returns the first non-empty value found.
func firstPageValue(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		var value string
		if goquery.NodeName(el) == "meta" {
			value, _ = el.Attr("content")
		} else if dt, ok := el.Attr("datetime"); ok && dt != "" {
			value = dt
		} else {
			value = el.Text()
		}
		if v := cleanText(value); v != "" {
			return v
		}
	}
	return ""
}
