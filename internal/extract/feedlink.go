package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentspy/contentspy/internal/models"
)

// DiscoverFeeds returns the RSS and Atom feeds a page advertises through
// <link> elements in its head. It only reports availability; fetching and
// parsing the feed is the feeds package's job.
func DiscoverFeeds(doc *goquery.Document, base *url.URL) []models.FeedRef {
	var refs []models.FeedRef
	seen := map[string]struct{}{}

	doc.Find(`link[type="application/rss+xml"], link[type="application/atom+xml"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}

		feedURL := resolveURL(base, href)
		if _, dup := seen[feedURL]; dup {
			return
		}
		seen[feedURL] = struct{}{}

		kind := "rss"
		if t, _ := s.Attr("type"); t == "application/atom+xml" {
			kind = "atom"
		}

		title, _ := s.Attr("title")
		refs = append(refs, models.FeedRef{
			URL:   feedURL,
			Title: title,
			Kind:  kind,
		})
	})

	return refs
}
