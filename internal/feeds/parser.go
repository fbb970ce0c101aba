// Package feeds fetches and parses RSS/Atom feeds and competitor pages.
package feeds

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/contentspy/contentspy/internal/models"
	"github.com/mmcdole/gofeed"
)

// ParseError reports a feed payload that could not be parsed: not
// well-formed XML, or neither an RSS <rss> nor an Atom <feed> document.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing feed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing feed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// ParseFeed parses raw feed XML into a normalized FeedResult. Only the RSS
// and Atom dialects are accepted; anything else (including JSON Feed)
// returns a *ParseError. Items missing a title or link are silently
// skipped. Published dates fall back to the updated date when the feed
// provides only that.
func ParseFeed(raw string) (*models.FeedResult, error) {
	feed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, &ParseError{Reason: "unrecognized or malformed payload", Err: err}
	}

	switch feed.FeedType {
	case "rss", "atom":
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported feed dialect %q", feed.FeedType)}
	}

	result := &models.FeedResult{
		Title:       strings.TrimSpace(feed.Title),
		Description: stripHTML(feed.Description),
		Link:        feed.Link,
	}

	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		fi := models.FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Description: stripHTML(item.Description),
			Author:      itemAuthor(item),
		}
		if item.PublishedParsed != nil {
			t := *item.PublishedParsed
			fi.PublishedAt = &t
		} else if item.UpdatedParsed != nil {
			t := *item.UpdatedParsed
			fi.PublishedAt = &t
		}

		result.Items = append(result.Items, fi)
	}

	return result, nil
}

// itemAuthor pulls the author name from whichever of the three places
// feeds put it: <author>, Atom author entries, or dc:creator.
func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return strings.TrimSpace(item.DublinCoreExt.Creator[0])
	}
	return ""
}

// stripHTML removes HTML tags from s, unescapes entities, and collapses
// whitespace.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(html.UnescapeString(clean)), " ")
}

// Candidates converts parsed feed items into extraction candidates so the
// novelty filter and classifier treat feed and page content uniformly.
func Candidates(result *models.FeedResult) []models.ContentCandidate {
	out := make([]models.ContentCandidate, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, models.ContentCandidate{
			Title:       item.Title,
			BodyPreview: item.Description,
			URL:         item.Link,
			PublishedAt: item.PublishedAt,
			Author:      item.Author,
			Type:        models.TypeFeed,
			Strategy:    "feed",
		})
	}
	return out
}
