package extract

import (
	"testing"
)

func TestArticleExtractor_Listing(t *testing.T) {
	html := `<html><body>
		<article>
			<h2>First Post About Scaling</h2>
			<div class="excerpt">How we scaled the ingest pipeline.</div>
			<time datetime="2026-02-01T08:00:00Z">Feb 1, 2026</time>
			<span class="author">Dana Reyes</span>
			<a href="/blog/scaling">Read</a>
		</article>
		<div class="blog-post">
			<h2>Second Post About Hiring</h2>
			<a href="https://example.com/blog/hiring">Read</a>
		</div>
		</body></html>`
	doc, base := parseDoc(t, html, "https://example.com/blog")

	got := (&ArticleExtractor{}).Extract(doc, base)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}

	first := got[0]
	if first.Title != "First Post About Scaling" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.URL != "https://example.com/blog/scaling" {
		t.Errorf("URL = %q, want resolved /blog/scaling", first.URL)
	}
	if first.BodyPreview != "How we scaled the ingest pipeline." {
		t.Errorf("BodyPreview = %q", first.BodyPreview)
	}
	if first.Author != "Dana Reyes" {
		t.Errorf("Author = %q", first.Author)
	}
	if first.PublishedAt == nil {
		t.Error("PublishedAt is nil, want parsed datetime attribute")
	} else if first.PublishedAt.UTC().Format("2006-01-02") != "2026-02-01" {
		t.Errorf("PublishedAt = %v", first.PublishedAt)
	}
	if first.Strategy != "article" {
		t.Errorf("Strategy = %q", first.Strategy)
	}

	if got[1].Title != "Second Post About Hiring" {
		t.Errorf("second Title = %q", got[1].Title)
	}
}

func TestArticleExtractor_TitlePriority(t *testing.T) {
	// h1 outranks the .title class in the child selector priority list.
	html := `<html><body><article>
		<h1>Primary Headline Wins Here</h1>
		<div class="title">Secondary title loses</div>
		<a href="/p">x</a>
		</article></body></html>`
	doc, base := parseDoc(t, html, "https://example.com/")

	got := (&ArticleExtractor{}).Extract(doc, base)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Title != "Primary Headline Wins Here" {
		t.Errorf("Title = %q, want the h1 text", got[0].Title)
	}
}

func TestArticleExtractor_PageFallback(t *testing.T) {
	// No article containers at all: the page itself is the candidate.
	html := `<html><head>
		<meta property="og:title" content="Ignored Because H1 Exists">
		</head><body>
		<h1>A Single Article Page Title</h1>
		<div class="entry-content">The long-form body of the single article lives here.</div>
		<time datetime="2026-03-05">March 5</time>
		<span class="byline">Sam Okafor</span>
		</body></html>`
	doc, base := parseDoc(t, html, "https://example.com/post/42")

	got := (&ArticleExtractor{}).Extract(doc, base)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1 page-level candidate", len(got))
	}

	c := got[0]
	if c.Title != "A Single Article Page Title" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.URL != "https://example.com/post/42" {
		t.Errorf("URL = %q, want the page URL", c.URL)
	}
	if c.BodyPreview == "" {
		t.Error("BodyPreview empty, want entry-content text")
	}
	if c.Author != "Sam Okafor" {
		t.Errorf("Author = %q", c.Author)
	}
}

func TestArticleExtractor_PageFallbackMetaTitle(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Meta Title For A Bare Page">
		</head><body><p>no headings anywhere</p></body></html>`
	doc, base := parseDoc(t, html, "https://example.com/")

	got := (&ArticleExtractor{}).Extract(doc, base)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Title != "Meta Title For A Bare Page" {
		t.Errorf("Title = %q, want og:title content", got[0].Title)
	}
}

func TestArticleExtractor_SkipsTitlelessContainers(t *testing.T) {
	html := `<html><body>
		<article><p>no title element in here</p></article>
		<article><h2>Container With A Real Title</h2><a href="/ok">x</a></article>
		</body></html>`
	doc, base := parseDoc(t, html, "https://example.com/")

	got := (&ArticleExtractor{}).Extract(doc, base)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Title != "Container With A Real Title" {
		t.Errorf("Title = %q", got[0].Title)
	}
}

func TestArticleExtractor_PreviewTruncated(t *testing.T) {
	long := make([]byte, 0, 1200)
	for i := 0; i < 1200; i++ {
		long = append(long, 'x')
	}
	html := `<html><body><article>
		<h2>Post With An Enormous Body</h2>
		<div class="content">` + string(long) + `</div>
		<a href="/p">x</a>
		</article></body></html>`
	doc, base := parseDoc(t, html, "https://example.com/")

	got := (&ArticleExtractor{}).Extract(doc, base)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if n := len([]rune(got[0].BodyPreview)); n != previewMaxChars {
		t.Errorf("BodyPreview length = %d, want %d", n, previewMaxChars)
	}
}
