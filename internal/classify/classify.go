// Package classify assigns categories, tags, sentiment, topics, and language
// to content items using keyword-scoring heuristics. Every function here is
// pure and deterministic given the fixed keyword tables; there is no model
// and no network access.
package classify

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FallbackCategory is assigned when no category keyword matches at all.
const FallbackCategory = "General"

const (
	maxRankedCategories = 3
	maxTags             = 10
)

// category pairs a name with the keyword phrases that score for it. The
// declaration order of the table is the tie-break order: when two categories
// score equally, the one declared first wins.
type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{name: "Product", keywords: []string{"product", "launch", "release", "feature", "announcement", "roadmap", "beta", "integration"}},
	{name: "Engineering", keywords: []string{"engineering", "infrastructure", "architecture", "performance", "scalability", "api", "migration", "reliability"}},
	{name: "Marketing", keywords: []string{"marketing", "campaign", "seo", "brand", "advertising", "conversion", "audience", "content strategy"}},
	{name: "Sales", keywords: []string{"sales", "pricing", "revenue", "discount", "enterprise", "deal", "quota"}},
	{name: "Company News", keywords: []string{"acquisition", "funding", "partnership", "hiring", "leadership", "milestone", "expansion"}},
	{name: "Tutorials", keywords: []string{"how to", "guide", "tutorial", "step by step", "tips", "best practices", "walkthrough"}},
	{name: "Case Studies", keywords: []string{"case study", "customer story", "success story", "results", "testimonial"}},
	{name: "Research", keywords: []string{"research", "report", "survey", "study", "benchmark", "findings", "analysis"}},
}

// wordPatterns caches a compiled whole-word regexp per keyword phrase.
// Patterns are shared across tables, so a phrase appearing in two tables
// compiles once.
var wordPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			compileWordPattern(kw)
		}
	}
	for _, w := range positiveWords {
		compileWordPattern(w)
	}
	for _, w := range negativeWords {
		compileWordPattern(w)
	}
}

func compileWordPattern(phrase string) {
	if _, ok := wordPatterns[phrase]; ok {
		return
	}
	wordPatterns[phrase] = regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// countOccurrences returns how many times phrase appears in text as a whole
// word or phrase. All occurrences count, not just presence.
func countOccurrences(text, phrase string) int {
	re, ok := wordPatterns[phrase]
	if !ok {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// Result holds the category assignment for a single content item.
type Result struct {
	Primary    string
	Categories []string
	Confidence float64
	Tags       []string
}

// Classify scores the combined title and body against the category table.
// Primary is the highest-scoring category (declaration order breaks ties),
// Categories holds up to three scoring categories ranked by score, and
// Confidence is the primary score's share of all scores, rounded to two
// decimals. Tags collects the matched keyword phrases across every category,
// deduplicated, capped at ten, in table order.
func Classify(title, body string) Result {
	text := strings.ToLower(title + " " + body)

	type scored struct {
		name  string
		score int
	}
	var (
		ranked  []scored
		total   int
		tags    []string
		tagSeen = map[string]struct{}{}
	)

	for _, cat := range categories {
		score := 0
		for _, kw := range cat.keywords {
			n := countOccurrences(text, kw)
			if n == 0 {
				continue
			}
			score += n
			if _, ok := tagSeen[kw]; !ok && len(tags) < maxTags {
				tagSeen[kw] = struct{}{}
				tags = append(tags, kw)
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{name: cat.name, score: score})
			total += score
		}
	}

	if total == 0 {
		return Result{
			Primary:    FallbackCategory,
			Categories: []string{FallbackCategory},
			Confidence: 0,
			Tags:       []string{},
		}
	}

	// Stable sort keeps declaration order among equal scores, which makes
	// the primary pick and the ranked list deterministic.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	names := make([]string, 0, maxRankedCategories)
	for _, s := range ranked {
		if len(names) == maxRankedCategories {
			break
		}
		names = append(names, s.name)
	}

	confidence := math.Round(float64(ranked[0].score)/float64(total)*100) / 100

	return Result{
		Primary:    names[0],
		Categories: names,
		Confidence: confidence,
		Tags:       tags,
	}
}
