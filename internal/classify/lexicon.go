package classify

import (
	"strings"

	"github.com/contentspy/contentspy/internal/models"
)

var positiveWords = []string{
	"great", "excellent", "amazing", "success", "improved", "growth",
	"win", "best", "fastest", "innovative", "milestone", "love",
}

var negativeWords = []string{
	"problem", "issue", "failure", "failed", "outage", "decline",
	"worst", "loss", "breach", "delay", "bug", "broken",
}

// DetectSentiment compares whole-word counts from the positive and negative
// word lists over the lowercased text. Equal counts (including zero matches)
// are neutral.
func DetectSentiment(text string) models.Sentiment {
	lowered := strings.ToLower(text)

	var pos, neg int
	for _, w := range positiveWords {
		pos += countOccurrences(lowered, w)
	}
	for _, w := range negativeWords {
		neg += countOccurrences(lowered, w)
	}

	switch {
	case pos > neg:
		return models.SentimentPositive
	case neg > pos:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// topicGroup maps a topic name to trigger keywords. Unlike category scoring,
// topic matching is a plain substring check, so "designer" triggers "design".
// That looseness is intentional; topics are broad buckets, not labels.
type topicGroup struct {
	name     string
	keywords []string
}

var topicGroups = []topicGroup{
	{name: "technology", keywords: []string{"software", "cloud", "platform", "saas", "artificial intelligence", "machine learning", "automation"}},
	{name: "business", keywords: []string{"revenue", "market", "strategy", "customer", "growth", "startup"}},
	{name: "marketing", keywords: []string{"seo", "campaign", "brand", "content marketing", "social media", "email"}},
	{name: "design", keywords: []string{"design", "ux", "ui", "interface", "typography", "accessibility"}},
	{name: "development", keywords: []string{"code", "developer", "programming", "framework", "open source", "testing"}},
}

// ExtractTopics returns the topics whose keyword groups match the text,
// in table order.
func ExtractTopics(text string) []string {
	lowered := strings.ToLower(text)

	var topics []string
	for _, group := range topicGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				topics = append(topics, group.name)
				break
			}
		}
	}
	return topics
}

// language pairs a language name with a handful of its most common words.
type language struct {
	name  string
	words map[string]struct{}
}

var languages = []language{
	{name: "english", words: wordSet("the", "and", "for", "with", "that", "this", "from", "have", "are", "was")},
	{name: "spanish", words: wordSet("el", "los", "las", "que", "para", "con", "una", "por", "del", "como")},
	{name: "french", words: wordSet("le", "les", "des", "une", "pour", "avec", "dans", "est", "sur", "pas")},
	{name: "german", words: wordSet("der", "die", "das", "und", "mit", "für", "ein", "ist", "nicht", "von")},
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// languageSampleWords bounds how much text language detection looks at.
const languageSampleWords = 50

// DetectLanguage counts common-word matches per language over the first 50
// whitespace-separated tokens of the lowercased text. The highest-scoring
// language wins; ties go to the language declared first. Returns "unknown"
// when nothing matches.
func DetectLanguage(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > languageSampleWords {
		tokens = tokens[:languageSampleWords]
	}

	best := "unknown"
	bestScore := 0
	for _, lang := range languages {
		score := 0
		for _, tok := range tokens {
			tok = strings.Trim(tok, ".,;:!?\"'()[]")
			if _, ok := lang.words[tok]; ok {
				score++
			}
		}
		if score > bestScore {
			best = lang.name
			bestScore = score
		}
	}
	return best
}
