package classify

import (
	"math"
	"strings"
	"unicode"
)

// wpmAverage is the words-per-minute reading speed assumed for estimating
// reading time of marketing and technical content.
const wpmAverage = 238

// ReadingTime estimates reading time in minutes for the given text, with a
// minimum of 1 minute for non-empty text and 0 for empty text.
func ReadingTime(text string) int {
	words := WordCount(text)
	if words == 0 {
		return 0
	}

	minutes := math.Ceil(float64(words) / wpmAverage)
	if minutes < 1 {
		minutes = 1
	}
	return int(minutes)
}

// WordCount counts words in the text, treating whitespace and common
// punctuation as separators.
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) || strings.ContainsRune(".,;:!?\"'()[]{}—–-", r) {
			if inWord {
				count++
				inWord = false
			}
		} else {
			inWord = true
		}
	}
	if inWord {
		count++
	}
	return count
}
