// Package fingerprint computes compact, deterministic identities for content
// items and filters candidate batches against previously seen history.
//
// The hash is deliberately non-cryptographic: it only needs to be stable
// across runs and cheap enough to run on every candidate on every check.
// Collisions show up as false "already seen" results, which is acceptable
// given typical title/URL entropy.
package fingerprint

import (
	"strconv"
	"unicode/utf16"

	"github.com/contentspy/contentspy/internal/models"
)

// Compute returns the fingerprint for a (title, url) pair. The two fields
// are joined with "|" and hashed with a 32-bit rolling hash
// (hash = hash*31 + c over UTF-16 code units, with signed wraparound), then
// the absolute value is encoded in base 36.
//
// Field order matters: Compute(a, b) and Compute(b, a) differ.
func Compute(title, url string) string {
	var hash int32
	for _, c := range utf16.Encode([]rune(title + "|" + url)) {
		hash = (hash << 5) - hash + int32(c)
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// FilterNew returns the candidates whose fingerprints do not appear in
// history. When two candidates in the same batch share a fingerprint, only
// the first is kept. The returned slice preserves input order; history is
// never mutated.
func FilterNew(candidates []models.ContentCandidate, history []string) []models.ContentCandidate {
	seen := make(map[string]struct{}, len(history)+len(candidates))
	for _, fp := range history {
		seen[fp] = struct{}{}
	}

	var fresh []models.ContentCandidate
	for _, c := range candidates {
		fp := Compute(c.Title, c.URL)
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh
}
