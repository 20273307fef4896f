// Package domain holds the pure name-normalization and key-expansion logic
// the symbol resolution pipeline is built on.
package domain

import (
	"regexp"
	"strings"
)

// Market tags understood by the resolution pipeline. Any other value means
// "market unspecified" and disables the market-scoped tiers.
const (
	MarketKR = "kr"
	MarketUS = "us"
)

// nonKeyChars matches every rune that is not allowed in a normalized key:
// ASCII digits, lowercase latin, Hangul compatibility jamo (U+3131-U+318E),
// Hangul syllables (U+AC00-U+D7A3) and the ampersand.
var nonKeyChars = regexp.MustCompile(`[^0-9a-z\x{3131}-\x{318e}\x{ac00}-\x{d7a3}&]`)

// Normalize canonicalizes a free-text company name or ticker into a
// comparable lookup key: lowercased, whitespace and punctuation stripped.
// It is total and idempotent; an input with no allowed runes yields "".
func Normalize(v string) string {
	return nonKeyChars.ReplaceAllString(strings.ToLower(v), "")
}

// rewriteRule is a one-directional substring rewrite applied during key
// expansion. Pairs of rules (&→and plus and→&) make equivalence effectively
// symmetric across the full set.
type rewriteRule struct {
	from, to   string
	prefixOnly bool
}

func (r rewriteRule) apply(s string) string {
	if r.prefixOnly {
		if !strings.HasPrefix(s, r.from) {
			return s
		}
		return r.to + s[len(r.from):]
	}
	return strings.ReplaceAll(s, r.from, r.to)
}

// The fixed rewrite rule set: official-entity prefix removal, Hangul spelling
// of conglomerate names to their latin ticker prefixes, and ampersand
// variants.
var rewriteRules = []rewriteRule{
	{from: "주식회사", to: "", prefixOnly: true},
	{from: "주식회사", to: ""},
	{from: "엘지", to: "lg", prefixOnly: true},
	{from: "엘지", to: "lg"},
	{from: "에스케이", to: "sk", prefixOnly: true},
	{from: "에스케이", to: "sk"},
	{from: "케이티앤지", to: "ktg"},
	{from: "앤드", to: "and"},
	{from: "&", to: "and"},
	{from: "and", to: "&"},
}

// maxCandidateKeys bounds the expansion closure. The rule set converges after
// a handful of iterations for real names; the cap guards against a pathological
// input looping through rewrites forever.
const maxCandidateKeys = 64

// CandidateKeys returns the closure of normalized name variants reachable
// from input under the rewrite rules, in generation order. The first element
// is always the normalized input itself. An input that normalizes to the
// empty string yields nil.
func CandidateKeys(input string) []string {
	base := Normalize(input)
	if base == "" {
		return nil
	}

	seen := map[string]struct{}{base: {}}
	keys := []string{base}

	// Breadth-first: keys doubles as the work queue.
	for i := 0; i < len(keys) && len(keys) < maxCandidateKeys; i++ {
		for _, rule := range rewriteRules {
			next := Normalize(rule.apply(keys[i]))
			if next == "" {
				continue
			}
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			keys = append(keys, next)
			if len(keys) >= maxCandidateKeys {
				break
			}
		}
	}

	return keys
}
