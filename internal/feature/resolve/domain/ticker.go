package domain

import (
	"regexp"
	"strings"
)

// Ticker-shape patterns: caret-prefixed index symbols, 6-digit KRX codes with
// an exchange suffix, and bare latin symbols up to 11 characters.
var (
	indexSymbolRe = regexp.MustCompile(`(?i)^\^[A-Z0-9._-]+$`)
	krxSymbolRe   = regexp.MustCompile(`(?i)^\d{6}\.(KS|KQ)$`)
	latinSymbolRe = regexp.MustCompile(`(?i)^[A-Z][A-Z0-9.-]{0,10}$`)
)

// IsTickerSymbol reports whether the input already looks like a canonical
// exchange symbol and therefore needs no resolution.
func IsTickerSymbol(v string) bool {
	if v == "" {
		return false
	}
	return indexSymbolRe.MatchString(v) || krxSymbolRe.MatchString(v) || latinSymbolRe.MatchString(v)
}

// MatchesMarketShape reports whether a search result symbol fits the
// requested market: KRX suffix for kr, dot-free equity or ETF for us,
// anything for an unspecified market.
func MatchesMarketShape(symbol, quoteType, market string) bool {
	if symbol == "" {
		return false
	}
	switch market {
	case MarketKR:
		return krxSuffixRe.MatchString(symbol)
	case MarketUS:
		if quoteType != "EQUITY" && quoteType != "ETF" {
			return false
		}
		return !strings.Contains(symbol, ".")
	default:
		return true
	}
}

var krxSuffixRe = regexp.MustCompile(`\.(KS|KQ)$`)
