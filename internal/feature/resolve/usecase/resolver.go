// Package usecase implements the symbol resolution pipeline: an ordered
// sequence of lookup tiers over the candidate-key expansion of the query.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"chart_backend/internal/feature/resolve/domain"
)

// searchQuoteCount is how many fuzzy-search rows the final tier asks the
// provider for before filtering.
const searchQuoteCount = 20

// SymbolTable is one resolution tier: a candidate key either maps to a
// symbol or misses. Implementations must report presence, not truthiness.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type SymbolTable interface {
	Lookup(ctx context.Context, key, market string) (string, bool)
}

// QuoteSearcher is the provider's fuzzy quote-search capability.
type QuoteSearcher interface {
	SearchQuotes(ctx context.Context, query string, count int) ([]domain.Quote, error)
}

// Resolver resolves free-text company names to exchange symbols through a
// fixed tier order: alias index, static table, market universe, then the
// provider's fuzzy search. Earlier candidate keys and earlier tiers always
// win.
type Resolver struct {
	alias    SymbolTable
	static   SymbolTable
	universe SymbolTable
	quotes   QuoteSearcher
}

// NewResolver creates a Resolver over the given tiers.
func NewResolver(alias, static, universe SymbolTable, quotes QuoteSearcher) *Resolver {
	return &Resolver{alias: alias, static: static, universe: universe, quotes: quotes}
}

// Resolve maps query to an exchange symbol for the given market tag.
// Ticker-shaped inputs are returned unchanged. A miss across all tiers
// yields ErrSymbolNotFound.
func (r *Resolver) Resolve(ctx context.Context, query, market string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrSymbolNotFound
	}
	if domain.IsTickerSymbol(q) {
		return q, nil
	}

	keys := domain.CandidateKeys(q)
	if len(keys) == 0 {
		return "", ErrSymbolNotFound
	}

	// Tier 1: remote alias index, market-scoped or combined.
	for _, key := range keys {
		if sym, ok := r.alias.Lookup(ctx, key, market); ok {
			return sym, nil
		}
	}

	// Tier 2: static fallback tables, kr/us only.
	if market == domain.MarketKR || market == domain.MarketUS {
		for _, key := range keys {
			if sym, ok := r.static.Lookup(ctx, key, market); ok {
				return sym, nil
			}
		}
	}

	// Tier 3: scraped market universe, kr/us only.
	if market == domain.MarketKR || market == domain.MarketUS {
		for _, key := range keys {
			if sym, ok := r.universe.Lookup(ctx, key, market); ok {
				return sym, nil
			}
		}
	}

	// Tier 4: provider fuzzy search with the raw query.
	if sym, ok := r.resolveBySearch(ctx, q, market, keys); ok {
		return sym, nil
	}

	return "", ErrSymbolNotFound
}

// resolveBySearch filters the provider's fuzzy matches by market shape and
// selects exact name match > substring match > first filtered result.
func (r *Resolver) resolveBySearch(ctx context.Context, query, market string, keys []string) (string, bool) {
	quotes, err := r.quotes.SearchQuotes(ctx, query, searchQuoteCount)
	if err != nil {
		slog.Warn("fuzzy search tier unavailable", "query", query, "error", err)
		return "", false
	}

	filtered := quotes[:0:0]
	for _, q := range quotes {
		if domain.MatchesMarketShape(q.Symbol, q.QuoteType, market) {
			filtered = append(filtered, q)
		}
	}
	if len(filtered) == 0 {
		return "", false
	}

	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	for _, q := range filtered {
		short, long := domain.Normalize(q.ShortName), domain.Normalize(q.LongName)
		if _, ok := keySet[short]; ok && short != "" {
			return q.Symbol, true
		}
		if _, ok := keySet[long]; ok && long != "" {
			return q.Symbol, true
		}
	}

	for _, q := range filtered {
		short, long := domain.Normalize(q.ShortName), domain.Normalize(q.LongName)
		for _, key := range keys {
			if (short != "" && strings.Contains(short, key)) || (long != "" && strings.Contains(long, key)) {
				return q.Symbol, true
			}
		}
	}

	return filtered[0].Symbol, true
}
