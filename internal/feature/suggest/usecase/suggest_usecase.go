// Package usecase implements ranked symbol suggestions on top of the
// provider's fuzzy quote search.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"chart_backend/internal/feature/resolve/domain"
)

// QuoteSearcher is the provider's fuzzy quote-search capability.
// Following Go convention: interfaces are defined by the consumer (usecase).
type QuoteSearcher interface {
	SearchQuotes(ctx context.Context, query string, count int) ([]domain.Quote, error)
}

// SuggestUsecase turns free-text queries into ranked symbol suggestions.
// Suggestions are best-effort display data: every upstream failure degrades
// to an empty list, never to an error.
type SuggestUsecase struct {
	quotes QuoteSearcher
}

// NewSuggestUsecase creates a SuggestUsecase over the given searcher.
func NewSuggestUsecase(quotes QuoteSearcher) *SuggestUsecase {
	return &SuggestUsecase{quotes: quotes}
}

// Search returns up to limit suggestions matching the query, filtered to the
// market-appropriate symbol shape. The provider is asked for twice the limit
// so the shape filter has enough rows to work with.
func (u *SuggestUsecase) Search(ctx context.Context, query, market string, limit int) []domain.Quote {
	q := strings.TrimSpace(query)
	if q == "" || limit <= 0 {
		return []domain.Quote{}
	}

	quotes, err := u.quotes.SearchQuotes(ctx, q, 2*limit)
	if err != nil {
		slog.Warn("suggestion search failed", "query", q, "error", err)
		return []domain.Quote{}
	}

	out := make([]domain.Quote, 0, limit)
	for _, quote := range quotes {
		if !domain.MatchesMarketShape(quote.Symbol, quote.QuoteType, market) {
			continue
		}
		out = append(out, quote)
		if len(out) == limit {
			break
		}
	}
	return out
}
