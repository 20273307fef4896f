package domain

// Quote is one row of a provider fuzzy-search response, used both by the
// resolver's final tier and by the suggestion endpoint.
type Quote struct {
	Symbol    string // canonical exchange symbol, uppercased
	ShortName string
	LongName  string
	QuoteType string // provider asset-type tag, e.g. "EQUITY" or "ETF"
}

// Name returns the best human-readable name for the quote.
func (q Quote) Name() string {
	if q.ShortName != "" {
		return q.ShortName
	}
	return q.LongName
}
