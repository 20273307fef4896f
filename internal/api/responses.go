// Package api defines the shared HTTP response DTOs.
package api

// ErrorResponse is the common error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Suggestion is one ranked symbol suggestion shown when resolution misses.
type Suggestion struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// NotFoundResponse is returned when a company name cannot be resolved.
type NotFoundResponse struct {
	Error       string       `json:"error"`
	Query       string       `json:"query"`
	Market      string       `json:"market"`
	Suggestions []Suggestion `json:"suggestions"`
}

// SearchItem is one row of the symbol-search endpoint.
type SearchItem struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
}

// SearchResponse is the symbol-search endpoint body.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}
