// Package dto defines the wire shapes of Yahoo Finance responses.
package dto

// SearchResponse is the v1 finance search response envelope.
type SearchResponse struct {
	Quotes []SearchQuote `json:"quotes"`
}

// SearchQuote is one fuzzy-search result row.
type SearchQuote struct {
	Symbol    string `json:"symbol"`
	Shortname string `json:"shortname"`
	Longname  string `json:"longname"`
	QuoteType string `json:"quoteType"`
}
