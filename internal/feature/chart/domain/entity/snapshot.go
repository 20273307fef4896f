// Package entity defines the domain models for the chart feature.
package entity

import "encoding/json"

// Snapshot is a cached full-history chart payload for one (provider, symbol)
// pair, independent of any request's time window. It is written whole on an
// authorized refresh and never partially updated.
type Snapshot struct {
	Provider  string          `json:"provider"`
	Symbol    string          `json:"symbol"`
	Interval  string          `json:"interval"`
	UpdatedAt string          `json:"updatedAt"`
	Payload   json.RawMessage `json:"payload"`
}
