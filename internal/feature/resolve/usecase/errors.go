package usecase

import "errors"

// ErrSymbolNotFound is returned when no resolution tier can map the query to
// a symbol. It is an expected miss, not an upstream failure.
var ErrSymbolNotFound = errors.New("symbol not found")
