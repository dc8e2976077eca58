// Package quote defines the contract for resolving ticker symbols to
// current prices from an external data source.
package quote

import (
	"context"
	"errors"
)

// Quote is a resolved instrument: display name, normalized (uppercase)
// symbol, and current per-share price in cents.
type Quote struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Price  int64  `json:"price"`
}

// ErrNotFound is returned when a symbol does not resolve to a listed
// instrument. Any other error means the provider itself failed.
var ErrNotFound = errors.New("quote: symbol not found")

// Provider resolves a single ticker symbol to a current quote.
// Symbol matching is case-insensitive; implementations return quotes
// with the symbol upper-cased.
type Provider interface {
	// Name returns the provider's display name (e.g., "Yahoo Finance").
	Name() string

	// Lookup fetches the current quote for the given symbol.
	// Returns ErrNotFound if the symbol cannot be resolved.
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
