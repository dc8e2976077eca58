package testutil

import (
	"context"
	"strings"

	"papertrade/internal/quote"
)

// StubQuoteProvider serves quotes from an in-memory price table.
// Symbols absent from Prices resolve to quote.ErrNotFound; a non-nil
// Err fails every lookup, simulating a provider outage.
type StubQuoteProvider struct {
	Prices  map[string]int64
	Err     error
	Lookups int
}

// NewStubQuoteProvider creates a stub provider over the given
// symbol -> price (cents) table.
func NewStubQuoteProvider(prices map[string]int64) *StubQuoteProvider {
	return &StubQuoteProvider{Prices: prices}
}

// Name returns the stub's display name.
func (p *StubQuoteProvider) Name() string { return "stub" }

// Lookup resolves a symbol from the price table.
func (p *StubQuoteProvider) Lookup(_ context.Context, symbol string) (*quote.Quote, error) {
	p.Lookups++
	if p.Err != nil {
		return nil, p.Err
	}
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	price, ok := p.Prices[normalized]
	if !ok {
		return nil, quote.ErrNotFound
	}
	return &quote.Quote{
		Name:   normalized + " Inc.",
		Symbol: normalized,
		Price:  price,
	}, nil
}
