package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
)

const (
	yahooBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	yahooUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooQuoteResponse is the top-level Yahoo Finance API response.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteResult is a single quote result from Yahoo Finance.
type yahooQuoteResult struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// YahooProvider fetches quotes from Yahoo Finance.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance quote provider.
// An empty baseURL uses the public Yahoo Finance endpoint.
func NewYahooProvider(httpClient *http.Client, baseURL string) *YahooProvider {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooProvider{httpClient: httpClient, baseURL: baseURL}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Lookup fetches the current quote for a single symbol.
func (p *YahooProvider) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	ticker := strings.ToUpper(strings.TrimSpace(symbol))
	if ticker == "" {
		return nil, ErrNotFound
	}

	reqURL := p.baseURL + "?symbols=" + url.QueryEscape(ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var quoteResp yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	for _, r := range quoteResp.QuoteResponse.Result {
		if !strings.EqualFold(r.Symbol, ticker) {
			continue
		}
		// A zero price means the symbol exists but is not quotable.
		if r.RegularMarketPrice == 0 {
			return nil, ErrNotFound
		}
		name := r.LongName
		if name == "" {
			name = r.ShortName
		}
		if name == "" {
			name = ticker
		}
		return &Quote{
			Name:   name,
			Symbol: strings.ToUpper(r.Symbol),
			Price:  int64(math.Round(r.RegularMarketPrice * 100)),
		}, nil
	}

	return nil, ErrNotFound
}
