package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
	"papertrade/internal/pagination"
	"papertrade/internal/quote"
	"papertrade/internal/services"
)

// --- mock portfolio service ---

type mockPortfolioService struct {
	getHoldingsFn func(ctx context.Context, userID uint) (*services.PortfolioView, error)
	buyFn         func(ctx context.Context, userID uint, symbol string, shares int64) (*models.Position, error)
	sellFn        func(ctx context.Context, userID uint, symbol string) (*models.SoldRecord, error)
	getQuoteFn    func(ctx context.Context, symbol string) (*quote.Quote, error)
	getHistoryFn  func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[services.HistoryEntry], error)
}

func (m *mockPortfolioService) GetHoldings(ctx context.Context, userID uint) (*services.PortfolioView, error) {
	if m.getHoldingsFn != nil {
		return m.getHoldingsFn(ctx, userID)
	}
	return &services.PortfolioView{Holdings: []services.Holding{}}, nil
}

func (m *mockPortfolioService) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Position, error) {
	if m.buyFn != nil {
		return m.buyFn(ctx, userID, symbol, shares)
	}
	return &models.Position{}, nil
}

func (m *mockPortfolioService) Sell(ctx context.Context, userID uint, symbol string) (*models.SoldRecord, error) {
	if m.sellFn != nil {
		return m.sellFn(ctx, userID, symbol)
	}
	return &models.SoldRecord{}, nil
}

func (m *mockPortfolioService) GetQuote(ctx context.Context, symbol string) (*quote.Quote, error) {
	if m.getQuoteFn != nil {
		return m.getQuoteFn(ctx, symbol)
	}
	return &quote.Quote{}, nil
}

func (m *mockPortfolioService) GetHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[services.HistoryEntry], error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(userID, page)
	}
	resp := pagination.NewPageResponse([]services.HistoryEntry{}, 1, 20, 0)
	return &resp, nil
}

// verify interface compliance
var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func setupPortfolioRouter(handler *PortfolioHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/portfolio", handler.GetHoldings)
	auth.POST("/portfolio/buy", handler.Buy)
	auth.POST("/portfolio/sell", handler.Sell)
	auth.GET("/portfolio/history", handler.GetHistory)
	auth.GET("/quote", handler.GetQuote)
	return r
}

func TestPortfolioHandler_Buy(t *testing.T) {
	t.Run("returns 201 with created position", func(t *testing.T) {
		svc := &mockPortfolioService{
			buyFn: func(_ context.Context, userID uint, symbol string, shares int64) (*models.Position, error) {
				if userID != 1 {
					t.Errorf("expected user 1, got %d", userID)
				}
				if symbol != "ABC" || shares != 10 {
					t.Errorf("unexpected buy args: %s x%d", symbol, shares)
				}
				return &models.Position{
					UserID:      userID,
					StockName:   "ABC Inc.",
					StockSymbol: "ABC",
					StockPrice:  5000,
					NumShares:   shares,
				}, nil
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{"symbol": "ABC", "shares": 10})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects missing shares", func(t *testing.T) {
		router := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}))

		w := performJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{"symbol": "ABC"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INVALID_INPUT" {
			t.Errorf("expected INVALID_INPUT, got %q", code)
		}
	})

	t.Run("rejects non-integer shares", func(t *testing.T) {
		router := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}))

		w := performJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{"symbol": "ABC", "shares": "ten"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects malformed ticker", func(t *testing.T) {
		router := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}))

		w := performJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{"symbol": "not a ticker!", "shares": 1})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("maps service errors", func(t *testing.T) {
		svc := &mockPortfolioService{
			buyFn: func(_ context.Context, _ uint, _ string, _ int64) (*models.Position, error) {
				return nil, apperrors.ErrInsufficientFunds
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{"symbol": "ABC", "shares": 9999})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "INSUFFICIENT_FUNDS" {
			t.Errorf("expected INSUFFICIENT_FUNDS, got %q", code)
		}
	})
}

func TestPortfolioHandler_Sell(t *testing.T) {
	t.Run("returns 200 with sold record", func(t *testing.T) {
		svc := &mockPortfolioService{
			sellFn: func(_ context.Context, userID uint, symbol string) (*models.SoldRecord, error) {
				return &models.SoldRecord{
					UserID:      userID,
					StockSymbol: symbol,
					StockPrice:  6000,
					NumShares:   -10,
				}, nil
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodPost, "/portfolio/sell", gin.H{"symbol": "ABC"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("not owned", func(t *testing.T) {
		svc := &mockPortfolioService{
			sellFn: func(_ context.Context, _ uint, _ string) (*models.SoldRecord, error) {
				return nil, apperrors.ErrNotOwned
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodPost, "/portfolio/sell", gin.H{"symbol": "ABC"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "NOT_OWNED" {
			t.Errorf("expected NOT_OWNED, got %q", code)
		}
	})

	t.Run("rejects missing symbol", func(t *testing.T) {
		router := setupPortfolioRouter(NewPortfolioHandler(&mockPortfolioService{}))

		w := performJSON(t, router, http.MethodPost, "/portfolio/sell", gin.H{})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestPortfolioHandler_GetHoldings(t *testing.T) {
	t.Run("returns portfolio view", func(t *testing.T) {
		svc := &mockPortfolioService{
			getHoldingsFn: func(_ context.Context, _ uint) (*services.PortfolioView, error) {
				return &services.PortfolioView{
					Holdings: []services.Holding{
						{StockName: "ABC Inc.", StockSymbol: "ABC", TotalShares: 10, Price: 6000, MarketValue: 60000},
					},
					Cash:       950000,
					GrandTotal: 1010000,
				}, nil
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodGet, "/portfolio", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		portfolio, ok := body["portfolio"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected portfolio object, got %q", w.Body.String())
		}
		if portfolio["grand_total"].(float64) != 1010000 {
			t.Errorf("expected grand_total 1010000, got %v", portfolio["grand_total"])
		}
	})

	t.Run("quote unavailable surfaces as 502", func(t *testing.T) {
		svc := &mockPortfolioService{
			getHoldingsFn: func(_ context.Context, _ uint) (*services.PortfolioView, error) {
				return nil, apperrors.ErrQuoteUnavailable
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodGet, "/portfolio", nil)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "QUOTE_UNAVAILABLE" {
			t.Errorf("expected QUOTE_UNAVAILABLE, got %q", code)
		}
	})
}

func TestPortfolioHandler_GetQuote(t *testing.T) {
	t.Run("returns quote", func(t *testing.T) {
		svc := &mockPortfolioService{
			getQuoteFn: func(_ context.Context, symbol string) (*quote.Quote, error) {
				if symbol != "ABC" {
					t.Errorf("expected symbol ABC, got %q", symbol)
				}
				return &quote.Quote{Name: "ABC Inc.", Symbol: "ABC", Price: 5000}, nil
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodGet, "/quote?symbol=ABC", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		svc := &mockPortfolioService{
			getQuoteFn: func(_ context.Context, _ string) (*quote.Quote, error) {
				return nil, apperrors.ErrUnknownSymbol
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodGet, "/quote?symbol=NOPE", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := errorCode(t, w); code != "UNKNOWN_SYMBOL" {
			t.Errorf("expected UNKNOWN_SYMBOL, got %q", code)
		}
	})
}

func TestPortfolioHandler_GetHistory(t *testing.T) {
	t.Run("passes pagination through", func(t *testing.T) {
		svc := &mockPortfolioService{
			getHistoryFn: func(_ uint, page pagination.PageRequest) (*pagination.PageResponse[services.HistoryEntry], error) {
				if page.Page != 2 || page.PageSize != 5 {
					t.Errorf("expected page 2 size 5, got %+v", page)
				}
				resp := pagination.NewPageResponse([]services.HistoryEntry{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		router := setupPortfolioRouter(NewPortfolioHandler(svc))

		w := performJSON(t, router, http.MethodGet, "/portfolio/history?page=2&page_size=5", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
