package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"papertrade/internal/models"
	"papertrade/internal/pagination"
	"papertrade/internal/quote"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
}

// AccountServicer defines the contract for cash-balance operations.
type AccountServicer interface {
	GetCash(userID uint) (int64, error)
	Deposit(userID uint, amount int64) (int64, error)
	// AdjustCash applies a signed delta to the user's cash within the
	// caller's transaction. The update is guarded so cash never goes
	// negative; a negative delta that would overdraw fails with
	// ErrInsufficientFunds and writes nothing.
	AdjustCash(tx *gorm.DB, userID uint, delta int64) error
}

// Holding is one aggregated symbol in a user's portfolio: all open lots
// summed, priced at the current quote.
type Holding struct {
	StockName   string `json:"stock_name"`
	StockSymbol string `json:"stock_symbol"`
	TotalShares int64  `json:"total_shares"`
	Price       int64  `json:"price"`
	MarketValue int64  `json:"market_value"`
}

// PortfolioView is the presentation-facing read model for the holdings
// page: per-symbol holdings plus cash and the grand total.
type PortfolioView struct {
	Holdings   []Holding `json:"holdings"`
	Cash       int64     `json:"cash"`
	GrandTotal int64     `json:"grand_total"`
}

// HistoryEntryType distinguishes purchase rows from sale rows in the
// merged transaction history.
type HistoryEntryType string

const (
	HistoryEntryBuy  HistoryEntryType = "buy"
	HistoryEntrySell HistoryEntryType = "sell"
)

// HistoryEntry is one row of the merged transaction history.
type HistoryEntry struct {
	Type        HistoryEntryType `json:"type"`
	StockName   string           `json:"stock_name"`
	StockSymbol string           `json:"stock_symbol"`
	StockPrice  int64            `json:"stock_price"`
	NumShares   int64            `json:"num_shares"`
	Date        time.Time        `json:"date"`
}

// PortfolioServicer defines the contract for portfolio reads and the
// buy/sell state transitions.
type PortfolioServicer interface {
	GetHoldings(ctx context.Context, userID uint) (*PortfolioView, error)
	Buy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Position, error)
	Sell(ctx context.Context, userID uint, symbol string) (*models.SoldRecord, error)
	GetQuote(ctx context.Context, symbol string) (*quote.Quote, error)
	GetHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[HistoryEntry], error)
}
