package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
	"papertrade/internal/pagination"
	"papertrade/internal/quote"
)

// portfolioService executes buy/sell state transitions against the
// ledger and computes the priced portfolio read models.
type portfolioService struct {
	db             *gorm.DB
	accountService AccountServicer
	quotes         quote.Provider
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB, accountService AccountServicer, quotes quote.Provider) PortfolioServicer {
	return &portfolioService{db: db, accountService: accountService, quotes: quotes}
}

// holdingRow is the grouped-by-symbol aggregation of open lots.
type holdingRow struct {
	StockName   string
	StockSymbol string
	TotalShares int64
}

// lookup resolves a symbol through the quote provider, translating
// provider errors into the service error taxonomy.
func (s *portfolioService) lookup(ctx context.Context, symbol string) (*quote.Quote, error) {
	q, err := s.quotes.Lookup(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return nil, apperrors.ErrUnknownSymbol
		}
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}
	return q, nil
}

// openHoldings returns the user's open lots grouped by (name, symbol),
// shares summed, ordered by name.
func (s *portfolioService) openHoldings(db *gorm.DB, userID uint) ([]holdingRow, error) {
	var rows []holdingRow
	if err := db.Model(&models.Position{}).
		Select("stock_name, stock_symbol, SUM(num_shares) AS total_shares").
		Where("user_id = ?", userID).
		Group("stock_name, stock_symbol").
		Order("stock_name").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// GetHoldings aggregates the user's open lots per symbol, prices each
// holding at the current quote, and computes the grand total
// (cash + sum of market values). A quote failure for a held symbol is a
// hard failure for the whole view.
func (s *portfolioService) GetHoldings(ctx context.Context, userID uint) (*PortfolioView, error) {
	cash, err := s.accountService.GetCash(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.openHoldings(s.db, userID)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{
		Holdings:   make([]Holding, 0, len(rows)),
		Cash:       cash,
		GrandTotal: cash,
	}

	for _, row := range rows {
		q, err := s.quotes.Lookup(ctx, row.StockSymbol)
		if err != nil {
			// The symbol is held, so even not-found means the view
			// cannot be priced.
			return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
		}
		value := row.TotalShares * q.Price
		view.Holdings = append(view.Holdings, Holding{
			StockName:   row.StockName,
			StockSymbol: row.StockSymbol,
			TotalShares: row.TotalShares,
			Price:       q.Price,
			MarketValue: value,
		})
		view.GrandTotal += value
	}

	return view, nil
}

// Buy quotes the symbol at call time, debits cash, and appends a new
// open lot. Repeated buys of the same symbol stack as separate lots;
// aggregation happens on read. The cash debit and the lot insert commit
// together or not at all.
func (s *portfolioService) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Position, error) {
	if shares <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "shares must be a positive integer")
	}
	if strings.TrimSpace(symbol) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}

	q, err := s.lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	// Guard the multiplication: a wrapped-negative cost would slip past
	// the balance checks and credit cash instead of debiting it.
	if shares > math.MaxInt64/q.Price {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "share count too large")
	}
	cost := shares * q.Price

	// Friendly pre-check; the guarded update inside the transaction is
	// the authority under concurrency.
	cash, err := s.accountService.GetCash(userID)
	if err != nil {
		return nil, err
	}
	if cost > cash {
		return nil, apperrors.ErrInsufficientFunds
	}

	position := &models.Position{
		UserID:      userID,
		StockName:   q.Name,
		StockSymbol: q.Symbol,
		StockPrice:  q.Price,
		NumShares:   shares,
		PurchasedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.accountService.AdjustCash(tx, userID, -cost); txErr != nil {
			return txErr
		}
		if txErr := tx.Create(position).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrLedgerWrite, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return position, nil
}

// Sell liquidates the user's ENTIRE open position for the symbol at the
// current quote: every open lot is removed, one negative-share
// SoldRecord is appended, and the proceeds are credited, all in one
// transaction. Partial sells are deliberately not offered; per-lot cost
// basis is not preserved past the sale.
func (s *portfolioService) Sell(ctx context.Context, userID uint, symbol string) (*models.SoldRecord, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}

	q, err := s.lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	record := &models.SoldRecord{
		UserID:      userID,
		StockName:   q.Name,
		StockSymbol: q.Symbol,
		StockPrice:  q.Price,
		SoldAt:      time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Sum inside the transaction so the delete below covers exactly
		// the shares being paid out.
		var total int64
		if txErr := tx.Model(&models.Position{}).
			Where("user_id = ? AND stock_symbol = ?", userID, q.Symbol).
			Select("COALESCE(SUM(num_shares), 0)").
			Scan(&total).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if total == 0 {
			return apperrors.ErrNotOwned
		}
		if total > math.MaxInt64/q.Price {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "position too large to price")
		}

		res := tx.Where("user_id = ? AND stock_symbol = ?", userID, q.Symbol).
			Delete(&models.Position{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrLedgerWrite, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Wrap(apperrors.ErrLedgerWrite, errors.New("no open lots deleted"))
		}

		record.NumShares = -total
		if txErr := tx.Create(record).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrLedgerWrite, txErr)
		}

		return s.accountService.AdjustCash(tx, userID, total*q.Price)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetQuote resolves a symbol for the quote page.
func (s *portfolioService) GetQuote(ctx context.Context, symbol string) (*quote.Quote, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	return s.lookup(ctx, symbol)
}

// GetHistory merges open purchase lots and sold records into one ledger
// ordered by their respective timestamps.
func (s *portfolioService) GetHistory(userID uint, page pagination.PageRequest) (*pagination.PageResponse[HistoryEntry], error) {
	page.Defaults()

	var positions []models.Position
	if err := s.db.Where("user_id = ?", userID).
		Order("purchased_at").Find(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sold []models.SoldRecord
	if err := s.db.Where("user_id = ?", userID).
		Order("sold_at").Find(&sold).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]HistoryEntry, 0, len(positions)+len(sold))
	for _, p := range positions {
		entries = append(entries, HistoryEntry{
			Type:        HistoryEntryBuy,
			StockName:   p.StockName,
			StockSymbol: p.StockSymbol,
			StockPrice:  p.StockPrice,
			NumShares:   p.NumShares,
			Date:        p.PurchasedAt,
		})
	}
	for _, r := range sold {
		entries = append(entries, HistoryEntry{
			Type:        HistoryEntrySell,
			StockName:   r.StockName,
			StockSymbol: r.StockSymbol,
			StockPrice:  r.StockPrice,
			NumShares:   r.NumShares,
			Date:        r.SoldAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	total := int64(len(entries))
	result := pagination.NewPageResponse(pagination.Slice(entries, page), page.Page, page.PageSize, total)
	return &result, nil
}
