package models

import "time"

// SoldRecord is the append-only audit row written when a symbol is
// liquidated. NumShares is stored negative to mark the disposal
// direction; StockPrice is the per-share price at the time of sale.
// Rows are immutable once written.
type SoldRecord struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	StockName   string    `gorm:"not null" json:"stock_name"`
	StockSymbol string    `gorm:"not null;index" json:"stock_symbol"`
	StockPrice  int64     `gorm:"type:bigint;not null" json:"stock_price"`
	NumShares   int64     `gorm:"not null" json:"num_shares"`
	SoldAt      time.Time `gorm:"not null" json:"sold_at"`
}
