package models

import "time"

// Position is a single open purchase lot. Every buy inserts a new row;
// lots for the same symbol are never merged. Aggregation by symbol
// happens at read time, and a sell soft-deletes every lot for the symbol.
type Position struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	StockName   string    `gorm:"not null" json:"stock_name"`
	StockSymbol string    `gorm:"not null;index" json:"stock_symbol"`
	StockPrice  int64     `gorm:"type:bigint;not null" json:"stock_price"`
	NumShares   int64     `gorm:"not null" json:"num_shares"`
	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`
}
