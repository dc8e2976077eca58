package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"papertrade/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique username,
// and zero cash.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithCash(t, db, 0)
}

// CreateTestUserWithCash creates a user holding the given cash balance (in cents).
func CreateTestUserWithCash(t *testing.T, db *gorm.DB, cash int64) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("trader%d", nextID()),
		Password: string(hash),
		Cash:     cash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPosition creates one open lot for the user.
func CreateTestPosition(t *testing.T, db *gorm.DB, userID uint, symbol string, price, shares int64) *models.Position {
	t.Helper()

	position := &models.Position{
		UserID:      userID,
		StockName:   symbol + " Inc.",
		StockSymbol: symbol,
		StockPrice:  price,
		NumShares:   shares,
		PurchasedAt: time.Now(),
	}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("failed to create test position: %v", err)
	}
	return position
}

// CreateTestSoldRecord creates a sold record with a negative share count.
func CreateTestSoldRecord(t *testing.T, db *gorm.DB, userID uint, symbol string, price, shares int64) *models.SoldRecord {
	t.Helper()

	record := &models.SoldRecord{
		UserID:      userID,
		StockName:   symbol + " Inc.",
		StockSymbol: symbol,
		StockPrice:  price,
		NumShares:   -shares,
		SoldAt:      time.Now(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test sold record: %v", err)
	}
	return record
}
