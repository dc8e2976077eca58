package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
)

// accountService handles cash-balance operations on a user record.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// GetCash returns the user's current cash balance in cents.
func (s *accountService) GetCash(userID uint) (int64, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.Cash, nil
}

// Deposit adds a positive amount of cents to the user's balance and
// returns the new balance. No upper bound is enforced.
func (s *accountService) Deposit(userID uint, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "deposit amount must be a positive integer")
	}

	var balance int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.AdjustCash(tx, userID, amount); err != nil {
			return err
		}
		// Read the committed balance through the same transaction so a
		// concurrent mutation cannot leak into the response.
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		balance = user.Cash
		return nil
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// AdjustCash applies a signed cash delta inside the caller's transaction.
// The single-statement guard (cash + delta >= 0) keeps the balance
// non-negative under concurrent requests without row locks, which also
// keeps the SQLite test database on the same code path as Postgres.
func (s *accountService) AdjustCash(tx *gorm.DB, userID uint, delta int64) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND cash + ? >= 0", userID, delta).
		Update("cash", gorm.Expr("cash + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrLedgerWrite, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Guard rejected the update: missing user or overdraw.
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrUserNotFound
	}
	return apperrors.ErrInsufficientFunds
}
