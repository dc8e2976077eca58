package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/services"
)

// AccountHandler handles cash-balance requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// DepositRequest represents the request payload for adding cash.
// Amount is in cents; a non-integer body fails JSON binding and is
// rejected before the service sees it.
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// GetCash returns the authenticated user's cash balance.
func (h *AccountHandler) GetCash(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cash, err := h.accountService.GetCash(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cash": cash})
}

// Deposit adds cash to the authenticated user's balance.
func (h *AccountHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cash, err := h.accountService.Deposit(userID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cash": cash})
}
