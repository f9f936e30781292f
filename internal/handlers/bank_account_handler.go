package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/services"
)

// BankAccountHandler handles linked bank account requests.
type BankAccountHandler struct {
	bankAccountService services.BankAccountServicer
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(bankAccountService services.BankAccountServicer) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService}
}

// CreateBankAccountRequest represents the bank account creation payload
type CreateBankAccountRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	AccountType string  `json:"account_type" binding:"omitempty,max=50"`
	Provider    string  `json:"provider" binding:"omitempty,max=50"`
	SecretID    *string `json:"secret_id"`
	SecretKey   *string `json:"secret_key"`
}

// UpdateBankAccountRequest represents a partial bank account update
type UpdateBankAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	AccountType *string `json:"account_type" binding:"omitempty,max=50"`
	Provider    *string `json:"provider" binding:"omitempty,max=50"`
	SecretID    *string `json:"secret_id"`
	SecretKey   *string `json:"secret_key"`
}

// Create links a new bank account
// @Summary     Link a bank account
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBankAccountRequest true "Bank account data"
// @Success     201 {object} models.BankAccount "Linked bank account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /bank-accounts [post]
func (h *BankAccountHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(userID, services.BankAccountInput{
		Name:        req.Name,
		AccountType: req.AccountType,
		Provider:    req.Provider,
		SecretID:    req.SecretID,
		SecretKey:   req.SecretKey,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// List returns the user's bank accounts
// @Summary     List bank accounts
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.BankAccount "Bank accounts"
// @Router      /bank-accounts [get]
func (h *BankAccountHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.bankAccountService.GetUserBankAccounts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// Get returns a single bank account
// @Summary     Get a bank account
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bank account ID"
// @Success     200 {object} models.BankAccount "Bank account"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bank-accounts/{id} [get]
func (h *BankAccountHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.bankAccountService.GetBankAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Update applies a partial update to a bank account
// @Summary     Update a bank account
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Bank account ID"
// @Param       request body UpdateBankAccountRequest true "Fields to update"
// @Success     200 {object} models.BankAccount "Updated bank account"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bank-accounts/{id} [put]
func (h *BankAccountHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.UpdateBankAccount(userID, accountID, services.BankAccountUpdate{
		Name:        req.Name,
		AccountType: req.AccountType,
		Provider:    req.Provider,
		SecretID:    req.SecretID,
		SecretKey:   req.SecretKey,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Delete unlinks a bank account
// @Summary     Delete a bank account
// @Tags        bank-accounts
// @Security    BearerAuth
// @Param       id path int true "Bank account ID"
// @Success     204 "Bank account deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bank-accounts/{id} [delete]
func (h *BankAccountHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bankAccountService.DeleteBankAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
