package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/models"
	"coinconductor/internal/pagination"
	"coinconductor/internal/services"
)

// TransactionHandler handles transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the transaction creation payload
type CreateTransactionRequest struct {
	Amount         float64   `json:"amount" binding:"required"`
	Description    string    `json:"description" binding:"required,max=255"`
	Date           time.Time `json:"date" binding:"required"`
	CategoryID     *uint     `json:"category_id"`
	BudgetPeriodID *uint     `json:"budget_period_id"`
	Source         string    `json:"source" binding:"omitempty,txn_source"`
	Notes          *string   `json:"notes"`
}

// UpdateTransactionRequest represents a partial transaction update
type UpdateTransactionRequest struct {
	Amount         *float64   `json:"amount"`
	Description    *string    `json:"description" binding:"omitempty,max=255"`
	Date           *time.Time `json:"date"`
	CategoryID     *uint      `json:"category_id"`
	BudgetPeriodID *uint      `json:"budget_period_id"`
	Notes          *string    `json:"notes"`
}

// listQuery holds the transaction list query parameters.
type listQuery struct {
	pagination.PageRequest
	CategoryID *uint      `form:"category_id"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// TransactionResponse is a transaction with its resolved category name.
type TransactionResponse struct {
	models.Transaction
	CategoryName *string `json:"category_name"`
}

func transactionResponse(tx models.Transaction) TransactionResponse {
	resp := TransactionResponse{Transaction: tx}
	if tx.Category != nil {
		resp.CategoryName = &tx.Category.Name
	}
	return resp
}

// Create creates a new transaction
// @Summary     Create a transaction
// @Description Create a transaction; when no category is given an AI suggestion is attempted
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} TransactionResponse "Created transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, services.TransactionInput{
		Amount:         req.Amount,
		Description:    req.Description,
		Date:           req.Date,
		CategoryID:     req.CategoryID,
		BudgetPeriodID: req.BudgetPeriodID,
		Source:         req.Source,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transactionResponse(*tx))
}

// List returns the user's transactions, newest first
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       category_id query int false "Filter by category"
// @Param       start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param       end_date query string false "Filter to date (YYYY-MM-DD)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[TransactionResponse] "Paginated transactions"
// @Router      /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	page, err := h.transactionService.GetUserTransactions(userID, query.PageRequest, services.TransactionFilter{
		CategoryID: query.CategoryID,
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := make([]TransactionResponse, 0, len(page.Data))
	for _, tx := range page.Data {
		data = append(data, transactionResponse(tx))
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(data, page.Page, page.PageSize, page.TotalItems))
}

// Get returns a single transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionResponse(*tx))
}

// Update applies a partial update to a transaction
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.transactionService.UpdateTransaction(userID, transactionID, services.TransactionUpdate{
		Amount:         req.Amount,
		Description:    req.Description,
		Date:           req.Date,
		CategoryID:     req.CategoryID,
		BudgetPeriodID: req.BudgetPeriodID,
		Notes:          req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionResponse(*tx))
}

// Delete removes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
