package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/services"
)

// AIHandler handles AI categorization requests.
type AIHandler struct {
	categorizeService services.CategorizeServicer
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(categorizeService services.CategorizeServicer) *AIHandler {
	return &AIHandler{categorizeService: categorizeService}
}

// CategorizeRequest names the transaction to categorize.
type CategorizeRequest struct {
	TransactionID uint `json:"transaction_id" binding:"required"`
}

// Categorize suggests a category for one transaction without storing it
// @Summary     Suggest a category for a transaction
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       provider query string false "Override AI provider" Enums(openai, anthropic, google, ollama)
// @Param       api_key query string false "Override provider API key"
// @Param       request body CategorizeRequest true "Transaction to categorize"
// @Success     200 {object} services.Suggestion "Suggestion (category may be null)"
// @Failure     400 {object} ErrorResponse "Invalid input or missing configuration"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /ai/categorize [post]
func (h *AIHandler) Categorize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	suggestion, err := h.categorizeService.CategorizeTransaction(
		c.Request.Context(), userID, req.TransactionID,
		c.Query("provider"), c.Query("api_key"),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// BulkCategorize categorizes all of the user's uncategorized transactions
// @Summary     Categorize all uncategorized transactions
// @Tags        ai
// @Produce     json
// @Security    BearerAuth
// @Param       provider query string false "Override AI provider" Enums(openai, anthropic, google, ollama)
// @Param       api_key query string false "Override provider API key"
// @Success     200 {array} services.Suggestion "Per-transaction report"
// @Failure     400 {object} ErrorResponse "Missing configuration"
// @Router      /ai/bulk-categorize [post]
func (h *AIHandler) BulkCategorize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.categorizeService.BulkCategorize(
		c.Request.Context(), userID,
		c.Query("provider"), c.Query("api_key"),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
