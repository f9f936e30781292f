package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/services"
)

// BudgetHandler handles budget period and allocation requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreatePeriodRequest represents the budget period creation payload
type CreatePeriodRequest struct {
	Name        string    `json:"name" binding:"required,max=100"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	TotalIncome float64   `json:"total_income" binding:"omitempty,gte=0"`
}

// UpdatePeriodRequest represents a partial budget period update
type UpdatePeriodRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=100"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TotalIncome *float64   `json:"total_income" binding:"omitempty,gte=0"`
}

// AllocationRequest represents the envelope allocation payload
type AllocationRequest struct {
	CategoryID      uint    `json:"category_id" binding:"required"`
	AllocatedAmount float64 `json:"allocated_amount" binding:"gte=0"`
}

// UpdateAllocationRequest changes an allocation's amount
type UpdateAllocationRequest struct {
	AllocatedAmount float64 `json:"allocated_amount" binding:"gte=0"`
}

// CreatePeriod creates a new budget period
// @Summary     Create a budget period
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePeriodRequest true "Period data"
// @Success     201 {object} models.BudgetPeriod "Created period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budget/periods [post]
func (h *BudgetHandler) CreatePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.budgetService.CreatePeriod(userID, req.Name, req.StartDate, req.EndDate, req.TotalIncome)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, period)
}

// ListPeriods returns the user's budget periods
// @Summary     List budget periods
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.BudgetPeriod "Budget periods"
// @Router      /budget/periods [get]
func (h *BudgetHandler) ListPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.budgetService.GetUserPeriods(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, periods)
}

// GetPeriod returns a budget period with its envelope summary
// @Summary     Get a budget period
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Period ID"
// @Success     200 {object} services.PeriodDetail "Period with summary"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/periods/{id} [get]
func (h *BudgetHandler) GetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.budgetService.GetPeriodByID(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetCurrentPeriod returns the period containing today, creating one for
// the current month when absent
// @Summary     Get the current budget period
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PeriodDetail "Current period with summary"
// @Router      /budget/periods/current [get]
func (h *BudgetHandler) GetCurrentPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.budgetService.GetCurrentPeriod(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateMonthlyPeriod creates a period for one calendar month
// @Summary     Create a monthly budget period
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Param       total_income query number false "Total income"
// @Success     201 {object} models.BudgetPeriod "Created period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budget/periods/monthly [post]
func (h *BudgetHandler) CreateMonthlyPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month"))
		return
	}

	var totalIncome float64
	if raw := c.Query("total_income"); raw != "" {
		totalIncome, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid total_income"))
			return
		}
	}

	period, err := h.budgetService.CreateMonthlyPeriod(userID, year, time.Month(month), totalIncome)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, period)
}

// UpdatePeriod applies a partial update to a budget period
// @Summary     Update a budget period
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Period ID"
// @Param       request body UpdatePeriodRequest true "Fields to update"
// @Success     200 {object} models.BudgetPeriod "Updated period"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/periods/{id} [put]
func (h *BudgetHandler) UpdatePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.budgetService.UpdatePeriod(userID, periodID, services.PeriodUpdate{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalIncome: req.TotalIncome,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, period)
}

// DeletePeriod removes a budget period
// @Summary     Delete a budget period
// @Tags        budget
// @Security    BearerAuth
// @Param       id path int true "Period ID"
// @Success     204 "Period deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/periods/{id} [delete]
func (h *BudgetHandler) DeletePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeletePeriod(userID, periodID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateAllocation adds an envelope allocation to a period
// @Summary     Create an envelope allocation
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget_period_id query int true "Period ID"
// @Param       request body AllocationRequest true "Allocation data"
// @Success     201 {object} models.EnvelopeAllocation "Created allocation"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate"
// @Router      /budget/allocations [post]
func (h *BudgetHandler) CreateAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := strconv.ParseUint(c.Query("budget_period_id"), 10, 32)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid budget_period_id"))
		return
	}

	var req AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alloc, err := h.budgetService.CreateAllocation(userID, uint(periodID), req.CategoryID, req.AllocatedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alloc)
}

// UpdateAllocation changes an allocation's amount
// @Summary     Update an envelope allocation
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Allocation ID"
// @Param       request body UpdateAllocationRequest true "New amount"
// @Success     200 {object} models.EnvelopeAllocation "Updated allocation"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/allocations/{id} [put]
func (h *BudgetHandler) UpdateAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alloc, err := h.budgetService.UpdateAllocation(userID, allocationID, req.AllocatedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, alloc)
}

// DeleteAllocation removes an envelope allocation
// @Summary     Delete an envelope allocation
// @Tags        budget
// @Security    BearerAuth
// @Param       id path int true "Allocation ID"
// @Success     204 "Allocation deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budget/allocations/{id} [delete]
func (h *BudgetHandler) DeleteAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteAllocation(userID, allocationID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
