package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"coinconductor/internal/balance"
	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/logger"
	"coinconductor/internal/models"
)

// budgetService handles budget periods and envelope allocations.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreatePeriod creates a new budget period
func (s *budgetService) CreatePeriod(userID uint, name string, startDate, endDate time.Time, totalIncome float64) (*models.BudgetPeriod, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period name is required")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}

	period := &models.BudgetPeriod{
		UserID:      userID,
		Name:        name,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalIncome: totalIncome,
	}

	if err := s.db.Create(period).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return period, nil
}

// GetUserPeriods retrieves all budget periods for a user, newest first.
func (s *budgetService) GetUserPeriods(userID uint) ([]models.BudgetPeriod, error) {
	var periods []models.BudgetPeriod
	if err := s.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// GetPeriodByID retrieves a budget period with its envelope summary.
func (s *budgetService) GetPeriodByID(userID, periodID uint) (*PeriodDetail, error) {
	period, err := s.getOwned(userID, periodID)
	if err != nil {
		return nil, err
	}
	return s.detail(period)
}

// GetCurrentPeriod returns the period containing today, creating a zero
// income period for the current calendar month when none exists. When
// several periods overlap today the earliest-starting one wins.
func (s *budgetService) GetCurrentPeriod(userID uint) (*PeriodDetail, error) {
	now := time.Now().UTC()

	var periods []models.BudgetPeriod
	if err := s.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, now, now).
		Order("start_date ASC").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	switch len(periods) {
	case 0:
		period, err := s.CreateMonthlyPeriod(userID, now.Year(), now.Month(), 0)
		if err != nil {
			return nil, err
		}
		return s.detail(period)
	case 1:
	default:
		logger.Get().Warnw("overlapping budget periods",
			"user_id", userID, "count", len(periods), "picked", periods[0].ID)
	}

	return s.detail(&periods[0])
}

// CreateMonthlyPeriod creates a period covering one calendar month. The
// period runs from the first of the month to the last second of its
// final day; both ends are inside the period.
func (s *budgetService) CreateMonthlyPeriod(userID uint, year int, month time.Month, totalIncome float64) (*models.BudgetPeriod, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	name := fmt.Sprintf("%04d-%02d", year, month)

	var count int64
	if err := s.db.Model(&models.BudgetPeriod{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period for this month already exists")
	}

	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return s.CreatePeriod(userID, name, start, end, totalIncome)
}

// UpdatePeriod applies a partial update to a budget period.
func (s *budgetService) UpdatePeriod(userID, periodID uint, update PeriodUpdate) (*models.BudgetPeriod, error) {
	period, err := s.getOwned(userID, periodID)
	if err != nil {
		return nil, err
	}

	start := period.StartDate
	end := period.EndDate
	if update.StartDate != nil {
		start = *update.StartDate
	}
	if update.EndDate != nil {
		end = *update.EndDate
	}
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}

	updates := make(map[string]interface{})
	if update.Name != nil && *update.Name != "" {
		updates["name"] = *update.Name
	}
	if update.StartDate != nil {
		updates["start_date"] = *update.StartDate
	}
	if update.EndDate != nil {
		updates["end_date"] = *update.EndDate
	}
	if update.TotalIncome != nil {
		updates["total_income"] = *update.TotalIncome
	}

	if len(updates) > 0 {
		if err := s.db.Model(period).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return period, nil
}

// DeletePeriod deletes a budget period and its allocations. Transactions
// that referenced the period are unlinked, not deleted.
func (s *budgetService) DeletePeriod(userID, periodID uint) error {
	period, err := s.getOwned(userID, periodID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_period_id = ?", periodID).Delete(&models.EnvelopeAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).
			Where("budget_period_id = ?", periodID).
			Update("budget_period_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(period).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateAllocation adds an envelope allocation to a period. Each category
// may be allocated at most once per period.
func (s *budgetService) CreateAllocation(userID, periodID, categoryID uint, amount float64) (*models.EnvelopeAllocation, error) {
	if _, err := s.getOwned(userID, periodID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	if err := s.db.Model(&models.EnvelopeAllocation{}).
		Where("category_id = ? AND budget_period_id = ?", categoryID, periodID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAllocation
	}

	alloc := &models.EnvelopeAllocation{
		CategoryID:      categoryID,
		BudgetPeriodID:  periodID,
		AllocatedAmount: amount,
	}
	if err := s.db.Create(alloc).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alloc, nil
}

// UpdateAllocation changes the allocated amount of an envelope.
func (s *budgetService) UpdateAllocation(userID, allocationID uint, amount float64) (*models.EnvelopeAllocation, error) {
	alloc, err := s.getOwnedAllocation(userID, allocationID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(alloc).Update("allocated_amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alloc, nil
}

// DeleteAllocation removes an envelope allocation.
func (s *budgetService) DeleteAllocation(userID, allocationID uint) error {
	alloc, err := s.getOwnedAllocation(userID, allocationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(alloc).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) getOwned(userID, periodID uint) (*models.BudgetPeriod, error) {
	var period models.BudgetPeriod
	if err := s.db.Where("id = ? AND user_id = ?", periodID, userID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// getOwnedAllocation resolves an allocation through its period's owner.
func (s *budgetService) getOwnedAllocation(userID, allocationID uint) (*models.EnvelopeAllocation, error) {
	var alloc models.EnvelopeAllocation
	err := s.db.
		Joins("JOIN budget_periods ON budget_periods.id = envelope_allocations.budget_period_id").
		Where("envelope_allocations.id = ? AND budget_periods.user_id = ?", allocationID, userID).
		First(&alloc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAllocationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &alloc, nil
}

// detail loads allocations and period-window transactions, then computes
// the envelope summary.
func (s *budgetService) detail(period *models.BudgetPeriod) (*PeriodDetail, error) {
	var allocations []models.EnvelopeAllocation
	if err := s.db.Preload("Category").
		Where("budget_period_id = ?", period.ID).
		Find(&allocations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND category_id IS NOT NULL AND date >= ? AND date <= ?",
		period.UserID, period.StartDate, period.EndDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byCategory := make(map[uint][]models.Transaction)
	for _, tx := range transactions {
		byCategory[*tx.CategoryID] = append(byCategory[*tx.CategoryID], tx)
	}

	period.Allocations = allocations
	return &PeriodDetail{
		BudgetPeriod: *period,
		Summary:      balance.ForPeriod(*period, allocations, byCategory),
	}, nil
}
