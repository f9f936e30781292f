package models

import "time"

// BudgetPeriod represents a bounded date range against which income and
// envelope allocations are tracked. The period is [StartDate, EndDate],
// inclusive on both ends.
type BudgetPeriod struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TotalIncome float64   `gorm:"default:0" json:"total_income"`

	Allocations []EnvelopeAllocation `gorm:"foreignKey:BudgetPeriodID" json:"allocations,omitempty"`
}

// EnvelopeAllocation assigns a budgeted amount to a category for a
// specific budget period. At most one allocation exists per
// (category, period) pair.
type EnvelopeAllocation struct {
	Base
	AllocatedAmount float64 `gorm:"default:0" json:"allocated_amount"`
	CategoryID      uint    `gorm:"not null;uniqueIndex:idx_allocations_category_period" json:"category_id"`
	BudgetPeriodID  uint    `gorm:"not null;uniqueIndex:idx_allocations_category_period" json:"budget_period_id"`

	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BudgetPeriod *BudgetPeriod `gorm:"foreignKey:BudgetPeriodID" json:"budget_period,omitempty"`
}
