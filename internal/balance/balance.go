// Package balance computes derived envelope-budgeting balances from
// transactions and allocations. All functions are pure: they never
// mutate their inputs and return freshly built views. Amounts use the
// same float64 currency semantics as the stored values.
package balance

import "coinconductor/internal/models"

// CategoryBalance is the derived spent/remaining view of a category.
type CategoryBalance struct {
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// AllocationBalance is a single envelope allocation with its derived
// spent/remaining amounts for the period.
type AllocationBalance struct {
	AllocationID    uint    `json:"id"`
	CategoryID      uint    `json:"category_id"`
	BudgetPeriodID  uint    `json:"budget_period_id"`
	AllocatedAmount float64 `json:"allocated_amount"`
	Spent           float64 `json:"spent"`
	Remaining       float64 `json:"remaining"`
}

// PeriodSummary aggregates all allocations of a budget period and
// reconciles unallocated income.
type PeriodSummary struct {
	Allocations    []AllocationBalance `json:"allocations"`
	TotalAllocated float64             `json:"total_allocated"`
	TotalSpent     float64             `json:"total_spent"`
	TotalRemaining float64             `json:"total_remaining"`
	Unallocated    float64             `json:"unallocated"`
}

// Spent converts a net sum of signed transaction amounts into a spent
// figure. Expenses are stored negative, so net outflow reads as a
// positive spend; income in the category reduces it.
func Spent(netAmount float64) float64 {
	return -netAmount
}

// ForCategory computes the spent and remaining balance of a category
// over the given transactions. Transactions belonging to other
// categories are ignored; the sum over an empty set is 0.
func ForCategory(category models.Category, transactions []models.Transaction) CategoryBalance {
	var net float64
	for _, t := range transactions {
		if t.CategoryID != nil && *t.CategoryID == category.ID {
			net += t.Amount
		}
	}
	spent := Spent(net)
	return CategoryBalance{
		Spent:     spent,
		Remaining: category.BudgetAmount - spent,
	}
}

// ForPeriod computes per-allocation and aggregate balances for a budget
// period. transactionsByCategory maps a category id to the period's
// transactions in that category; categories without transactions simply
// contribute zero spend.
func ForPeriod(
	period models.BudgetPeriod,
	allocations []models.EnvelopeAllocation,
	transactionsByCategory map[uint][]models.Transaction,
) PeriodSummary {
	summary := PeriodSummary{
		Allocations: make([]AllocationBalance, 0, len(allocations)),
	}

	for _, alloc := range allocations {
		var net float64
		for _, t := range transactionsByCategory[alloc.CategoryID] {
			net += t.Amount
		}
		spent := Spent(net)

		summary.Allocations = append(summary.Allocations, AllocationBalance{
			AllocationID:    alloc.ID,
			CategoryID:      alloc.CategoryID,
			BudgetPeriodID:  alloc.BudgetPeriodID,
			AllocatedAmount: alloc.AllocatedAmount,
			Spent:           spent,
			Remaining:       alloc.AllocatedAmount - spent,
		})

		summary.TotalAllocated += alloc.AllocatedAmount
		summary.TotalSpent += spent
	}

	summary.TotalRemaining = summary.TotalAllocated - summary.TotalSpent
	summary.Unallocated = period.TotalIncome - summary.TotalAllocated
	return summary
}
