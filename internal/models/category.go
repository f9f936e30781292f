package models

// Category represents an envelope-budgeting category. Month is a
// "YYYY-MM" string; (user, name, month) is assumed unique in practice.
type Category struct {
	Base
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	Name         string  `gorm:"not null;index" json:"name"`
	BudgetAmount float64 `gorm:"default:0" json:"budget_amount"`
	Month        string  `json:"month"`

	Transactions []Transaction        `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Allocations  []EnvelopeAllocation `gorm:"foreignKey:CategoryID" json:"allocations,omitempty"`
}
