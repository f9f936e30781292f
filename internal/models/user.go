package models

// User represents the user model in the database
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Categories    []Category     `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	BankAccounts  []BankAccount  `gorm:"foreignKey:UserID" json:"bank_accounts,omitempty"`
	BudgetPeriods []BudgetPeriod `gorm:"foreignKey:UserID" json:"budget_periods,omitempty"`
}
