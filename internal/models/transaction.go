package models

import "time"

// Transaction sources.
const (
	SourceManual   = "manual"
	SourceImport   = "import"
	SourceBankSync = "bank-sync"
)

// Transaction represents a single ledger entry. Amount is a signed
// currency value (expenses negative). ExternalID carries the provider
// payment id for bank-synced transactions and is the dedup key: unique
// per owner, indexed for lookup during re-sync. NULL external ids never
// collide.
type Transaction struct {
	Base
	UserID         uint      `gorm:"not null;index;uniqueIndex:idx_transactions_user_external" json:"user_id"`
	Amount         float64   `json:"amount"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	CategoryID     *uint     `gorm:"index" json:"category_id,omitempty"`
	BudgetPeriodID *uint     `gorm:"index" json:"budget_period_id,omitempty"`
	Source         string    `json:"source"`
	Notes          *string   `json:"notes,omitempty"`
	ExternalID     *string   `gorm:"uniqueIndex:idx_transactions_user_external" json:"external_id,omitempty"`

	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BudgetPeriod *BudgetPeriod `gorm:"foreignKey:BudgetPeriodID" json:"budget_period,omitempty"`
}
