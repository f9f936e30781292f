package models

import "time"

// BankAccount holds credentials for an external payments provider and
// the last successful sync watermark. LastSynced is nil until the first
// successful sync; the sync client then defaults the fetch window.
type BankAccount struct {
	Base
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Name        string     `json:"name"`
	AccountType string     `json:"account_type"` // checking, savings, credit
	Provider    string     `json:"provider"`     // gocardless
	SecretID    *string    `json:"secret_id,omitempty"`
	SecretKey   *string    `json:"-"`
	LastSynced  *time.Time `json:"last_synced,omitempty"`
}
