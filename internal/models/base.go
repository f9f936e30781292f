package models

import "time"

// Base contains common columns for all tables. IDs are auto-incrementing
// integers; the categorization providers answer with a numeric category id,
// so integer keys are part of the wire contract.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
