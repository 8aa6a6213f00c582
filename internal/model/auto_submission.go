package model

import "time"

// AutoSubmission maps to auto_submissions. One row per successful daily
// autogen commit; the most recent row is the idempotency marker. The zero
// Submitted time acts as the sentinel when the table is empty.
type AutoSubmission struct {
	ID        int       `gorm:"primaryKey"                         json:"id"`
	Submitted time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"submitted"`
}

// TableName sets the table name.
func (AutoSubmission) TableName() string { return "auto_submissions" }
