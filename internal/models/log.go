package models

import "time"

// LogEntry is the audit-log wrapper around one financial event. There is
// a single list per society; "removed logs" is the IsRemoved=true slice
// of it, so an entry can never live in both sets or in neither. Once
// removed an entry is history: excluded from balances, never mutated.
type LogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SocietyID uint      `gorm:"index;not null" json:"society_id"`
	Kind      EventKind `gorm:"size:20;index;not null" json:"kind"`
	IsRemoved bool      `gorm:"not null;default:false;index" json:"is_removed"`

	EventID uint           `gorm:"index;not null" json:"-"`
	Event   FinancialEvent `gorm:"foreignKey:EventID" json:"fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
