package models

import "time"

// PaymentTrack records whether one member has paid one chargeable event.
// Donation tracks are born paid (a donation is received, not owed) and
// are never toggled. Tracks are never deleted; a retracted event just
// stops counting them.
type PaymentTrack struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	EventID  uint `gorm:"index;not null" json:"event_id"`
	MemberID uint `gorm:"index;not null" json:"member_id"`
	IsPaid   bool `gorm:"not null;default:false" json:"is_paid"`

	Member *Member `json:"member,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
