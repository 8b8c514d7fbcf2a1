package models

import (
	"time"

	"society-backend/internal/money"
)

// EventKind discriminates the financial event variants. The charge,
// revision and retraction algorithms switch exhaustively on it.
type EventKind string

const (
	KindMonthlyFee    EventKind = "monthly_fee"
	KindExtraFee      EventKind = "extra_fee"
	KindFine          EventKind = "fine"
	KindRefinementFee EventKind = "refinement_fee"
	KindDonation      EventKind = "donation"
	KindExpense       EventKind = "expense"
)

// Chargeable reports whether the kind creates per-member obligations
// (raises arrears and expected income). Donations and expenses do not.
func (k EventKind) Chargeable() bool {
	switch k {
	case KindMonthlyFee, KindExtraFee, KindFine, KindRefinementFee:
		return true
	}
	return false
}

// FinancialEvent is the amount-bearing payload wrapped by exactly one
// LogEntry. Chargeable events own one PaymentTrack per affected member;
// expenses and society-level donations own none.
type FinancialEvent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Kind        EventKind   `gorm:"size:20;index;not null" json:"kind"`
	Amount      money.Cents `gorm:"not null" json:"amount"`
	Description string      `gorm:"size:255;not null" json:"description"`
	Date        time.Time   `gorm:"index;not null" json:"date"`

	Tracks []PaymentTrack `gorm:"foreignKey:EventID" json:"tracks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
