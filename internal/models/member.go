package models

import (
	"time"

	"society-backend/internal/money"
)

type Member struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SocietyID    uint   `gorm:"index;not null" json:"society_id"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Address      string `gorm:"size:255;not null" json:"address"`
	PhoneNumber  string `gorm:"size:20;not null" json:"phone_number"`
	ImageURL     string `gorm:"size:255" json:"image_url"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Approved bool `gorm:"not null;default:false" json:"approved"`
	// Removal is terminal: a removed member never comes back and is
	// excluded from every future levy.
	IsRemoved bool `gorm:"not null;default:false" json:"is_removed"`

	// Arrears may go negative after revisions; a negative value is a
	// credit balance, never clamped.
	Arrears   money.Cents `gorm:"not null;default:0" json:"arrears"`
	Donations money.Cents `gorm:"not null;default:0" json:"donations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberLog is a member's own reference to a log entry ("my logs").
// Retraction detaches the reference; the log entry itself survives in
// the society's removed set.
type MemberLog struct {
	MemberID uint `gorm:"primaryKey;autoIncrement:false"`
	LogID    uint `gorm:"primaryKey;autoIncrement:false;index"`
}
