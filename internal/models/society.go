package models

import (
	"time"

	"society-backend/internal/money"
)

type Society struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	RegNo        string `gorm:"size:20;uniqueIndex;not null" json:"reg_no"`
	Name         string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Address      string `gorm:"size:255;not null" json:"address"`
	PhoneNumber  string `gorm:"size:20;not null" json:"phone_number"`
	ImageURL     string `gorm:"size:255" json:"image_url"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Approved        bool `gorm:"not null;default:false" json:"approved"`
	NumberOfMembers int  `gorm:"not null;default:0" json:"number_of_members"`

	// Running balances. ExpectedIncome and CurrentIncome cover chargeable
	// events only; Donations and Expenses are separate pools.
	ExpectedIncome money.Cents `gorm:"not null;default:0" json:"expected_income"`
	CurrentIncome  money.Cents `gorm:"not null;default:0" json:"current_income"`
	Donations      money.Cents `gorm:"not null;default:0" json:"donations"`
	Expenses       money.Cents `gorm:"not null;default:0" json:"expenses"`

	Members []Member   `json:"members,omitempty"`
	Logs    []LogEntry `json:"logs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
