package models

import (
	"time"

	"github.com/google/uuid"
)

type Educator struct {
	UserID    uuid.UUID `gorm:"primary_key" json:"user_id"`
	Headline  *string   `gorm:"size:255" json:"headline"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AvgRating float32   `gorm:"default:0" json:"avg_rating"`

	AccountHolderName *string `gorm:"size:255" json:"-"`
	AccountNumber     *string `gorm:"size:50" json:"-"`
	IFSCCode          *string `gorm:"size:20" json:"-"`
	BankName          *string `gorm:"size:255" json:"-"`

	// Identifiers assigned by the payout rail once the educator is registered.
	RazorpayContactID     *string `gorm:"size:255" json:"-"`
	RazorpayFundAccountID *string `gorm:"size:255" json:"-"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// HasBankDetails reports whether the educator has supplied a complete bank
// account; a fund account can only be registered once this is true.
func (e *Educator) HasBankDetails() bool {
	return e.AccountHolderName != nil && *e.AccountHolderName != "" &&
		e.AccountNumber != nil && *e.AccountNumber != "" &&
		e.IFSCCode != nil && *e.IFSCCode != ""
}
