package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusPaid       = "paid"
	PayoutStatusFailed     = "failed"
)

// Payout is the amount owed to one educator for one billing month.
// Monetary fields are integers in the minor currency unit and always satisfy
// Amount = GrossAmount - CommissionAmount.
type Payout struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EducatorID uuid.UUID `gorm:"not null;index" json:"educator_id"`
	Month      int       `gorm:"not null" json:"month"`
	Year       int       `gorm:"not null" json:"year"`
	PeriodKey  string    `gorm:"size:100;not null;unique" json:"period_key"`

	GrossAmount      int64  `gorm:"not null" json:"gross_amount"`
	CommissionAmount int64  `gorm:"not null" json:"commission_amount"`
	Amount           int64  `gorm:"not null" json:"amount"`
	Currency         string `gorm:"size:3;not null;default:'INR'" json:"currency"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	// IdempotencyKey is generated on the first disbursement attempt and never
	// changes afterwards, so every retry presents the same token to the rail.
	IdempotencyKey   *string `gorm:"size:255;unique" json:"-"`
	ExternalPayoutID *string `gorm:"size:255" json:"external_payout_id"`
	FailureReason    *string `gorm:"type:text" json:"failure_reason"`

	ScheduledDate time.Time `gorm:"not null" json:"scheduled_date"`

	Educator User `gorm:"foreignkey:EducatorID" json:"educator"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Disbursable reports whether a disbursement attempt is permitted from the
// record's current state.
func (p *Payout) Disbursable() bool {
	return p.Status == PayoutStatusPending || p.Status == PayoutStatusFailed
}

// PeriodKeyFor derives the natural idempotency key binding one educator to
// one billing period. Re-aggregating the same period always resolves to the
// same key and therefore the same record.
func PeriodKeyFor(educatorID uuid.UUID, month, year int) string {
	return fmt.Sprintf("%s-%02d-%d", educatorID, month, year)
}
