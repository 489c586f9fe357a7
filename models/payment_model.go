package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

const (
	ProductTypeCourse     = "course"
	ProductTypeWebinar    = "webinar"
	ProductTypeTestSeries = "test_series"
	ProductTypeMockTest   = "mock_test"
)

// Payment is a settled checkout event. Amounts are integers in the minor
// currency unit (paise); only succeeded payments feed payout aggregation.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID     uuid.UUID `gorm:"not null" json:"student_id"`
	ProductID     uuid.UUID `gorm:"not null" json:"product_id"`
	ProductType   string    `gorm:"size:20;not null" json:"product_type"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Provider      string    `gorm:"size:50;not null" json:"provider"`
	ProviderTxnID *string   `gorm:"size:255;unique" json:"provider_txn_id"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	OccurredAt    time.Time `gorm:"not null;index" json:"occurred_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
