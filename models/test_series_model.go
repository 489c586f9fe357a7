package models

import (
	"time"

	"github.com/google/uuid"
)

type TestSeries struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EducatorID uuid.UUID `gorm:"not null;index" json:"educator_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Price      int64     `gorm:"not null" json:"price"`
	Currency   string    `gorm:"size:3;not null;default:'INR'" json:"currency"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	Tests []*MockTest `gorm:"many2many:test_series_tests;" json:"tests,omitempty"`

	Educator User `gorm:"foreignkey:EducatorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
