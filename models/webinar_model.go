package models

import (
	"time"

	"github.com/google/uuid"
)

type Webinar struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EducatorID uuid.UUID `gorm:"not null;index" json:"educator_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Price      int64     `gorm:"not null" json:"price"`
	Currency   string    `gorm:"size:3;not null;default:'INR'" json:"currency"`
	StartTime  time.Time `gorm:"not null" json:"start_time"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	Educator User `gorm:"foreignkey:EducatorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
