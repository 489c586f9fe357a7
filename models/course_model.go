package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EducatorID  uuid.UUID `gorm:"not null;index" json:"educator_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	Currency    string    `gorm:"size:3;not null;default:'INR'" json:"currency"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Educator User `gorm:"foreignkey:EducatorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
