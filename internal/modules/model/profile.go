package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the BaaS user; ID is the auth user id.
type Profile struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName         string    `gorm:"type:text" json:"full_name"`
	CompanyName      string    `gorm:"type:text" json:"company_name"`
	IsSubscriber     bool      `gorm:"not null;default:false" json:"is_subscriber"`
	StripeCustomerID *string   `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
