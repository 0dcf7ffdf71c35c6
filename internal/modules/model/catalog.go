package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleCatalog is a labor role with its default daily cost per worker.
type RoleCatalog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	DailyCost  float64    `gorm:"not null;default:0" json:"daily_cost"`
	Employment Employment `gorm:"type:text;not null;default:'own'" json:"employment"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RoleCatalog) TableName() string { return "role_catalogs" }

func (r *RoleCatalog) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// MachineCatalog is a machine with its default hourly cost.
type MachineCatalog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	HourlyCost float64   `gorm:"not null;default:0" json:"hourly_cost"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MachineCatalog) TableName() string { return "machine_catalogs" }

func (m *MachineCatalog) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
