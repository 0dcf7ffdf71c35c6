package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Obra struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name          string     `gorm:"type:text;not null" json:"name"`
	Address       string     `gorm:"type:text" json:"address"`
	ClientName    string     `gorm:"type:text" json:"client_name"`
	EngineerName  string     `gorm:"type:text" json:"engineer_name"`
	StartDate     *time.Time `gorm:"type:date" json:"start_date"`
	TargetDate    *time.Time `gorm:"type:date" json:"target_date"`
	Budget        float64    `gorm:"not null;default:0" json:"budget"`
	Status        ObraStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CoverPhotoURL string     `gorm:"type:text" json:"cover_photo_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Obra <-> Member
	Members []ObraMember `gorm:"foreignKey:ObraID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Obra <-> Rdo
	Rdos []Rdo `gorm:"foreignKey:ObraID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Obra) TableName() string { return "obras" }

func (o *Obra) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type MemberRole string

const (
	MemberAdmin  MemberRole = "admin"
	MemberEditor MemberRole = "editor"
	MemberViewer MemberRole = "viewer"
)

// CanEdit is false for viewers.
func (r MemberRole) CanEdit() bool {
	return r == MemberAdmin || r == MemberEditor
}

// ObraMember grants a user access to an obra it does not own.
type ObraMember struct {
	ObraID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"obra_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Role      MemberRole `gorm:"type:text;not null;default:'editor'" json:"role"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ObraMember) TableName() string { return "obra_members" }

type ScheduleItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ObraID      uuid.UUID `gorm:"type:uuid;not null;index" json:"obra_id"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	Stage       string    `gorm:"type:text" json:"stage"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Progress    float64   `gorm:"not null;default:0" json:"progress"`
}

func (ScheduleItem) TableName() string { return "schedule_items" }

func (s *ScheduleItem) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
