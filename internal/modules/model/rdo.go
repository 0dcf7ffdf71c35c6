package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rdo is a daily site report (Relatório Diário de Obra), the aggregate root of
// the activities, manpower, equipment and material rows of one obra and date.
type Rdo struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ObraID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_rdo_obra_date,priority:1" json:"obra_id"`
	ReportDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_rdo_obra_date,priority:2" json:"report_date"`

	Periods           Periods           `gorm:"type:text;not null" json:"periods"`
	Weather           *Weather          `gorm:"type:text" json:"weather"`
	OperationalStatus OperationalStatus `gorm:"type:text;not null" json:"operational_status"`
	Notes             string            `gorm:"type:text" json:"notes"`
	Impediments       string            `gorm:"type:text" json:"impediments"`
	WorkStopped       bool              `gorm:"not null;default:false" json:"work_stopped"`
	HoursLost         float64           `gorm:"not null;default:0" json:"hours_lost"`

	SafetyHeightOK   bool   `gorm:"not null;default:false" json:"safety_height_ok"`
	SafetyPPEOK      bool   `gorm:"column:safety_ppe_ok;not null;default:false" json:"safety_ppe_ok"`
	SafetyCleanOK    bool   `gorm:"not null;default:false" json:"safety_clean_ok"`
	SafetyBriefingOK bool   `gorm:"not null;default:false" json:"safety_briefing_ok"`
	SafetyNotes      string `gorm:"type:text" json:"safety_notes"`
	SafetyPhotoURL   string `gorm:"type:text" json:"safety_photo_url"`

	ResponsibleSignatureURL string `gorm:"type:text" json:"responsible_signature_url"`
	ClientSignatureURL      string `gorm:"type:text" json:"client_signature_url"`
	SignerName              string `gorm:"type:text" json:"signer_name"`

	ApprovalStatus  ApprovalStatus `gorm:"type:text;not null;default:'draft';index" json:"approval_status"`
	ApprovalToken   *string        `gorm:"type:text;uniqueIndex" json:"-"`
	RejectionReason *string        `gorm:"type:text" json:"rejection_reason"`
	ApprovedAt      *time.Time     `json:"approved_at"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Rdo <-> children, replaced wholesale on every edit
	Activities []RdoActivity  `gorm:"foreignKey:RdoID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"activities"`
	Manpower   []RdoManpower  `gorm:"foreignKey:RdoID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"manpower"`
	Equipment  []RdoEquipment `gorm:"foreignKey:RdoID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"equipment"`
	Materials  []RdoMaterial  `gorm:"foreignKey:RdoID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"materials"`
}

func (Rdo) TableName() string { return "rdos" }

func (r *Rdo) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Locked reports whether the report no longer accepts edits from its owner.
func (r *Rdo) Locked() bool {
	return r.ApprovalStatus == ApprovalApproved
}

type RdoActivity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RdoID       uuid.UUID `gorm:"type:uuid;not null;index" json:"rdo_id"`
	Position    int       `gorm:"not null" json:"position"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Progress    float64   `gorm:"not null;default:0" json:"progress"`
	PhotoURL    string    `gorm:"type:text" json:"photo_url"`
}

func (RdoActivity) TableName() string { return "rdo_activities" }

func (a *RdoActivity) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type RdoManpower struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RdoID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"rdo_id"`
	Position   int        `gorm:"not null" json:"position"`
	Role       string     `gorm:"type:text;not null" json:"role"`
	Headcount  int        `gorm:"not null" json:"headcount"`
	UnitCost   float64    `gorm:"not null;default:0" json:"unit_cost"`
	Employment Employment `gorm:"type:text;not null" json:"employment"`
}

func (RdoManpower) TableName() string { return "rdo_manpower" }

func (m *RdoManpower) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type RdoEquipment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RdoID       uuid.UUID `gorm:"type:uuid;not null;index" json:"rdo_id"`
	Position    int       `gorm:"not null" json:"position"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	HoursWorked float64   `gorm:"not null;default:0" json:"hours_worked"`
	HoursIdle   float64   `gorm:"not null;default:0" json:"hours_idle"`
	HourlyCost  float64   `gorm:"not null;default:0" json:"hourly_cost"`
	Note        string    `gorm:"type:text" json:"note"`
	PhotoURL    string    `gorm:"type:text" json:"photo_url"`
}

func (RdoEquipment) TableName() string { return "rdo_equipment" }

func (e *RdoEquipment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type RdoMaterial struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RdoID            uuid.UUID `gorm:"type:uuid;not null;index" json:"rdo_id"`
	Position         int       `gorm:"not null" json:"position"`
	Name             string    `gorm:"type:text;not null" json:"name"`
	Unit             string    `gorm:"type:text;not null" json:"unit"`
	QuantityReceived float64   `gorm:"not null;default:0" json:"quantity_received"`
	QuantityConsumed float64   `gorm:"not null;default:0" json:"quantity_consumed"`
	Note             string    `gorm:"type:text" json:"note"`
	PhotoURL         string    `gorm:"type:text" json:"photo_url"`
}

func (RdoMaterial) TableName() string { return "rdo_materials" }

func (m *RdoMaterial) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// RdoStatusEvent is one approval status transition, kept so rejection reasons
// stay readable after the report is resubmitted.
type RdoStatusEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RdoID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"rdo_id"`
	FromStatus ApprovalStatus `gorm:"type:text;not null" json:"from_status"`
	ToStatus   ApprovalStatus `gorm:"type:text;not null" json:"to_status"`
	Reason     *string        `gorm:"type:text" json:"reason"`
	Actor      string         `gorm:"type:text;not null" json:"actor"`
	Meta       datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"meta"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Rdo *Rdo `gorm:"foreignKey:RdoID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (RdoStatusEvent) TableName() string { return "rdo_status_events" }

func (e *RdoStatusEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

const (
	ActorOwner  = "owner"
	ActorClient = "client"
)
