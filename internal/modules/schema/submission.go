package schema

import "github.com/meurdo/meurdo-api/internal/modules/model"

// Keyed carries the stable identity of a form row. Keys are never persisted.
type Keyed struct {
	Key string `json:"key,omitempty"`
}

func (k *Keyed) RowKey() string     { return k.Key }
func (k *Keyed) SetRowKey(s string) { k.Key = s }

type ActivityRow struct {
	Keyed
	Description string  `json:"description" validate:"trimmedmin=5"`
	Progress    float64 `json:"progress" validate:"gte=0,lte=100"`
	PhotoURL    string  `json:"photo_url"`
}

type ManpowerRow struct {
	Keyed
	Role       string           `json:"role" validate:"trimmedmin=2"`
	Headcount  int              `json:"headcount" validate:"gte=1"`
	UnitCost   float64          `json:"unit_cost" validate:"gte=0"`
	Employment model.Employment `json:"employment" validate:"required,oneof=own subcontracted"`
}

type EquipmentRow struct {
	Keyed
	Name        string  `json:"name" validate:"trimmedmin=2"`
	HoursWorked float64 `json:"hours_worked" validate:"gte=0,lte=24"`
	HoursIdle   float64 `json:"hours_idle" validate:"gte=0,lte=24"`
	HourlyCost  float64 `json:"hourly_cost" validate:"gte=0"`
	Note        string  `json:"note"`
	PhotoURL    string  `json:"photo_url"`
}

type MaterialRow struct {
	Keyed
	Name             string  `json:"name" validate:"trimmedmin=2"`
	Unit             string  `json:"unit" validate:"trimmedmin=1"`
	QuantityReceived float64 `json:"quantity_received" validate:"gte=0"`
	QuantityConsumed float64 `json:"quantity_consumed" validate:"gte=0"`
	Note             string  `json:"note"`
	PhotoURL         string  `json:"photo_url"`
}

// Submission is a complete RDO as edited in the form.
type Submission struct {
	ReportDate        string                  `json:"report_date" validate:"required,datetime=2006-01-02"`
	Periods           []model.Period          `json:"periods" validate:"min=1,dive,oneof=morning afternoon night"`
	Weather           *model.Weather          `json:"weather" validate:"omitempty,oneof=clear cloudy rain storm"`
	OperationalStatus model.OperationalStatus `json:"operational_status" validate:"required,oneof=operational partially_stopped fully_stopped"`
	Notes             string                  `json:"notes"`
	Impediments       string                  `json:"impediments"`
	WorkStopped       bool                    `json:"work_stopped"`
	HoursLost         float64                 `json:"hours_lost"`

	SafetyHeightOK   bool   `json:"safety_height_ok"`
	SafetyPPEOK      bool   `json:"safety_ppe_ok"`
	SafetyCleanOK    bool   `json:"safety_clean_ok"`
	SafetyBriefingOK bool   `json:"safety_briefing_ok"`
	SafetyNotes      string `json:"safety_notes"`
	SafetyPhotoURL   string `json:"safety_photo_url"`

	ResponsibleSignatureURL string `json:"responsible_signature_url"`
	SignerName              string `json:"signer_name"`

	Activities []ActivityRow  `json:"activities" validate:"min=1,dive"`
	Manpower   []ManpowerRow  `json:"manpower" validate:"dive"`
	Equipment  []EquipmentRow `json:"equipment" validate:"dive"`
	Materials  []MaterialRow  `json:"materials" validate:"dive"`
}
