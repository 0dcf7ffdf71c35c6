package form

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/schema"
	"github.com/meurdo/meurdo-api/internal/pkg/cost"
)

var (
	ErrNoCatalog       = errors.New("section has no catalog")
	ErrCatalogNotFound = errors.New("catalog entry not found")
	ErrUnknownSection  = errors.New("unknown section")
)

type SectionName string

const (
	SectionActivities SectionName = "activities"
	SectionManpower   SectionName = "manpower"
	SectionEquipment  SectionName = "equipment"
	SectionMaterials  SectionName = "materials"
	// SectionSafety addresses the single safety photo; it has no rows.
	SectionSafety SectionName = "safety"
)

type (
	Activities = Section[schema.ActivityRow, *schema.ActivityRow]
	Manpower   = Section[schema.ManpowerRow, *schema.ManpowerRow]
	Equipment  = Section[schema.EquipmentRow, *schema.EquipmentRow]
	Materials  = Section[schema.MaterialRow, *schema.MaterialRow]
)

// CatalogSet holds the prefill sources of one obra.
type CatalogSet struct {
	Roles    []model.RoleCatalog    `json:"roles"`
	Machines []model.MachineCatalog `json:"machines"`
	Schedule []model.ScheduleItem   `json:"schedule"`
}

// Form is the editable state of one RDO. Fields holds the scalar part of the
// submission; its row slices are ignored in favour of the sections.
type Form struct {
	Fields     schema.Submission
	Activities *Activities
	Manpower   *Manpower
	Equipment  *Equipment
	Materials  *Materials
}

func blankActivity() schema.ActivityRow {
	return schema.ActivityRow{}
}

// NewBlank is the skeleton of a new report: one empty activity row.
func NewBlank(date time.Time) *Form {
	f := FromSubmission(schema.Submission{
		ReportDate:        date.Format(schema.DateLayout),
		Periods:           []model.Period{model.PeriodMorning},
		OperationalStatus: model.OperationalNormal,
	})
	f.Activities.Append(blankActivity())
	return f
}

// FromSubmission adopts a client-posted form. Rows keep their keys when present.
func FromSubmission(sub schema.Submission) *Form {
	f := &Form{
		Activities: NewSection[schema.ActivityRow](sub.Activities),
		Manpower:   NewSection[schema.ManpowerRow](sub.Manpower),
		Equipment:  NewSection[schema.EquipmentRow](sub.Equipment),
		Materials:  NewSection[schema.MaterialRow](sub.Materials),
	}
	sub.Activities, sub.Manpower, sub.Equipment, sub.Materials = nil, nil, nil, nil
	f.Fields = sub
	return f
}

// FromRdo seeds a form from a stored aggregate.
func FromRdo(r *model.Rdo) *Form {
	sub := schema.Submission{
		ReportDate:              r.ReportDate.Format(schema.DateLayout),
		Periods:                 []model.Period(r.Periods.Normalize()),
		Weather:                 r.Weather,
		OperationalStatus:       r.OperationalStatus,
		Notes:                   r.Notes,
		Impediments:             r.Impediments,
		WorkStopped:             r.WorkStopped,
		HoursLost:               r.HoursLost,
		SafetyHeightOK:          r.SafetyHeightOK,
		SafetyPPEOK:             r.SafetyPPEOK,
		SafetyCleanOK:           r.SafetyCleanOK,
		SafetyBriefingOK:        r.SafetyBriefingOK,
		SafetyNotes:             r.SafetyNotes,
		SafetyPhotoURL:          r.SafetyPhotoURL,
		ResponsibleSignatureURL: r.ResponsibleSignatureURL,
		SignerName:              r.SignerName,
	}
	for _, a := range r.Activities {
		sub.Activities = append(sub.Activities, schema.ActivityRow{
			Description: a.Description, Progress: a.Progress, PhotoURL: a.PhotoURL,
		})
	}
	sub.Manpower = manpowerRows(r.Manpower)
	sub.Equipment = equipmentRows(r.Equipment)
	for _, m := range r.Materials {
		sub.Materials = append(sub.Materials, schema.MaterialRow{
			Name: m.Name, Unit: m.Unit,
			QuantityReceived: m.QuantityReceived, QuantityConsumed: m.QuantityConsumed,
			Note: m.Note, PhotoURL: m.PhotoURL,
		})
	}
	return FromSubmission(sub)
}

func manpowerRows(in []model.RdoManpower) []schema.ManpowerRow {
	out := make([]schema.ManpowerRow, 0, len(in))
	for _, m := range in {
		out = append(out, schema.ManpowerRow{
			Role: m.Role, Headcount: m.Headcount, UnitCost: m.UnitCost, Employment: m.Employment,
		})
	}
	return out
}

func equipmentRows(in []model.RdoEquipment) []schema.EquipmentRow {
	out := make([]schema.EquipmentRow, 0, len(in))
	for _, e := range in {
		out = append(out, schema.EquipmentRow{
			Name: e.Name, HoursWorked: e.HoursWorked, HoursIdle: e.HoursIdle,
			HourlyCost: e.HourlyCost, Note: e.Note, PhotoURL: e.PhotoURL,
		})
	}
	return out
}

// Submission assembles the full submission, rows included.
func (f *Form) Submission() schema.Submission {
	sub := f.Fields
	sub.Activities = f.Activities.Rows()
	sub.Manpower = f.Manpower.Rows()
	sub.Equipment = f.Equipment.Rows()
	sub.Materials = f.Materials.Rows()
	return sub
}

// Totals is derived from the current rows on every call.
func (f *Form) Totals() cost.Totals {
	mp := make([]model.RdoManpower, 0, f.Manpower.Len())
	for _, r := range f.Manpower.Rows() {
		mp = append(mp, model.RdoManpower{Headcount: r.Headcount, UnitCost: r.UnitCost})
	}
	eq := make([]model.RdoEquipment, 0, f.Equipment.Len())
	for _, r := range f.Equipment.Rows() {
		eq = append(eq, model.RdoEquipment{HoursWorked: r.HoursWorked, HourlyCost: r.HourlyCost})
	}
	return cost.Compute(mp, eq)
}

// HasRow reports whether section still contains key. The safety section
// always exists.
func (f *Form) HasRow(section SectionName, key string) bool {
	switch section {
	case SectionActivities:
		return f.Activities.Index(key) >= 0
	case SectionManpower:
		return f.Manpower.Index(key) >= 0
	case SectionEquipment:
		return f.Equipment.Index(key) >= 0
	case SectionMaterials:
		return f.Materials.Index(key) >= 0
	case SectionSafety:
		return true
	}
	return false
}

// SetPhoto writes url into the photo field of a row. Manpower rows have no photo.
func (f *Form) SetPhoto(section SectionName, key, url string) error {
	ok := false
	switch section {
	case SectionActivities:
		ok = f.Activities.Update(key, func(r *schema.ActivityRow) { r.PhotoURL = url })
	case SectionEquipment:
		ok = f.Equipment.Update(key, func(r *schema.EquipmentRow) { r.PhotoURL = url })
	case SectionMaterials:
		ok = f.Materials.Update(key, func(r *schema.MaterialRow) { r.PhotoURL = url })
	case SectionSafety:
		f.Fields.SafetyPhotoURL = url
		ok = true
	default:
		return ErrUnknownSection
	}
	if !ok {
		return ErrRowNotFound
	}
	return nil
}

// Prefill overwrites the name and cost fields of a row from a catalog entry
// matched by id or, case-insensitively, by name. Other fields are kept.
func (f *Form) Prefill(cat CatalogSet, section SectionName, key, catalogKey string) error {
	switch section {
	case SectionActivities:
		item, ok := findSchedule(cat.Schedule, catalogKey)
		if !ok {
			return ErrCatalogNotFound
		}
		if !f.Activities.Update(key, func(r *schema.ActivityRow) { r.Description = item.Description }) {
			return ErrRowNotFound
		}
	case SectionManpower:
		role, ok := findRole(cat.Roles, catalogKey)
		if !ok {
			return ErrCatalogNotFound
		}
		if !f.Manpower.Update(key, func(r *schema.ManpowerRow) {
			r.Role = role.Name
			r.UnitCost = role.DailyCost
		}) {
			return ErrRowNotFound
		}
	case SectionEquipment:
		m, ok := findMachine(cat.Machines, catalogKey)
		if !ok {
			return ErrCatalogNotFound
		}
		if !f.Equipment.Update(key, func(r *schema.EquipmentRow) {
			r.Name = m.Name
			r.HourlyCost = m.HourlyCost
		}) {
			return ErrRowNotFound
		}
	case SectionMaterials, SectionSafety:
		return ErrNoCatalog
	default:
		return ErrUnknownSection
	}
	return nil
}

func matches(id uuid.UUID, name, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if parsed, err := uuid.Parse(key); err == nil {
		return parsed == id
	}
	return strings.EqualFold(strings.TrimSpace(name), key)
}

func findRole(roles []model.RoleCatalog, key string) (model.RoleCatalog, bool) {
	for _, r := range roles {
		if matches(r.ID, r.Name, key) {
			return r, true
		}
	}
	return model.RoleCatalog{}, false
}

func findMachine(machines []model.MachineCatalog, key string) (model.MachineCatalog, bool) {
	for _, m := range machines {
		if matches(m.ID, m.Name, key) {
			return m, true
		}
	}
	return model.MachineCatalog{}, false
}

func findSchedule(items []model.ScheduleItem, key string) (model.ScheduleItem, bool) {
	for _, it := range items {
		if matches(it.ID, it.Description, key) {
			return it, true
		}
	}
	return model.ScheduleItem{}, false
}
