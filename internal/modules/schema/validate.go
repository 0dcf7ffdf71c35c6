// Package schema checks an RDO submission before it reaches the gateway and
// turns it into the persisted aggregate.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/meurdo/meurdo-api/internal/modules/model"
)

const DateLayout = "2006-01-02"

type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Violations is the field-level outcome of a failed validation.
type Violations []Violation

func (v Violations) Empty() bool { return len(v) == 0 }

// Summary is a one-line description suitable for a toast.
func (v Violations) Summary() string {
	switch len(v) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s: %s", v[0].Path, v[0].Message)
	}
	return fmt.Sprintf("%s: %s (e mais %d)", v[0].Path, v[0].Message, len(v)-1)
}

var (
	validate   = newValidator()
	fieldOrder = jsonFieldOrder(reflect.TypeOf(Submission{}))
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("trimmedmin", func(fl validator.FieldLevel) bool {
		var n int
		if _, err := fmt.Sscanf(fl.Param(), "%d", &n); err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	v.RegisterStructValidation(submissionRules, Submission{})
	v.RegisterStructValidation(equipmentRules, EquipmentRow{})
	return v
}

func submissionRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(Submission)
	if !s.WorkStopped {
		return
	}
	switch {
	case s.HoursLost <= 0:
		sl.ReportError(s.HoursLost, "hours_lost", "HoursLost", "stoppage_hours", "")
	case s.HoursLost > 24:
		sl.ReportError(s.HoursLost, "hours_lost", "HoursLost", "lte", "24")
	}
}

func equipmentRules(sl validator.StructLevel) {
	e := sl.Current().Interface().(EquipmentRow)
	if e.HoursWorked+e.HoursIdle > 24 {
		sl.ReportError(e.HoursIdle, "hours_idle", "HoursIdle", "day_hours", "")
	}
}

// Validate returns the normalized aggregate, or the violations when sub is not
// a valid RDO. ObraID and CreatedBy are left for the caller.
func Validate(sub Submission) (*model.Rdo, Violations) {
	if err := validate.Struct(sub); err != nil {
		return nil, toViolations(err)
	}

	date, _ := time.Parse(DateLayout, sub.ReportDate)
	hoursLost := sub.HoursLost
	if !sub.WorkStopped {
		hoursLost = 0
	}

	r := &model.Rdo{
		ReportDate:              date,
		Periods:                 model.Periods(sub.Periods).Normalize(),
		Weather:                 sub.Weather,
		OperationalStatus:       sub.OperationalStatus,
		Notes:                   strings.TrimSpace(sub.Notes),
		Impediments:             strings.TrimSpace(sub.Impediments),
		WorkStopped:             sub.WorkStopped,
		HoursLost:               hoursLost,
		SafetyHeightOK:          sub.SafetyHeightOK,
		SafetyPPEOK:             sub.SafetyPPEOK,
		SafetyCleanOK:           sub.SafetyCleanOK,
		SafetyBriefingOK:        sub.SafetyBriefingOK,
		SafetyNotes:             strings.TrimSpace(sub.SafetyNotes),
		SafetyPhotoURL:          sub.SafetyPhotoURL,
		ResponsibleSignatureURL: sub.ResponsibleSignatureURL,
		SignerName:              strings.TrimSpace(sub.SignerName),
	}
	for i, a := range sub.Activities {
		r.Activities = append(r.Activities, model.RdoActivity{
			Position:    i,
			Description: strings.TrimSpace(a.Description),
			Progress:    a.Progress,
			PhotoURL:    a.PhotoURL,
		})
	}
	for i, m := range sub.Manpower {
		r.Manpower = append(r.Manpower, model.RdoManpower{
			Position:   i,
			Role:       strings.TrimSpace(m.Role),
			Headcount:  m.Headcount,
			UnitCost:   m.UnitCost,
			Employment: m.Employment,
		})
	}
	for i, e := range sub.Equipment {
		r.Equipment = append(r.Equipment, model.RdoEquipment{
			Position:    i,
			Name:        strings.TrimSpace(e.Name),
			HoursWorked: e.HoursWorked,
			HoursIdle:   e.HoursIdle,
			HourlyCost:  e.HourlyCost,
			Note:        strings.TrimSpace(e.Note),
			PhotoURL:    e.PhotoURL,
		})
	}
	for i, m := range sub.Materials {
		r.Materials = append(r.Materials, model.RdoMaterial{
			Position:         i,
			Name:             strings.TrimSpace(m.Name),
			Unit:             strings.TrimSpace(m.Unit),
			QuantityReceived: m.QuantityReceived,
			QuantityConsumed: m.QuantityConsumed,
			Note:             strings.TrimSpace(m.Note),
			PhotoURL:         m.PhotoURL,
		})
	}
	return r, nil
}

func toViolations(err error) Violations {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Violations{{Path: "", Message: err.Error()}}
	}

	out := make(Violations, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{Path: fieldPath(fe), Message: message(fe)})
	}
	// struct-level rules run after field rules; restore declaration order
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].Path) < rank(out[j].Path)
	})
	return out
}

// fieldPath drops the root struct name: "Submission.activities[0].description" -> "activities[0].description".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func rank(path string) int {
	top := path
	if i := strings.IndexAny(top, ".["); i >= 0 {
		top = top[:i]
	}
	if r, ok := fieldOrder[top]; ok {
		return r
	}
	return len(fieldOrder)
}

func jsonFieldOrder(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		out[name] = i
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "datetime":
		return "data inválida, use AAAA-MM-DD"
	case "oneof":
		return "valor inválido"
	case "trimmedmin":
		return fmt.Sprintf("mínimo de %s caracteres", fe.Param())
	case "min":
		if fe.Field() == "activities" {
			return "adicione ao menos uma atividade"
		}
		return fmt.Sprintf("selecione ao menos %s", fe.Param())
	case "gte":
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("deve ser menor ou igual a %s", fe.Param())
	case "stoppage_hours":
		return "informe as horas perdidas com a obra paralisada"
	case "day_hours":
		return "horas trabalhadas e paradas somam mais de 24"
	}
	return "valor inválido"
}
