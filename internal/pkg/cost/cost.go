// Package cost derives the daily labor and equipment totals of a report.
// Negative inputs are summed as they are; rejecting them is left to validation.
package cost

import (
	"fmt"
	"math"
	"strings"

	"github.com/meurdo/meurdo-api/internal/modules/model"
)

type Totals struct {
	Manpower  float64 `json:"manpower"`
	Equipment float64 `json:"equipment"`
	Estimated float64 `json:"estimated"`
	Display   string  `json:"display"`
}

// DailyManpowerCost is the sum of headcount x unit cost.
func DailyManpowerCost(rows []model.RdoManpower) float64 {
	var sum float64
	for _, r := range rows {
		sum += float64(r.Headcount) * r.UnitCost
	}
	return sum
}

// DailyEquipmentCost is the sum of hours worked x hourly cost. Idle hours are not charged.
func DailyEquipmentCost(rows []model.RdoEquipment) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.HoursWorked * r.HourlyCost
	}
	return sum
}

func EstimatedDailyCost(manpower []model.RdoManpower, equipment []model.RdoEquipment) float64 {
	return DailyManpowerCost(manpower) + DailyEquipmentCost(equipment)
}

func Compute(manpower []model.RdoManpower, equipment []model.RdoEquipment) Totals {
	t := Totals{
		Manpower:  DailyManpowerCost(manpower),
		Equipment: DailyEquipmentCost(equipment),
	}
	t.Estimated = t.Manpower + t.Equipment
	t.Display = FormatBRL(t.Estimated)
	return t
}

// FormatBRL renders v as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}

	sign := ""
	if v < 0 && cents > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, sb.String(), frac)
}
