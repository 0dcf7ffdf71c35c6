package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Period is one shift of the working day.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodNight     Period = "night"
)

func AllPeriods() []Period {
	return []Period{PeriodMorning, PeriodAfternoon, PeriodNight}
}

func (p Period) Presentation() (Presentation, bool) {
	switch p {
	case PeriodMorning:
		return Presentation{Label: "Manhã", Color: "yellow", Icon: "sunrise"}, true
	case PeriodAfternoon:
		return Presentation{Label: "Tarde", Color: "orange", Icon: "sun"}, true
	case PeriodNight:
		return Presentation{Label: "Noite", Color: "indigo", Icon: "moon"}, true
	}
	return Presentation{}, false
}

func (p Period) Valid() bool {
	_, ok := p.Presentation()
	return ok
}

// Periods is stored as a comma separated list in morning, afternoon, night order.
type Periods []Period

// Normalize drops duplicates and orders the periods morning -> afternoon -> night.
// Unknown tokens are dropped.
func (ps Periods) Normalize() Periods {
	seen := make(map[Period]bool, len(ps))
	for _, p := range ps {
		seen[p] = true
	}
	out := make(Periods, 0, len(seen))
	for _, p := range AllPeriods() {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}

func (ps Periods) String() string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps.Normalize() {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

func ParsePeriods(raw string) Periods {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Periods{}
	}
	items := strings.Split(raw, ",")
	out := make(Periods, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, Period(item))
		}
	}
	return out.Normalize()
}

func (ps Periods) Value() (driver.Value, error) {
	return ps.String(), nil
}

func (ps *Periods) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*ps = Periods{}
	case string:
		*ps = ParsePeriods(v)
	case []byte:
		*ps = ParsePeriods(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Periods", value)
	}
	return nil
}

func (Periods) GormDataType() string { return "text" }
