package schema

import (
	"testing"
	"time"

	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		ReportDate:        "2024-03-01",
		Periods:           []model.Period{model.PeriodAfternoon, model.PeriodMorning},
		OperationalStatus: model.OperationalNormal,
		Activities: []ActivityRow{
			{Description: "Foundation pour", Progress: 40},
		},
		Manpower: []ManpowerRow{
			{Role: "Mason", Headcount: 2, UnitCost: 150, Employment: model.EmploymentOwn},
		},
	}
}

func paths(v Violations) []string {
	out := make([]string, 0, len(v))
	for _, x := range v {
		out = append(out, x.Path)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	sub := validSubmission()
	sub.HoursLost = 3 // ignored without a stoppage
	sub.Activities[0].Description = "  Foundation pour  "

	r, v := Validate(sub)
	require.Empty(t, v)
	require.NotNil(t, r)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.ReportDate)
	assert.Equal(t, model.Periods{model.PeriodMorning, model.PeriodAfternoon}, r.Periods)
	assert.Equal(t, 0.0, r.HoursLost)
	require.Len(t, r.Activities, 1)
	assert.Equal(t, "Foundation pour", r.Activities[0].Description)
	assert.Equal(t, 40.0, r.Activities[0].Progress)
	require.Len(t, r.Manpower, 1)
	assert.Equal(t, 2, r.Manpower[0].Headcount)
	assert.Empty(t, r.Equipment)
	assert.Empty(t, r.Materials)
}

func TestValidate_HoursLostIgnoredWithoutStoppage(t *testing.T) {
	for _, h := range []float64{-2, 30} {
		sub := validSubmission()
		sub.HoursLost = h

		r, v := Validate(sub)
		require.Empty(t, v)
		require.NotNil(t, r)
		assert.Equal(t, 0.0, r.HoursLost)
	}

	sub := validSubmission()
	sub.WorkStopped = true
	sub.HoursLost = 30
	_, v := Validate(sub)
	require.Len(t, v, 1)
	assert.Equal(t, "hours_lost", v[0].Path)
	assert.Equal(t, "deve ser menor ou igual a 24", v[0].Message)
}

func TestValidate_Violations(t *testing.T) {
	snow := model.Weather("snow")

	tests := []struct {
		name   string
		mutate func(s *Submission)
		want   []string
	}{
		{
			name:   "missing date",
			mutate: func(s *Submission) { s.ReportDate = "" },
			want:   []string{"report_date"},
		},
		{
			name:   "malformed date",
			mutate: func(s *Submission) { s.ReportDate = "01/03/2024" },
			want:   []string{"report_date"},
		},
		{
			name:   "no period",
			mutate: func(s *Submission) { s.Periods = nil },
			want:   []string{"periods"},
		},
		{
			name:   "unknown period",
			mutate: func(s *Submission) { s.Periods = []model.Period{"dawn"} },
			want:   []string{"periods[0]"},
		},
		{
			name:   "unknown weather",
			mutate: func(s *Submission) { s.Weather = &snow },
			want:   []string{"weather"},
		},
		{
			name:   "missing status",
			mutate: func(s *Submission) { s.OperationalStatus = "" },
			want:   []string{"operational_status"},
		},
		{
			name:   "hours lost out of range",
			mutate: func(s *Submission) { s.WorkStopped = true; s.HoursLost = 25 },
			want:   []string{"hours_lost"},
		},
		{
			name:   "stoppage without hours",
			mutate: func(s *Submission) { s.WorkStopped = true },
			want:   []string{"hours_lost"},
		},
		{
			name:   "no activity",
			mutate: func(s *Submission) { s.Activities = nil },
			want:   []string{"activities"},
		},
		{
			name:   "short description after trim",
			mutate: func(s *Submission) { s.Activities[0].Description = "  ab  " },
			want:   []string{"activities[0].description"},
		},
		{
			name:   "progress above 100",
			mutate: func(s *Submission) { s.Activities[0].Progress = 120 },
			want:   []string{"activities[0].progress"},
		},
		{
			name: "manpower row",
			mutate: func(s *Submission) {
				s.Manpower[0].Role = "M"
				s.Manpower[0].Headcount = 0
			},
			want: []string{"manpower[0].role", "manpower[0].headcount"},
		},
		{
			name: "equipment day overflow",
			mutate: func(s *Submission) {
				s.Equipment = []EquipmentRow{{Name: "Betoneira", HoursWorked: 20, HoursIdle: 6}}
			},
			want: []string{"equipment[0].hours_idle"},
		},
		{
			name: "material unit",
			mutate: func(s *Submission) {
				s.Materials = []MaterialRow{{Name: "Cimento", Unit: " "}}
			},
			want: []string{"materials[0].unit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			r, v := Validate(sub)
			assert.Nil(t, r)
			assert.Equal(t, tt.want, paths(v))
			for _, x := range v {
				assert.NotEmpty(t, x.Message)
			}
		})
	}
}

func TestValidate_ViolationsFollowFieldOrder(t *testing.T) {
	sub := validSubmission()
	sub.Activities = nil
	sub.WorkStopped = true
	sub.ReportDate = ""

	_, v := Validate(sub)
	assert.Equal(t, []string{"report_date", "hours_lost", "activities"}, paths(v))
	assert.Contains(t, v.Summary(), "report_date")
	assert.Contains(t, v.Summary(), "e mais 2")
}
