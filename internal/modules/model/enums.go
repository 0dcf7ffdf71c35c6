package model

// ApprovalStatus is the client approval state of an RDO.
type ApprovalStatus string

const (
	ApprovalDraft    ApprovalStatus = "draft"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func AllApprovalStatuses() []ApprovalStatus {
	return []ApprovalStatus{ApprovalDraft, ApprovalPending, ApprovalApproved, ApprovalRejected}
}

// Presentation is how a closed enum value is shown to users.
type Presentation struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Presentation reports ok=false for values outside the enum.
func (s ApprovalStatus) Presentation() (Presentation, bool) {
	switch s {
	case ApprovalDraft:
		return Presentation{Label: "Rascunho", Color: "gray", Icon: "file-pen"}, true
	case ApprovalPending:
		return Presentation{Label: "Aguardando aprovação", Color: "amber", Icon: "clock"}, true
	case ApprovalApproved:
		return Presentation{Label: "Aprovado", Color: "green", Icon: "check-circle"}, true
	case ApprovalRejected:
		return Presentation{Label: "Rejeitado", Color: "red", Icon: "x-circle"}, true
	}
	return Presentation{}, false
}

func (s ApprovalStatus) Valid() bool {
	_, ok := s.Presentation()
	return ok
}

// OperationalStatus describes whether the site worked on the report date.
type OperationalStatus string

const (
	OperationalNormal  OperationalStatus = "operational"
	OperationalPartial OperationalStatus = "partially_stopped"
	OperationalStopped OperationalStatus = "fully_stopped"
)

func AllOperationalStatuses() []OperationalStatus {
	return []OperationalStatus{OperationalNormal, OperationalPartial, OperationalStopped}
}

func (s OperationalStatus) Presentation() (Presentation, bool) {
	switch s {
	case OperationalNormal:
		return Presentation{Label: "Operacional", Color: "green", Icon: "hammer"}, true
	case OperationalPartial:
		return Presentation{Label: "Parcialmente paralisada", Color: "amber", Icon: "pause"}, true
	case OperationalStopped:
		return Presentation{Label: "Totalmente paralisada", Color: "red", Icon: "octagon"}, true
	}
	return Presentation{}, false
}

func (s OperationalStatus) Valid() bool {
	_, ok := s.Presentation()
	return ok
}

type Weather string

const (
	WeatherClear  Weather = "clear"
	WeatherCloudy Weather = "cloudy"
	WeatherRain   Weather = "rain"
	WeatherStorm  Weather = "storm"
)

func AllWeathers() []Weather {
	return []Weather{WeatherClear, WeatherCloudy, WeatherRain, WeatherStorm}
}

func (w Weather) Presentation() (Presentation, bool) {
	switch w {
	case WeatherClear:
		return Presentation{Label: "Ensolarado", Color: "yellow", Icon: "sun"}, true
	case WeatherCloudy:
		return Presentation{Label: "Nublado", Color: "gray", Icon: "cloud"}, true
	case WeatherRain:
		return Presentation{Label: "Chuvoso", Color: "blue", Icon: "cloud-rain"}, true
	case WeatherStorm:
		return Presentation{Label: "Tempestade", Color: "indigo", Icon: "cloud-lightning"}, true
	}
	return Presentation{}, false
}

func (w Weather) Valid() bool {
	_, ok := w.Presentation()
	return ok
}

// Employment distinguishes own staff from subcontracted crews.
type Employment string

const (
	EmploymentOwn           Employment = "own"
	EmploymentSubcontracted Employment = "subcontracted"
)

func AllEmployments() []Employment {
	return []Employment{EmploymentOwn, EmploymentSubcontracted}
}

func (e Employment) Presentation() (Presentation, bool) {
	switch e {
	case EmploymentOwn:
		return Presentation{Label: "Próprio", Color: "blue", Icon: "user"}, true
	case EmploymentSubcontracted:
		return Presentation{Label: "Terceirizado", Color: "purple", Icon: "users"}, true
	}
	return Presentation{}, false
}

func (e Employment) Valid() bool {
	_, ok := e.Presentation()
	return ok
}

type ObraStatus string

const (
	ObraActive    ObraStatus = "active"
	ObraCompleted ObraStatus = "completed"
	ObraPaused    ObraStatus = "paused"
)

func AllObraStatuses() []ObraStatus {
	return []ObraStatus{ObraActive, ObraCompleted, ObraPaused}
}

func (s ObraStatus) Presentation() (Presentation, bool) {
	switch s {
	case ObraActive:
		return Presentation{Label: "Em andamento", Color: "green", Icon: "building"}, true
	case ObraCompleted:
		return Presentation{Label: "Concluída", Color: "blue", Icon: "flag"}, true
	case ObraPaused:
		return Presentation{Label: "Pausada", Color: "amber", Icon: "pause"}, true
	}
	return Presentation{}, false
}
