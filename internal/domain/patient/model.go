package patient

// FeverThreshold is the cutoff in °C below which a recorded day counts
// as fever-free for the discharge eligibility logic.
const FeverThreshold = 37.5

// DateLayout is the calendar-date format used everywhere: in storage,
// in the API, and in all date-keyed lookups. Lexicographic order of
// these strings equals chronological order.
const DateLayout = "2006-01-02"

// TemperatureRecord is a single per-day temperature reading.
type TemperatureRecord struct {
	Date string  `json:"date"`
	Temp float64 `json:"temp"`
}

// Visit is a single per-day doctor visit entry.
type Visit struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// Patient is the central entity. IDs are never reused; Discharged and
// Deceased are terminal once set. Terminal patients stay in the
// collection for audit and are excluded from active-patient counts.
type Patient struct {
	ID         string              `json:"id"`
	Bed        int                 `json:"bed"`
	Name       string              `json:"name"`
	Age        int                 `json:"age"`
	Records    []TemperatureRecord `json:"records"`
	Visits     []Visit             `json:"visits"`
	Discharged bool                `json:"discharged"`
	Deceased   bool                `json:"deceased"`
}

// Active reports whether the patient is neither discharged nor deceased.
func (p *Patient) Active() bool {
	return !p.Discharged && !p.Deceased
}

// HasTempOn reports whether a temperature record exists for the date.
func (p *Patient) HasTempOn(date string) bool {
	for _, r := range p.Records {
		if r.Date == date {
			return true
		}
	}
	return false
}

// HasVisitOn reports whether a visit entry exists for the date.
func (p *Patient) HasVisitOn(date string) bool {
	for _, v := range p.Visits {
		if v.Date == date {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the patient.
func (p *Patient) Clone() *Patient {
	cp := *p
	cp.Records = append([]TemperatureRecord(nil), p.Records...)
	cp.Visits = append([]Visit(nil), p.Visits...)
	return &cp
}

// ClonePatients deep-copies a collection.
func ClonePatients(patients []*Patient) []*Patient {
	out := make([]*Patient, len(patients))
	for i, p := range patients {
		out[i] = p.Clone()
	}
	return out
}

// StatusCode identifies a derived clinical status.
type StatusCode string

const (
	StatusDeceased          StatusCode = "deceased"
	StatusDischarged        StatusCode = "discharged"
	StatusNeedsTemp         StatusCode = "needs_temp"
	StatusNeedsVisit        StatusCode = "needs_visit"
	StatusEligibleDischarge StatusCode = "eligible_discharge"
	StatusStableToday       StatusCode = "stable_today"
)

// Status is a derived, never-persisted classification. Label and
// Severity are presentation hints only.
type Status struct {
	Code     StatusCode `json:"code"`
	Label    string     `json:"label"`
	Severity string     `json:"severity"`
}

var statuses = map[StatusCode]Status{
	StatusDeceased:          {StatusDeceased, "Deceased", "critical"},
	StatusDischarged:        {StatusDischarged, "Discharged", "ok"},
	StatusNeedsTemp:         {StatusNeedsTemp, "Needs Temp", "warning"},
	StatusNeedsVisit:        {StatusNeedsVisit, "Needs Doctor Visit", "info"},
	StatusEligibleDischarge: {StatusEligibleDischarge, "Eligible Discharge", "ok"},
	StatusStableToday:       {StatusStableToday, "Stable Today", "ok"},
}
