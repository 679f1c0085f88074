package patient

import "math"

// DailyTodo counts active patients still owed care for the day. The
// two counts are independent, not a funnel.
type DailyTodo struct {
	NeedTemp  int `json:"need_temp"`
	NeedVisit int `json:"need_visit"`
}

// ComputeDailyTodo tallies active patients lacking a temperature
// record and lacking a visit entry for today.
func ComputeDailyTodo(patients []*Patient, today string) DailyTodo {
	var todo DailyTodo
	for _, p := range patients {
		if !p.Active() {
			continue
		}
		if !p.HasTempOn(today) {
			todo.NeedTemp++
		}
		if !p.HasVisitOn(today) {
			todo.NeedVisit++
		}
	}
	return todo
}

// KPIs are the population compliance metrics. Percentages are rounded
// to the nearest integer; denominators include terminal patients.
type KPIs struct {
	Total              int `json:"total"`
	TempCompliancePct  int `json:"temp_compliance_pct"`
	VisitCompliancePct int `json:"visit_compliance_pct"`
	Discharged         int `json:"discharged"`
	MortalityPct       int `json:"mortality_pct"`
}

// ComputeKPIs derives the dashboard metrics for the given day. All
// percentages are 0 on an empty collection.
func ComputeKPIs(patients []*Patient, today string) KPIs {
	k := KPIs{Total: len(patients)}

	tempsToday, visitsToday, deceased := 0, 0, 0
	for _, p := range patients {
		if p.HasTempOn(today) {
			tempsToday++
		}
		if p.HasVisitOn(today) {
			visitsToday++
		}
		if p.Discharged {
			k.Discharged++
		}
		if p.Deceased {
			deceased++
		}
	}

	k.TempCompliancePct = pct(tempsToday, k.Total)
	k.VisitCompliancePct = pct(visitsToday, k.Total)
	k.MortalityPct = pct(deceased, k.Total)
	return k
}

func pct(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}
