package patient

import "sort"

// FeverFreeDays counts the most-recent consecutive recorded days whose
// minimum temperature is strictly below FeverThreshold. The walk is
// over recorded dates only: a day with no recording neither breaks nor
// extends the streak. The first date at or above the threshold stops
// the count.
func FeverFreeDays(p *Patient) int {
	if len(p.Records) == 0 {
		return 0
	}

	// One reading per date is an invariant of the mutation layer, but
	// take the per-date minimum in case the stored data violates it.
	minByDate := make(map[string]float64, len(p.Records))
	for _, r := range p.Records {
		if t, ok := minByDate[r.Date]; !ok || r.Temp < t {
			minByDate[r.Date] = r.Temp
		}
	}

	dates := make([]string, 0, len(minByDate))
	for d := range minByDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	streak := 0
	for _, d := range dates {
		if minByDate[d] >= FeverThreshold {
			break
		}
		streak++
	}
	return streak
}

// ComputeStatus classifies a patient for the given day. Precedence is
// strict, first match wins; Deceased outranks Discharged even when
// both flags are set.
func ComputeStatus(p *Patient, today string) Status {
	switch {
	case p.Deceased:
		return statuses[StatusDeceased]
	case p.Discharged:
		return statuses[StatusDischarged]
	case !p.HasTempOn(today):
		return statuses[StatusNeedsTemp]
	case !p.HasVisitOn(today):
		return statuses[StatusNeedsVisit]
	case FeverFreeDays(p) >= EligibleStreak:
		return statuses[StatusEligibleDischarge]
	default:
		return statuses[StatusStableToday]
	}
}

// EligibleStreak is the fever-free streak required for discharge.
const EligibleStreak = 3
