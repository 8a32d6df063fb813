package attendance

import (
	"math"
	"sort"
)

// Summary is the per-employee attendance tally derived from attendance records.
// It is never stored.
type Summary struct {
	EmployeeID   string
	EmployeeCode string
	FullName     string
	Department   string
	Present      int
	Absent       int
	Total        int
}

// Rate returns round(present / total * 100). ok is false when the employee has
// no records, in which case no rate exists.
func (s Summary) Rate() (rate int, ok bool) {
	if s.Total == 0 {
		return 0, false
	}
	return int(math.Round(float64(s.Present) * 100 / float64(s.Total))), true
}

// Summarize groups records by employee and counts them. Any status other than
// Present counts as absent, so Present+Absent always equals Total. Employees
// without records do not appear. The result is ordered by employee code, then
// employee id, so the same multiset of records always yields the same slice.
func Summarize(records []Attendance) []Summary {
	byEmployee := make(map[string]*Summary)
	for _, record := range records {
		acc, ok := byEmployee[record.EmployeeID]
		if !ok {
			acc = &Summary{
				EmployeeID:   record.EmployeeID,
				EmployeeCode: record.EmployeeCode,
				FullName:     record.EmployeeName,
				Department:   record.Department,
			}
			byEmployee[record.EmployeeID] = acc
		}

		acc.Total++
		if record.Status == StatusPresent {
			acc.Present++
		} else {
			acc.Absent++
		}
	}

	summaries := make([]Summary, 0, len(byEmployee))
	for _, acc := range byEmployee {
		summaries = append(summaries, *acc)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].EmployeeCode != summaries[j].EmployeeCode {
			return summaries[i].EmployeeCode < summaries[j].EmployeeCode
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}
