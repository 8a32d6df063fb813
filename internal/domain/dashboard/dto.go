package dashboard

import "github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	TotalEmployees int                          `json:"total_employees"`
	Departments    int                          `json:"departments"` // distinct departments with at least one employee
	Today          TodayAttendanceResponse      `json:"today"`
	Summary        []attendance.SummaryResponse `json:"summary"`
}

// ========== TODAY'S ATTENDANCE ==========

// TodayAttendanceResponse counts attendance marked for the current day
type TodayAttendanceResponse struct {
	Date    string `json:"date"` // Format: "YYYY-MM-DD"
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Rate    *int   `json:"rate"` // percent of today's records marked Present, null when none
}
