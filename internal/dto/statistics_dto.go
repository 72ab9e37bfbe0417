package dto

import "github.com/shipai-tjc/logbook-api/internal/models"

// AttendanceSummary is the lifetime attendance summary for one person.
// Rate is a 0-100 integer; late counts toward the rate alongside present.
type AttendanceSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
	Rate    int `json:"rate"`
}

// AggregatedHistoryEntry is one (academic year, class) attendance aggregate.
type AggregatedHistoryEntry struct {
	AcademicYear int    `json:"academic_year"`
	ClassName    string `json:"class_name"`
	Present      int    `json:"present"`
	Late         int    `json:"late"`
	Total        int    `json:"total"`
	Percentage   int    `json:"percentage"`
}

// HistoryCell is one cell of the reconciled history grid. Value is nil when
// neither a manual nor a computed entry exists; absence of data is never
// rendered as zero.
type HistoryCell struct {
	RowLabel  string   `json:"row_label"`
	ClassName string   `json:"class_name"`
	Value     *float64 `json:"value"`
	Manual    bool     `json:"manual"`
}

// StudentStatsResponse combines the lifetime summary, the computed per-year
// aggregates, the raw manual entries and the reconciled grid.
type StudentStatsResponse struct {
	Summary           AttendanceSummary           `json:"summary"`
	AggregatedHistory []AggregatedHistoryEntry    `json:"aggregated_history"`
	ManualHistory     []models.ManualHistoryEntry `json:"manual_history"`
	HistoryGrid       []HistoryCell               `json:"history_grid"`
}

// ClassStatsResponse summarises one class over one academic year.
type ClassStatsResponse struct {
	AcademicYear  int     `json:"academic_year"`
	TotalSessions int     `json:"total_sessions"`
	AvgAttendance float64 `json:"avg_attendance"`
	TotalOffering float64 `json:"total_offering"`
	AvgOffering   float64 `json:"avg_offering"`
}

// ClassBreakdownEntry is the active head count of one class.
type ClassBreakdownEntry struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	StudentCount int    `json:"student_count"`
}

// SchoolStatsResponse is the school-wide dashboard summary.
type SchoolStatsResponse struct {
	CurrentYear      int                   `json:"current_year"`
	ActiveStudents   int                   `json:"active_students"`
	ActiveTeachers   int                   `json:"active_teachers"`
	SessionsThisYear int                   `json:"sessions_this_year"`
	ClassBreakdown   []ClassBreakdownEntry `json:"class_breakdown"`
}
