package dto

// EnrolledCounts is the per-class enrollment row of the quarterly report:
// distinct students with at least one attendance record inside the academic
// year window, split by category, plus assigned teachers.
type EnrolledCounts struct {
	Members  int `json:"members"`
	Seekers  int `json:"seekers"`
	Teachers int `json:"teachers"`
}

// WeeklyClassCell is one class's numbers for one Saturday. NoRecord marks a
// week with no session at all; IsCancelled marks a logged but cancelled
// session. Both are excluded from the teaching-day divisor, but only
// NoRecord renders as "N/A".
type WeeklyClassCell struct {
	Members            int     `json:"members"`
	Seekers            int     `json:"seekers"`
	Auditors           int     `json:"auditors"`
	Teachers           int     `json:"teachers"`
	Offering           float64 `json:"offering"`
	IsCancelled        bool    `json:"is_cancelled"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`
	NoRecord           bool    `json:"no_record"`
}

// WeeklyRow is one Saturday of the quarter across all classes.
type WeeklyRow struct {
	Month int                      `json:"month"`
	Day   int                      `json:"day"`
	Date  string                   `json:"date"`
	Cells map[uint]WeeklyClassCell `json:"cells"`
}

// ClassTotals sums the weekly cells of one class over the quarter.
type ClassTotals struct {
	Members  int     `json:"members"`
	Seekers  int     `json:"seekers"`
	Auditors int     `json:"auditors"`
	Teachers int     `json:"teachers"`
	Offering float64 `json:"offering"`
}

// ClassAverages divides the totals by the class's actual teaching days.
type ClassAverages struct {
	Members  float64 `json:"members"`
	Seekers  float64 `json:"seekers"`
	Auditors float64 `json:"auditors"`
	Teachers float64 `json:"teachers"`
	Offering float64 `json:"offering"`
}

// QuarterlyReportResponse is the full week-by-class grid. Percentages holds
// per-class attendance percentages as strings because a class with no
// enrolled students reports the "N/A" sentinel rather than a number.
type QuarterlyReportResponse struct {
	AcademicYear int                      `json:"academic_year"`
	ROCYear      int                      `json:"roc_year"`
	Quarter      int                      `json:"quarter"`
	ClassOrder   []uint                   `json:"class_order"`
	ClassNames   map[uint]string          `json:"class_names"`
	Enrolled     map[uint]EnrolledCounts  `json:"enrolled"`
	Weeks        []WeeklyRow              `json:"weeks"`
	Totals       map[uint]ClassTotals     `json:"totals"`
	Averages     map[uint]ClassAverages   `json:"averages"`
	Percentages  map[uint]string          `json:"percentages"`
}
