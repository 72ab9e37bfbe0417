package service

import (
	"math"
	"sort"
	"time"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
)

// AttendanceObservation is one attendance record joined with its session
// date and class name, the shape the aggregation functions consume.
type AttendanceObservation struct {
	SessionID uint
	PersonID  uint
	Date      time.Time
	ClassName string
	Status    string
}

// observationsFromStudentRecords flattens preloaded student attendance rows.
// Records whose session failed to preload are dropped rather than crashing
// the aggregate.
func observationsFromStudentRecords(records []models.StudentAttendance) []AttendanceObservation {
	observations := make([]AttendanceObservation, 0, len(records))
	for _, record := range records {
		if record.Session == nil {
			continue
		}

		observation := AttendanceObservation{
			SessionID: record.SessionID,
			PersonID:  record.StudentID,
			Date:      record.Session.Date,
			Status:    record.Status,
		}
		if record.Session.Class != nil {
			observation.ClassName = record.Session.Class.Name
		}
		observations = append(observations, observation)
	}
	return observations
}

// dedupeObservations enforces the one-record-per-(session, person) invariant
// defensively: when duplicates slip past the storage upsert, the last
// supplied record wins deterministically instead of double-counting.
func dedupeObservations(observations []AttendanceObservation) []AttendanceObservation {
	type key struct {
		sessionID uint
		personID  uint
	}

	index := make(map[key]int, len(observations))
	result := make([]AttendanceObservation, 0, len(observations))
	for _, observation := range observations {
		k := key{observation.SessionID, observation.PersonID}
		if pos, seen := index[k]; seen {
			result[pos] = observation
			continue
		}
		index[k] = len(result)
		result = append(result, observation)
	}
	return result
}

// SummarizeAttendance computes the lifetime summary over a person's records.
// Late counts toward the rate alongside present; that is deliberate policy,
// late attendance is not penalised.
func SummarizeAttendance(observations []AttendanceObservation) dto.AttendanceSummary {
	observations = dedupeObservations(observations)

	summary := dto.AttendanceSummary{Total: len(observations)}
	for _, observation := range observations {
		switch observation.Status {
		case models.AttendanceStatusPresent:
			summary.Present++
		case models.AttendanceStatusAbsent:
			summary.Absent++
		case models.AttendanceStatusLate:
			summary.Late++
		case models.AttendanceStatusExcused:
			summary.Excused++
		}
	}

	if summary.Total > 0 {
		summary.Rate = int(math.Round(float64(summary.Present+summary.Late) / float64(summary.Total) * 100))
	}
	return summary
}

// AggregateByYearAndClass groups records by (academic year, class name) and
// computes per-group present/late/total counts and a percentage, sorted
// ascending by academic year.
func AggregateByYearAndClass(observations []AttendanceObservation) []dto.AggregatedHistoryEntry {
	observations = dedupeObservations(observations)

	type key struct {
		year      int
		className string
	}

	groups := make(map[key]*dto.AggregatedHistoryEntry)
	for _, observation := range observations {
		k := key{academic.YearOf(observation.Date), observation.ClassName}
		entry, ok := groups[k]
		if !ok {
			entry = &dto.AggregatedHistoryEntry{AcademicYear: k.year, ClassName: k.className}
			groups[k] = entry
		}

		entry.Total++
		switch observation.Status {
		case models.AttendanceStatusPresent:
			entry.Present++
		case models.AttendanceStatusLate:
			entry.Late++
		}
	}

	entries := make([]dto.AggregatedHistoryEntry, 0, len(groups))
	for _, entry := range groups {
		if entry.Total > 0 {
			entry.Percentage = int(math.Round(float64(entry.Present+entry.Late) / float64(entry.Total) * 100))
		}
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AcademicYear != entries[j].AcademicYear {
			return entries[i].AcademicYear < entries[j].AcademicYear
		}
		return entries[i].ClassName < entries[j].ClassName
	})
	return entries
}

// NormalizePercentage coerces legacy fractional ratios onto the 0-100 scale:
// a value in (0, 1] is multiplied by 100, so exactly 1 reads as 100%, not
// 1%. The result is rounded to one decimal place.
func NormalizePercentage(value float64) float64 {
	if value > 0 && value <= 1 {
		value *= 100
	}
	return math.Round(value*10) / 10
}
