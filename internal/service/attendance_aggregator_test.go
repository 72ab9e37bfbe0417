package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

func observation(sessionID, personID uint, date time.Time, className, status string) AttendanceObservation {
	return AttendanceObservation{
		SessionID: sessionID,
		PersonID:  personID,
		Date:      date,
		ClassName: className,
		Status:    status,
	}
}

func TestSummarizeAttendanceCountsLateAsAttending(t *testing.T) {
	date := dateAt(2024, time.October, 5)
	observations := []AttendanceObservation{
		observation(1, 7, date, "middle", models.AttendanceStatusPresent),
		observation(2, 7, date, "middle", models.AttendanceStatusPresent),
		observation(3, 7, date, "middle", models.AttendanceStatusLate),
		observation(4, 7, date, "middle", models.AttendanceStatusAbsent),
	}

	summary := SummarizeAttendance(observations)
	require.Equal(t, 4, summary.Total)
	require.Equal(t, 2, summary.Present)
	require.Equal(t, 1, summary.Late)
	require.Equal(t, 1, summary.Absent)
	require.Equal(t, 75, summary.Rate)
}

func TestSummarizeAttendanceEmpty(t *testing.T) {
	summary := SummarizeAttendance(nil)
	require.Equal(t, 0, summary.Total)
	require.Equal(t, 0, summary.Rate)
}

func TestDedupeLastRecordWins(t *testing.T) {
	date := dateAt(2024, time.October, 5)
	observations := []AttendanceObservation{
		observation(1, 7, date, "middle", models.AttendanceStatusAbsent),
		observation(1, 7, date, "middle", models.AttendanceStatusPresent),
	}

	summary := SummarizeAttendance(observations)
	require.Equal(t, 1, summary.Total)
	require.Equal(t, 1, summary.Present)
	require.Equal(t, 0, summary.Absent)
	require.Equal(t, 100, summary.Rate)
}

func TestAggregateByYearAndClassSplitsOnSeptember(t *testing.T) {
	observations := []AttendanceObservation{
		// 2023-08-31 still belongs to the 2022 cycle.
		observation(1, 7, dateAt(2023, time.August, 31), "middle", models.AttendanceStatusPresent),
		observation(2, 7, dateAt(2023, time.September, 1), "middle", models.AttendanceStatusPresent),
		observation(3, 7, dateAt(2023, time.October, 7), "middle", models.AttendanceStatusAbsent),
	}

	entries := AggregateByYearAndClass(observations)
	require.Len(t, entries, 2)

	require.Equal(t, 2022, entries[0].AcademicYear)
	require.Equal(t, 1, entries[0].Total)
	require.Equal(t, 100, entries[0].Percentage)

	require.Equal(t, 2023, entries[1].AcademicYear)
	require.Equal(t, 2, entries[1].Total)
	require.Equal(t, 50, entries[1].Percentage)
}

func TestNormalizePercentage(t *testing.T) {
	require.Equal(t, 67.3, NormalizePercentage(0.673))
	require.Equal(t, 100.0, NormalizePercentage(1))
	require.Equal(t, 95.0, NormalizePercentage(95))
	require.Equal(t, 0.0, NormalizePercentage(0))
	require.Equal(t, 100.0, NormalizePercentage(100))
}
