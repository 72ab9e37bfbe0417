package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

func setupStatisticsService(t *testing.T, db *gorm.DB) *statisticsService {
	t.Helper()

	service := NewStatisticsService(
		repository.NewStudentRepository(db),
		repository.NewTeacherRepository(db),
		repository.NewClassRepository(db),
		repository.NewSessionRepository(db),
		repository.NewAttendanceRepository(db),
		zerolog.Nop(),
	)
	concrete, ok := service.(*statisticsService)
	require.True(t, ok)
	return concrete
}

func seedSessionWithMark(t *testing.T, db *gorm.DB, classID, studentID uint, date time.Time, status string) {
	t.Helper()

	session := models.ClassSession{ClassID: classID, Date: date, SessionType: "regular"}
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&models.StudentAttendance{
		SessionID: session.ID,
		StudentID: studentID,
		Status:    status,
	}).Error)
}

func TestStudentStatsNotFound(t *testing.T) {
	db := openServiceTestDB(t, "stats_missing")
	service := setupStatisticsService(t, db)

	_, err := service.StudentStats(context.Background(), 42)
	require.ErrorIs(t, err, ErrStatsStudentNotFound)
}

func TestStudentStatsAggregatesAcrossYears(t *testing.T) {
	db := openServiceTestDB(t, "stats_student")
	classIDs := seedCanonicalClasses(t, db)
	service := setupStatisticsService(t, db)

	middleID := classIDs[academic.ClassMiddle]
	dob := dateAt(2012, time.March, 1)
	studentID := seedStudent(t, db, "Learner", &dob, middleID, models.StudentStatusActive)

	seedSessionWithMark(t, db, middleID, studentID, dateAt(2023, time.October, 7), models.AttendanceStatusPresent)
	seedSessionWithMark(t, db, middleID, studentID, dateAt(2023, time.October, 14), models.AttendanceStatusAbsent)
	seedSessionWithMark(t, db, middleID, studentID, dateAt(2024, time.September, 7), models.AttendanceStatusLate)

	stats, err := service.StudentStats(context.Background(), studentID)
	require.NoError(t, err)

	require.Equal(t, 3, stats.Summary.Total)
	require.Equal(t, 1, stats.Summary.Present)
	require.Equal(t, 1, stats.Summary.Late)
	require.Equal(t, 67, stats.Summary.Rate)

	require.Len(t, stats.AggregatedHistory, 2)
	require.Equal(t, 2023, stats.AggregatedHistory[0].AcademicYear)
	require.Equal(t, 50, stats.AggregatedHistory[0].Percentage)
	require.Equal(t, 2024, stats.AggregatedHistory[1].AcademicYear)
	require.Equal(t, 100, stats.AggregatedHistory[1].Percentage)

	require.NotEmpty(t, stats.HistoryGrid)
}

func TestClassStatsSkipsCancelledSessions(t *testing.T) {
	db := openServiceTestDB(t, "stats_class")
	classIDs := seedCanonicalClasses(t, db)
	service := setupStatisticsService(t, db)

	middleID := classIDs[academic.ClassMiddle]
	dob := dateAt(2012, time.March, 1)
	studentID := seedStudent(t, db, "Learner", &dob, middleID, models.StudentStatusActive)

	seedSessionWithMark(t, db, middleID, studentID, dateAt(2024, time.September, 7), models.AttendanceStatusPresent)

	cancelled := models.ClassSession{
		ClassID:     middleID,
		Date:        dateAt(2024, time.September, 14),
		SessionType: "regular",
		IsCancelled: true,
	}
	require.NoError(t, db.Create(&cancelled).Error)

	stats, err := service.ClassStats(context.Background(), middleID, 2024)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalSessions)
	require.Equal(t, 1.0, stats.AvgAttendance)
}

func TestSchoolStatsCountsActiveRoster(t *testing.T) {
	db := openServiceTestDB(t, "stats_school")
	classIDs := seedCanonicalClasses(t, db)
	service := setupStatisticsService(t, db)
	service.now = func() time.Time { return dateAt(2024, time.October, 1) }

	middleID := classIDs[academic.ClassMiddle]
	dob := dateAt(2012, time.March, 1)
	seedStudent(t, db, "Active", &dob, middleID, models.StudentStatusActive)
	seedStudent(t, db, "Gone", &dob, middleID, models.StudentStatusInactive)

	teacher := models.Teacher{FullName: "Lead", TeacherType: models.TeacherTypeFormal, Status: "active"}
	require.NoError(t, db.Create(&teacher).Error)

	session := models.ClassSession{ClassID: middleID, Date: dateAt(2024, time.September, 7), SessionType: "regular"}
	require.NoError(t, db.Create(&session).Error)
	older := models.ClassSession{ClassID: middleID, Date: dateAt(2024, time.May, 4), SessionType: "regular"}
	require.NoError(t, db.Create(&older).Error)

	stats, err := service.SchoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2024, stats.CurrentYear)
	require.Equal(t, 1, stats.ActiveStudents)
	require.Equal(t, 1, stats.ActiveTeachers)
	require.Equal(t, 1, stats.SessionsThisYear)

	var middleCount int
	for _, entry := range stats.ClassBreakdown {
		if entry.ID == middleID {
			middleCount = entry.StudentCount
		}
	}
	require.Equal(t, 1, middleCount)
}
