package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

func setupReportService(t *testing.T, db *gorm.DB) ReportService {
	t.Helper()

	return NewReportService(
		repository.NewClassRepository(db),
		repository.NewSessionRepository(db),
		repository.NewStudentRepository(db),
		repository.NewAssignmentRepository(db),
		nil,
		0,
		zerolog.Nop(),
	)
}

func TestQuarterlyReportRejectsInvalidQuarter(t *testing.T) {
	db := openServiceTestDB(t, "report_invalid")
	service := setupReportService(t, db)

	_, err := service.QuarterlyReport(context.Background(), 2024, 5)
	require.ErrorIs(t, err, ErrInvalidQuarter)

	_, err = service.QuarterlyReport(context.Background(), 2024, 0)
	require.ErrorIs(t, err, ErrInvalidQuarter)
}

func TestQuarterlyReportDistinguishesCellStates(t *testing.T) {
	db := openServiceTestDB(t, "report_states")
	classIDs := seedCanonicalClasses(t, db)
	service := setupReportService(t, db)

	middleID := classIDs[academic.ClassMiddle]

	dob := dateAt(2012, time.March, 1)
	memberID := seedStudent(t, db, "Member", &dob, middleID, models.StudentStatusActive)
	seeker := models.Student{
		FullName:    "Seeker",
		StudentType: models.StudentTypeSeeker,
		Status:      models.StudentStatusActive,
		ClassID:     middleID,
	}
	require.NoError(t, db.Create(&seeker).Error)

	teacher := models.Teacher{FullName: "Lead", TeacherType: models.TeacherTypeFormal, Status: "active"}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Create(&models.TeacherClassAssignment{
		TeacherID:    teacher.ID,
		ClassID:      middleID,
		AcademicYear: "2024",
		IsLead:       true,
	}).Error)

	active := models.ClassSession{
		ClassID:        middleID,
		Date:           dateAt(2024, time.September, 7),
		SessionType:    "regular",
		OfferingAmount: 500,
		AuditorCount:   2,
	}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&models.StudentAttendance{
		SessionID: active.ID,
		StudentID: memberID,
		Status:    models.AttendanceStatusPresent,
	}).Error)
	require.NoError(t, db.Create(&models.StudentAttendance{
		SessionID: active.ID,
		StudentID: seeker.ID,
		Status:    models.AttendanceStatusLate,
	}).Error)
	require.NoError(t, db.Create(&models.TeacherAttendance{
		SessionID: active.ID,
		TeacherID: teacher.ID,
		Status:    models.AttendanceStatusPresent,
	}).Error)

	cancelled := models.ClassSession{
		ClassID:            middleID,
		Date:               dateAt(2024, time.September, 14),
		SessionType:        "regular",
		IsCancelled:        true,
		CancellationReason: "typhoon day",
	}
	require.NoError(t, db.Create(&cancelled).Error)

	report, err := service.QuarterlyReport(context.Background(), 2024, 1)
	require.NoError(t, err)

	require.Equal(t, 2024, report.AcademicYear)
	require.Equal(t, 113, report.ROCYear)
	require.Equal(t, 1, report.Quarter)
	require.Len(t, report.Weeks, 13)

	week1 := report.Weeks[0].Cells[middleID]
	require.False(t, week1.NoRecord)
	require.False(t, week1.IsCancelled)
	require.Equal(t, 1, week1.Members)
	require.Equal(t, 1, week1.Seekers)
	require.Equal(t, 2, week1.Auditors)
	require.Equal(t, 1, week1.Teachers)
	require.Equal(t, 500.0, week1.Offering)

	week2 := report.Weeks[1].Cells[middleID]
	require.True(t, week2.IsCancelled)
	require.False(t, week2.NoRecord)
	require.Equal(t, "typhoon day", week2.CancellationReason)
	require.Equal(t, 0, week2.Members)

	week3 := report.Weeks[2].Cells[middleID]
	require.True(t, week3.NoRecord)
	require.False(t, week3.IsCancelled)
}

func TestQuarterlyReportAveragesUseTeachingDaysOnly(t *testing.T) {
	db := openServiceTestDB(t, "report_averages")
	classIDs := seedCanonicalClasses(t, db)
	service := setupReportService(t, db)

	middleID := classIDs[academic.ClassMiddle]

	dob := dateAt(2012, time.March, 1)
	memberID := seedStudent(t, db, "Member", &dob, middleID, models.StudentStatusActive)

	// One active session with attendance and one cancelled session. Only
	// the active day divides the totals.
	active := models.ClassSession{ClassID: middleID, Date: dateAt(2024, time.September, 7), SessionType: "regular", OfferingAmount: 300}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&models.StudentAttendance{
		SessionID: active.ID,
		StudentID: memberID,
		Status:    models.AttendanceStatusPresent,
	}).Error)

	cancelled := models.ClassSession{ClassID: middleID, Date: dateAt(2024, time.September, 14), SessionType: "regular", IsCancelled: true}
	require.NoError(t, db.Create(&cancelled).Error)

	report, err := service.QuarterlyReport(context.Background(), 2024, 1)
	require.NoError(t, err)

	totals := report.Totals[middleID]
	require.Equal(t, 1, totals.Members)
	require.Equal(t, 300.0, totals.Offering)

	averages := report.Averages[middleID]
	require.Equal(t, 1.0, averages.Members)
	require.Equal(t, 300.0, averages.Offering)

	require.Equal(t, "100%", report.Percentages[middleID])
}

func TestQuarterlyReportNoEnrollmentRendersSentinel(t *testing.T) {
	db := openServiceTestDB(t, "report_sentinel")
	classIDs := seedCanonicalClasses(t, db)
	service := setupReportService(t, db)

	report, err := service.QuarterlyReport(context.Background(), 2024, 1)
	require.NoError(t, err)

	for _, classID := range report.ClassOrder {
		require.Equal(t, ReportNoDataSentinel, report.Percentages[classID])
	}
	require.Equal(t, 0, report.Enrolled[classIDs[academic.ClassMiddle]].Members)
}

func TestQuarterlyReportServesFromCache(t *testing.T) {
	db := openServiceTestDB(t, "report_cache")
	classIDs := seedCanonicalClasses(t, db)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	service := NewReportService(
		repository.NewClassRepository(db),
		repository.NewSessionRepository(db),
		repository.NewStudentRepository(db),
		repository.NewAssignmentRepository(db),
		cache,
		time.Minute,
		zerolog.Nop(),
	)

	first, err := service.QuarterlyReport(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists("report:quarterly:2024:1"))

	// Data written after the first build is invisible until the key expires.
	middleID := classIDs[academic.ClassMiddle]
	session := models.ClassSession{ClassID: middleID, Date: dateAt(2024, time.September, 7), SessionType: "regular"}
	require.NoError(t, db.Create(&session).Error)

	cached, err := service.QuarterlyReport(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Equal(t, first, cached)
	require.True(t, cached.Weeks[0].Cells[middleID].NoRecord)

	mr.FastForward(2 * time.Minute)
	rebuilt, err := service.QuarterlyReport(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.False(t, rebuilt.Weeks[0].Cells[middleID].NoRecord)
}

func TestQuarterlyReportCrossYearQuarter(t *testing.T) {
	db := openServiceTestDB(t, "report_crossyear")
	seedCanonicalClasses(t, db)
	service := setupReportService(t, db)

	report, err := service.QuarterlyReport(context.Background(), 2024, 2)
	require.NoError(t, err)
	require.NotEmpty(t, report.Weeks)

	first := report.Weeks[0]
	require.Equal(t, 12, first.Month)

	last := report.Weeks[len(report.Weeks)-1]
	require.Equal(t, 2, last.Month)

	for _, week := range report.Weeks {
		parsed, err := academic.ParseDate(week.Date)
		require.NoError(t, err)
		require.Equal(t, time.Saturday, parsed.Weekday())
	}
}
