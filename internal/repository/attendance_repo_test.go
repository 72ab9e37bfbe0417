package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

func seedAttendanceFixtures(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()

	class := models.Class{Name: "middle", Position: 3}
	require.NoError(t, db.Create(&class).Error)

	student := models.Student{FullName: "Learner", StudentType: "member", Status: "active", ClassID: class.ID}
	require.NoError(t, db.Create(&student).Error)

	session := models.ClassSession{
		ClassID:     class.ID,
		Date:        time.Date(2024, time.September, 7, 0, 0, 0, 0, time.UTC),
		SessionType: "regular",
	}
	require.NoError(t, db.Create(&session).Error)

	return session.ID, student.ID
}

func TestUpsertStudentMarksNeverDuplicates(t *testing.T) {
	db := openRepoTestDB(t, "attendance_upsert")
	repo := NewAttendanceRepository(db)

	sessionID, studentID := seedAttendanceFixtures(t, db)

	require.NoError(t, repo.UpsertStudentMarks(context.Background(), []models.StudentAttendance{
		{SessionID: sessionID, StudentID: studentID, Status: models.AttendanceStatusAbsent, Reason: "sick"},
	}))
	require.NoError(t, repo.UpsertStudentMarks(context.Background(), []models.StudentAttendance{
		{SessionID: sessionID, StudentID: studentID, Status: models.AttendanceStatusPresent},
	}))

	var records []models.StudentAttendance
	require.NoError(t, db.Where("session_id = ?", sessionID).Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, models.AttendanceStatusPresent, records[0].Status)
	require.Equal(t, "", records[0].Reason)
}

func TestUpsertStudentMarksEmptyBatch(t *testing.T) {
	db := openRepoTestDB(t, "attendance_empty")
	repo := NewAttendanceRepository(db)

	require.NoError(t, repo.UpsertStudentMarks(context.Background(), nil))
}

func TestListByStudentPreloadsSession(t *testing.T) {
	db := openRepoTestDB(t, "attendance_list")
	repo := NewAttendanceRepository(db)

	sessionID, studentID := seedAttendanceFixtures(t, db)
	require.NoError(t, repo.UpsertStudentMarks(context.Background(), []models.StudentAttendance{
		{SessionID: sessionID, StudentID: studentID, Status: models.AttendanceStatusLate},
	}))

	records, err := repo.ListByStudent(context.Background(), studentID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Session)
	require.NotNil(t, records[0].Session.Class)
	require.Equal(t, "middle", records[0].Session.Class.Name)
}
