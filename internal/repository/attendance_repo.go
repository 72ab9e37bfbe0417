package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

// AttendanceRepository persists attendance records with upsert discipline:
// at most one record per (session, person) pair.
type AttendanceRepository interface {
	UpsertStudentMarks(ctx context.Context, records []models.StudentAttendance) error
	UpsertTeacherMarks(ctx context.Context, records []models.TeacherAttendance) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.StudentAttendance, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.TeacherAttendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) UpsertStudentMarks(ctx context.Context, records []models.StudentAttendance) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "reason", "updated_at"}),
	}).Create(&records).Error
}

func (r *attendanceRepository) UpsertTeacherMarks(ctx context.Context, records []models.TeacherAttendance) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "teacher_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "reason", "updated_at"}),
	}).Create(&records).Error
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.StudentAttendance, error) {
	var records []models.StudentAttendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Session.Class").
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.TeacherAttendance, error) {
	var records []models.TeacherAttendance
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Session.Class").
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
