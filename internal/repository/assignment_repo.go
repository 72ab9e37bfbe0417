package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

// AssignmentFilter narrows assignment listings. AcademicYear is the 4-digit
// start-year string the assignment table keys on.
type AssignmentFilter struct {
	ClassID      uint
	AcademicYear string
}

// AssignmentRepository provides access to teacher class assignments.
type AssignmentRepository interface {
	List(ctx context.Context, filter AssignmentFilter) ([]models.TeacherClassAssignment, error)
	ReplaceForClassYear(ctx context.Context, classID uint, academicYear string, assignments []models.TeacherClassAssignment) error
	CountByClassForYear(ctx context.Context, academicYear string) (map[uint]int, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository constructs an assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.TeacherClassAssignment, error) {
	query := r.db.WithContext(ctx).Model(&models.TeacherClassAssignment{}).
		Preload("Teacher").
		Preload("Class")

	if filter.ClassID > 0 {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.AcademicYear != "" {
		query = query.Where("academic_year = ?", filter.AcademicYear)
	}

	var assignments []models.TeacherClassAssignment
	if err := query.Order("class_id ASC, is_lead DESC, teacher_id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) ReplaceForClassYear(ctx context.Context, classID uint, academicYear string, assignments []models.TeacherClassAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("class_id = ? AND academic_year = ?", classID, academicYear).
			Delete(&models.TeacherClassAssignment{}).Error
		if err != nil {
			return err
		}

		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
}

func (r *assignmentRepository) CountByClassForYear(ctx context.Context, academicYear string) (map[uint]int, error) {
	type row struct {
		ClassID uint
		Count   int
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&models.TeacherClassAssignment{}).
		Select("class_id, COUNT(*) AS count").
		Where("academic_year = ?", academicYear).
		Group("class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.ClassID] = r.Count
	}
	return counts, nil
}
