package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

// StudentFilter narrows roster listings.
type StudentFilter struct {
	ClassID uint
	Status  string
	Search  string
}

// PlacementUpdate is the narrow write the promotion engine issues per
// student: a class change, a status change, or both.
type PlacementUpdate struct {
	ClassID *uint
	Status  *string
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	UpdatePlacement(ctx context.Context, id uint, update PlacementUpdate) error
	CountActive(ctx context.Context) (int64, error)
	CountActiveByClass(ctx context.Context) (map[uint]int, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).Preload("Class")

	if filter.ClassID > 0 {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("full_name LIKE ?", "%"+filter.Search+"%")
	}

	var students []models.Student
	if err := query.Order("full_name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("Class").First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) UpdatePlacement(ctx context.Context, id uint, update PlacementUpdate) error {
	columns := map[string]interface{}{}
	if update.ClassID != nil {
		columns["class_id"] = *update.ClassID
	}
	if update.Status != nil {
		columns["status"] = *update.Status
	}
	if len(columns) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(columns).Error
}

func (r *studentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("status = ?", models.StudentStatusActive).
		Count(&count).Error
	return count, err
}

func (r *studentRepository) CountActiveByClass(ctx context.Context) (map[uint]int, error) {
	type row struct {
		ClassID uint
		Count   int
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Select("class_id, COUNT(*) AS count").
		Where("status = ?", models.StudentStatusActive).
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
