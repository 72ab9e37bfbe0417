package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

// TeacherFilter narrows teacher listings.
type TeacherFilter struct {
	Status string
	Search string
}

// TeacherRepository provides access to teaching-staff records.
type TeacherRepository interface {
	List(ctx context.Context, filter TeacherFilter) ([]models.Teacher, error)
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	CountActive(ctx context.Context) (int64, error)
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) List(ctx context.Context, filter TeacherFilter) ([]models.Teacher, error) {
	query := r.db.WithContext(ctx).Model(&models.Teacher{}).Preload("Assignments.Class")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("full_name LIKE ?", "%"+filter.Search+"%")
	}

	var teachers []models.Teacher
	if err := query.Order("full_name ASC").Find(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Preload("Assignments.Class").First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Save(teacher).Error
}

func (r *teacherRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Teacher{}).
		Where("status = ?", "active").
		Count(&count).Error
	return count, err
}
