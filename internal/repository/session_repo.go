package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/models"
)

// SessionFilter narrows session listings. From/To bound the session date
// inclusively when non-zero.
type SessionFilter struct {
	ClassID uint
	From    time.Time
	To      time.Time
}

// SessionRepository provides access to class sessions.
type SessionRepository interface {
	List(ctx context.Context, filter SessionFilter) ([]models.ClassSession, error)
	ListWithAttendance(ctx context.Context, filter SessionFilter) ([]models.ClassSession, error)
	GetByID(ctx context.Context, id uint) (models.ClassSession, error)
	Create(ctx context.Context, session *models.ClassSession) error
	Update(ctx context.Context, session *models.ClassSession) error
	Delete(ctx context.Context, id uint) error
	CountSince(ctx context.Context, date time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) applyFilter(query *gorm.DB, filter SessionFilter) *gorm.DB {
	if filter.ClassID > 0 {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if !filter.From.IsZero() {
		query = query.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("date <= ?", filter.To)
	}
	return query
}

func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]models.ClassSession, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClassSession{}), filter).
		Preload("Class")

	var sessions []models.ClassSession
	if err := query.Order("date DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) ListWithAttendance(ctx context.Context, filter SessionFilter) ([]models.ClassSession, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClassSession{}), filter).
		Preload("Class").
		Preload("StudentAttendance").
		Preload("TeacherAttendance")

	var sessions []models.ClassSession
	if err := query.Order("date ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.ClassSession, error) {
	var session models.ClassSession
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("StudentAttendance").
		Preload("TeacherAttendance").
		First(&session, id).Error
	if err != nil {
		return models.ClassSession{}, err
	}
	return session, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *models.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Update(ctx context.Context, session *models.ClassSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ClassSession{}, id).Error
}

func (r *sessionRepository) CountSince(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassSession{}).
		Where("date >= ?", date).
		Count(&count).Error
	return count, err
}
