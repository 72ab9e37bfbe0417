package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// ErrTeacherNotFound indicates the teacher was not located.
var ErrTeacherNotFound = errors.New("teacher not found")

// TeacherService orchestrates roster management for teaching staff.
type TeacherService interface {
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	Get(ctx context.Context, id uint) (dto.TeacherResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error)
}

type teacherService struct {
	teachers  repository.TeacherRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewTeacherService constructs the teacher roster service.
func NewTeacherService(teachers repository.TeacherRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TeacherService {
	return &teacherService{
		teachers:  teachers,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.teachers.List(ctx, repository.TeacherFilter{})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, dto.NewTeacherResponse(teacher))
	}
	return responses, nil
}

func (s *teacherService) Get(ctx context.Context, id uint) (dto.TeacherResponse, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}
	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Create(ctx context.Context, actor ActivityActor, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher := models.Teacher{
		FullName:    strings.TrimSpace(payload.FullName),
		TeacherType: payload.TeacherType,
		Status:      payload.Status,
		Phone:       strings.TrimSpace(payload.Phone),
		Email:       strings.TrimSpace(payload.Email),
		Notes:       utils.SanitizeText(payload.Notes),
	}
	if teacher.Status == "" {
		teacher.Status = models.StudentStatusActive
	}

	if err := s.teachers.Create(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.recordTeacherActivity(ctx, actor, "teachers.created", teacher.ID, map[string]interface{}{
		"full_name": teacher.FullName,
	})
	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	changed := make([]string, 0)
	if payload.FullName != nil {
		teacher.FullName = strings.TrimSpace(*payload.FullName)
		changed = append(changed, "full_name")
	}
	if payload.TeacherType != nil {
		teacher.TeacherType = *payload.TeacherType
		changed = append(changed, "teacher_type")
	}
	if payload.Status != nil {
		teacher.Status = *payload.Status
		changed = append(changed, "status")
	}
	if payload.Phone != nil {
		teacher.Phone = strings.TrimSpace(*payload.Phone)
		changed = append(changed, "phone")
	}
	if payload.Email != nil {
		teacher.Email = strings.TrimSpace(*payload.Email)
		changed = append(changed, "email")
	}
	if payload.Notes != nil {
		teacher.Notes = utils.SanitizeText(*payload.Notes)
		changed = append(changed, "notes")
	}

	if len(changed) == 0 {
		return dto.NewTeacherResponse(teacher), nil
	}

	if err := s.teachers.Update(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.recordTeacherActivity(ctx, actor, "teachers.updated", teacher.ID, map[string]interface{}{
		"changed_fields": changed,
	})
	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) recordTeacherActivity(ctx context.Context, actor ActivityActor, action string, teacherID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	entityID := teacherID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "teacher",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record teacher activity")
	}
}
