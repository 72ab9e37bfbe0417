package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// Student service errors.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentClass    = errors.New("class not found")
)

// StudentService orchestrates roster management for students.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStudentService constructs the student roster service.
func NewStudentService(
	students repository.StudentRepository,
	classes repository.ClassRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:  students,
		classes:   classes,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx, repository.StudentFilter{
		ClassID: req.ClassID,
		Status:  strings.TrimSpace(req.Status),
		Search:  strings.TrimSpace(req.Search),
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student))
	}
	return responses, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, actor ActivityActor, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.classes.GetByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentClass
		}
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		FullName:              strings.TrimSpace(payload.FullName),
		StudentType:           payload.StudentType,
		Status:                payload.Status,
		Address:               strings.TrimSpace(payload.Address),
		ContactName:           strings.TrimSpace(payload.ContactName),
		ContactPhone:          strings.TrimSpace(payload.ContactPhone),
		EmergencyContactName:  strings.TrimSpace(payload.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(payload.EmergencyContactPhone),
		IsBaptized:            payload.IsBaptized,
		IsSpiritBaptized:      payload.IsSpiritBaptized,
		ClassID:               payload.ClassID,
		Notes:                 utils.SanitizeText(payload.Notes),
	}
	if student.Status == "" {
		student.Status = models.StudentStatusActive
	}

	var err error
	if student.DOB, err = parseOptionalDate(payload.DOB); err != nil {
		return dto.StudentResponse{}, err
	}
	if student.BaptismDate, err = parseOptionalDate(payload.BaptismDate); err != nil {
		return dto.StudentResponse{}, err
	}
	if student.SpiritBaptismDate, err = parseOptionalDate(payload.SpiritBaptismDate); err != nil {
		return dto.StudentResponse{}, err
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.recordStudentActivity(ctx, actor, "students.created", student.ID, map[string]interface{}{
		"full_name": student.FullName,
		"class_id":  student.ClassID,
	})
	return s.Get(ctx, student.ID)
}

func (s *studentService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	changed := make([]string, 0)
	if payload.FullName != nil {
		student.FullName = strings.TrimSpace(*payload.FullName)
		changed = append(changed, "full_name")
	}
	if payload.StudentType != nil {
		student.StudentType = *payload.StudentType
		changed = append(changed, "student_type")
	}
	if payload.ClassID != nil {
		if _, err := s.classes.GetByID(ctx, *payload.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrStudentClass
			}
			return dto.StudentResponse{}, err
		}
		student.ClassID = *payload.ClassID
		student.Class = nil
		changed = append(changed, "class_id")
	}
	if payload.Status != nil {
		student.Status = *payload.Status
		changed = append(changed, "status")
	}
	if payload.DOB != nil {
		dob, err := parseOptionalDate(*payload.DOB)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		student.DOB = dob
		changed = append(changed, "dob")
	}
	if payload.Address != nil {
		student.Address = strings.TrimSpace(*payload.Address)
		changed = append(changed, "address")
	}
	if payload.ContactName != nil {
		student.ContactName = strings.TrimSpace(*payload.ContactName)
		changed = append(changed, "contact_name")
	}
	if payload.ContactPhone != nil {
		student.ContactPhone = strings.TrimSpace(*payload.ContactPhone)
		changed = append(changed, "contact_phone")
	}
	if payload.Notes != nil {
		student.Notes = utils.SanitizeText(*payload.Notes)
		changed = append(changed, "notes")
	}
	if payload.ManualHistory != nil {
		student.ManualHistory = datatypes.JSONSlice[models.ManualHistoryEntry](normalizeManualHistory(payload.ManualHistory))
		changed = append(changed, "manual_history")
	}
	if payload.EnrollmentHistory != nil {
		student.EnrollmentHistory = datatypes.JSONSlice[models.EnrollmentEntry](payload.EnrollmentHistory)
		changed = append(changed, "enrollment_history")
	}

	if len(changed) == 0 {
		return dto.NewStudentResponse(student), nil
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.recordStudentActivity(ctx, actor, "students.updated", student.ID, map[string]interface{}{
		"changed_fields": changed,
	})
	return s.Get(ctx, student.ID)
}

func (s *studentService) recordStudentActivity(ctx context.Context, actor ActivityActor, action string, studentID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	entityID := studentID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "student",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record student activity")
	}
}

// parseOptionalDate turns an optional YYYY-MM-DD string into a date pointer.
func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := academic.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
