package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

// Assignment service errors.
var (
	ErrAssignmentClass   = errors.New("class not found")
	ErrAssignmentTeacher = errors.New("teacher not found")
)

// AssignmentService manages which teachers serve which class in a given
// academic year. Assignments are replaced wholesale per (class, year); the
// year key is the 4-digit start-year string used by the assignment table.
type AssignmentService interface {
	List(ctx context.Context, req dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Replace(ctx context.Context, actor ActivityActor, payload dto.AssignmentReplaceRequest) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	teachers    repository.TeacherRepository
	classes     repository.ClassRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	teachers repository.TeacherRepository,
	classes repository.ClassRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		teachers:    teachers,
		classes:     classes,
		validator:   validator,
		activity:    activity,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, req dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{
		ClassID:      req.ClassID,
		AcademicYear: req.AcademicYear,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, dto.NewAssignmentResponse(assignment))
	}
	return responses, nil
}

func (s *assignmentService) Replace(ctx context.Context, actor ActivityActor, payload dto.AssignmentReplaceRequest) ([]dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	if _, err := s.classes.GetByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentClass
		}
		return nil, err
	}

	// The lead teacher is part of the set whether or not the caller listed
	// it among the plain members.
	teacherIDs := make([]uint, 0, len(payload.TeacherIDs)+1)
	seen := make(map[uint]struct{}, len(payload.TeacherIDs)+1)
	if payload.LeadTeacherID > 0 {
		teacherIDs = append(teacherIDs, payload.LeadTeacherID)
		seen[payload.LeadTeacherID] = struct{}{}
	}
	for _, id := range payload.TeacherIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		teacherIDs = append(teacherIDs, id)
	}

	assignments := make([]models.TeacherClassAssignment, 0, len(teacherIDs))
	for _, teacherID := range teacherIDs {
		if _, err := s.teachers.GetByID(ctx, teacherID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssignmentTeacher
			}
			return nil, err
		}

		assignments = append(assignments, models.TeacherClassAssignment{
			TeacherID:    teacherID,
			ClassID:      payload.ClassID,
			AcademicYear: payload.AcademicYear,
			IsLead:       teacherID == payload.LeadTeacherID,
		})
	}

	if err := s.assignments.ReplaceForClassYear(ctx, payload.ClassID, payload.AcademicYear, assignments); err != nil {
		return nil, err
	}

	if s.activity != nil {
		entityID := payload.ClassID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "assignments.replaced",
			EntityType: "assignment",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"class_id":      payload.ClassID,
				"academic_year": payload.AcademicYear,
				"teacher_count": len(assignments),
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record assignment activity")
		}
	}

	return s.List(ctx, dto.AssignmentListRequest{
		ClassID:      payload.ClassID,
		AcademicYear: payload.AcademicYear,
	})
}
