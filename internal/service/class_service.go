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
)

// ErrClassNotFound indicates the class was not located.
var ErrClassNotFound = errors.New("class not found")

// ClassService manages the small, mostly static set of class cohorts.
// Classes are renamed rather than deleted so historical references survive.
type ClassService interface {
	List(ctx context.Context) ([]dto.ClassResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.ClassRequest) (dto.ClassResponse, error)
	Rename(ctx context.Context, actor ActivityActor, id uint, payload dto.ClassRequest) (dto.ClassResponse, error)
}

type classService struct {
	classes   repository.ClassRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes repository.ClassRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) List(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, dto.NewClassResponse(class))
	}
	return responses, nil
}

func (s *classService) Create(ctx context.Context, actor ActivityActor, payload dto.ClassRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:     strings.TrimSpace(payload.Name),
		Position: payload.Position,
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.recordClassActivity(ctx, actor, "classes.created", class.ID, map[string]interface{}{
		"name": class.Name,
	})
	return dto.NewClassResponse(class), nil
}

func (s *classService) Rename(ctx context.Context, actor ActivityActor, id uint, payload dto.ClassRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	previous := class.Name
	name := strings.TrimSpace(payload.Name)
	if err := s.classes.Rename(ctx, id, name); err != nil {
		return dto.ClassResponse{}, err
	}
	class.Name = name

	s.recordClassActivity(ctx, actor, "classes.renamed", class.ID, map[string]interface{}{
		"previous_name": previous,
		"name":          name,
	})
	return dto.NewClassResponse(class), nil
}

func (s *classService) recordClassActivity(ctx context.Context, actor ActivityActor, action string, classID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	entityID := classID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "class",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record class activity")
	}
}
