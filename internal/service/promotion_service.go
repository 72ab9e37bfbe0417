package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
)

// PromotionService rolls the whole roster forward to a reference academic
// year. The pass is explicitly triggered, idempotent, and never
// transactional across students: one student's failed write is counted as
// skipped and the pass continues.
type PromotionService interface {
	Promote(ctx context.Context, actor ActivityActor, payload dto.PromotionRequest) (dto.PromotionSummary, error)
}

type promotionService struct {
	students  repository.StudentRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewPromotionService constructs the promotion engine.
func NewPromotionService(
	students repository.StudentRepository,
	classes repository.ClassRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) PromotionService {
	return &promotionService{
		students:  students,
		classes:   classes,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "promotion_service").Logger(),
	}
}

func (s *promotionService) Promote(ctx context.Context, actor ActivityActor, payload dto.PromotionRequest) (dto.PromotionSummary, error) {
	tracer := otel.Tracer("github.com/shipai-tjc/logbook-api/internal/service/promotion")
	ctx, span := tracer.Start(ctx, "promotion.run",
		trace.WithAttributes(attribute.Int("promotion.academic_year", payload.AcademicYear)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.PromotionSummary{}, err
	}

	roster, err := s.classRoster(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "class_lookup_failed")
		return dto.PromotionSummary{}, err
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Status: models.StudentStatusActive})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student_lookup_failed")
		return dto.PromotionSummary{}, err
	}

	summary := dto.PromotionSummary{AcademicYear: payload.AcademicYear}
	for _, student := range students {
		if student.Status == models.StudentStatusInactive {
			summary.Skipped++
			continue
		}

		placement, targetClassID := academic.Resolve(student.DOB, payload.AcademicYear, roster)
		switch placement {
		case academic.PlacementUnresolvable:
			summary.Skipped++

		case academic.PlacementGraduate:
			// Terminal, one-way transition; the class reference stays as is.
			status := models.StudentStatusInactive
			if err := s.students.UpdatePlacement(ctx, student.ID, repository.PlacementUpdate{Status: &status}); err != nil {
				s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("failed to graduate student")
				summary.Skipped++
				continue
			}
			summary.Graduated++

		case academic.PlacementClass:
			if targetClassID == student.ClassID {
				continue
			}
			classID := targetClassID
			if err := s.students.UpdatePlacement(ctx, student.ID, repository.PlacementUpdate{ClassID: &classID}); err != nil {
				s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("failed to promote student")
				summary.Skipped++
				continue
			}
			summary.Updated++
		}
	}

	s.logger.Info().
		Int("academic_year", summary.AcademicYear).
		Int("updated", summary.Updated).
		Int("graduated", summary.Graduated).
		Int("skipped", summary.Skipped).
		Msg("promotion pass completed")

	if s.activity != nil {
		metadata := map[string]interface{}{
			"academic_year": summary.AcademicYear,
			"roc_year":      academic.GregorianToROC(summary.AcademicYear),
			"updated":       summary.Updated,
			"graduated":     summary.Graduated,
			"skipped":       summary.Skipped,
		}
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "students.promoted",
			EntityType: "promotion",
			Metadata:   metadata,
		})
	}

	span.SetAttributes(
		attribute.Int("promotion.updated", summary.Updated),
		attribute.Int("promotion.graduated", summary.Graduated),
		attribute.Int("promotion.skipped", summary.Skipped),
	)
	return summary, nil
}

// classRoster snapshots the live class set, falling back to canonical names
// positionally when a class has been renamed.
func (s *promotionService) classRoster(ctx context.Context) (academic.ClassRoster, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return academic.ClassRoster{}, err
	}

	byName := make(map[string]uint, len(classes))
	for _, class := range classes {
		byName[class.Name] = class.ID
	}
	return academic.NewClassRoster(byName), nil
}
