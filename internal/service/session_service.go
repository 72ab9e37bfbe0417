package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// Session service errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClass    = errors.New("class not found")
	ErrInvalidDate     = errors.New("invalid date filter")
)

// SessionListRequest narrows session listings. From and To are optional
// YYYY-MM-DD bounds.
type SessionListRequest struct {
	ClassID uint
	From    string
	To      string
}

// SessionService manages weekly class session records and their attendance.
type SessionService interface {
	List(ctx context.Context, req SessionListRequest) ([]dto.SessionResponse, error)
	Get(ctx context.Context, id uint) (dto.SessionResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.SessionCreateRequest) (dto.SessionResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, payload dto.SessionUpdateRequest) (dto.SessionResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
	UpsertStudentAttendance(ctx context.Context, actor ActivityActor, sessionID uint, payload dto.AttendanceUpsertRequest) (dto.SessionResponse, error)
	UpsertTeacherAttendance(ctx context.Context, actor ActivityActor, sessionID uint, payload dto.AttendanceUpsertRequest) (dto.SessionResponse, error)
}

type sessionService struct {
	sessions   repository.SessionRepository
	attendance repository.AttendanceRepository
	classes    repository.ClassRepository
	validator  *validator.Validate
	activity   ActivityRecorder
	logger     zerolog.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(
	sessions repository.SessionRepository,
	attendance repository.AttendanceRepository,
	classes repository.ClassRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) SessionService {
	return &sessionService{
		sessions:   sessions,
		attendance: attendance,
		classes:    classes,
		validator:  validator,
		activity:   activity,
		logger:     logger.With().Str("component", "session_service").Logger(),
	}
}

func (s *sessionService) List(ctx context.Context, req SessionListRequest) ([]dto.SessionResponse, error) {
	filter := repository.SessionFilter{ClassID: req.ClassID}

	if strings.TrimSpace(req.From) != "" {
		from, err := academic.ParseDate(req.From)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.From = from
	}
	if strings.TrimSpace(req.To) != "" {
		to, err := academic.ParseDate(req.To)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.To = to
	}

	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, dto.NewSessionResponse(session))
	}
	return responses, nil
}

func (s *sessionService) Get(ctx context.Context, id uint) (dto.SessionResponse, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}
	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Create(ctx context.Context, actor ActivityActor, payload dto.SessionCreateRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	if _, err := s.classes.GetByID(ctx, payload.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionClass
		}
		return dto.SessionResponse{}, err
	}

	date, err := academic.ParseDate(payload.Date)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	session := models.ClassSession{
		ClassID:             payload.ClassID,
		Date:                date,
		SessionType:         strings.TrimSpace(payload.SessionType),
		WorshipTopic:        utils.SanitizeText(payload.WorshipTopic),
		WorshipTeacherName:  strings.TrimSpace(payload.WorshipTeacherName),
		ActivityTopic:       utils.SanitizeText(payload.ActivityTopic),
		ActivityTeacherName: strings.TrimSpace(payload.ActivityTeacherName),
		OfferingAmount:      payload.OfferingAmount,
		AuditorCount:        payload.AuditorCount,
		IsCancelled:         payload.IsCancelled,
		CancellationReason:  utils.SanitizeText(payload.CancellationReason),
		Notes:               utils.SanitizeText(payload.Notes),
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	s.recordSessionActivity(ctx, actor, "sessions.created", session.ID, map[string]interface{}{
		"class_id": session.ClassID,
		"date":     academic.FormatDate(session.Date),
	})
	return s.Get(ctx, session.ID)
}

func (s *sessionService) Update(ctx context.Context, actor ActivityActor, id uint, payload dto.SessionUpdateRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	changed := make([]string, 0)
	if payload.Date != nil {
		date, err := academic.ParseDate(*payload.Date)
		if err != nil {
			return dto.SessionResponse{}, err
		}
		session.Date = date
		changed = append(changed, "date")
	}
	if payload.SessionType != nil {
		session.SessionType = strings.TrimSpace(*payload.SessionType)
		changed = append(changed, "session_type")
	}
	if payload.WorshipTopic != nil {
		session.WorshipTopic = utils.SanitizeText(*payload.WorshipTopic)
		changed = append(changed, "worship_topic")
	}
	if payload.WorshipTeacherName != nil {
		session.WorshipTeacherName = strings.TrimSpace(*payload.WorshipTeacherName)
		changed = append(changed, "worship_teacher_name")
	}
	if payload.ActivityTopic != nil {
		session.ActivityTopic = utils.SanitizeText(*payload.ActivityTopic)
		changed = append(changed, "activity_topic")
	}
	if payload.ActivityTeacherName != nil {
		session.ActivityTeacherName = strings.TrimSpace(*payload.ActivityTeacherName)
		changed = append(changed, "activity_teacher_name")
	}
	if payload.OfferingAmount != nil {
		session.OfferingAmount = *payload.OfferingAmount
		changed = append(changed, "offering_amount")
	}
	if payload.AuditorCount != nil {
		session.AuditorCount = *payload.AuditorCount
		changed = append(changed, "auditor_count")
	}
	if payload.IsCancelled != nil {
		session.IsCancelled = *payload.IsCancelled
		changed = append(changed, "is_cancelled")
	}
	if payload.CancellationReason != nil {
		session.CancellationReason = utils.SanitizeText(*payload.CancellationReason)
		changed = append(changed, "cancellation_reason")
	}
	if payload.Notes != nil {
		session.Notes = utils.SanitizeText(*payload.Notes)
		changed = append(changed, "notes")
	}

	if len(changed) == 0 {
		return dto.NewSessionResponse(session), nil
	}

	if err := s.sessions.Update(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	s.recordSessionActivity(ctx, actor, "sessions.updated", session.ID, map[string]interface{}{
		"changed_fields": changed,
	})
	return s.Get(ctx, session.ID)
}

func (s *sessionService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	if _, err := s.sessions.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}

	s.recordSessionActivity(ctx, actor, "sessions.deleted", id, nil)
	return nil
}

func (s *sessionService) UpsertStudentAttendance(ctx context.Context, actor ActivityActor, sessionID uint, payload dto.AttendanceUpsertRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	records := make([]models.StudentAttendance, 0, len(payload.Marks))
	for _, mark := range dedupeMarks(payload.Marks) {
		records = append(records, models.StudentAttendance{
			SessionID: sessionID,
			StudentID: mark.PersonID,
			Status:    mark.Status,
			Reason:    utils.SanitizeText(mark.Reason),
		})
	}

	if err := s.attendance.UpsertStudentMarks(ctx, records); err != nil {
		return dto.SessionResponse{}, err
	}

	s.recordSessionActivity(ctx, actor, "attendance.students.recorded", sessionID, map[string]interface{}{
		"marks": len(records),
	})
	return s.Get(ctx, sessionID)
}

func (s *sessionService) UpsertTeacherAttendance(ctx context.Context, actor ActivityActor, sessionID uint, payload dto.AttendanceUpsertRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}

	records := make([]models.TeacherAttendance, 0, len(payload.Marks))
	for _, mark := range dedupeMarks(payload.Marks) {
		records = append(records, models.TeacherAttendance{
			SessionID: sessionID,
			TeacherID: mark.PersonID,
			Status:    mark.Status,
			Reason:    utils.SanitizeText(mark.Reason),
		})
	}

	if err := s.attendance.UpsertTeacherMarks(ctx, records); err != nil {
		return dto.SessionResponse{}, err
	}

	s.recordSessionActivity(ctx, actor, "attendance.teachers.recorded", sessionID, map[string]interface{}{
		"marks": len(records),
	})
	return s.Get(ctx, sessionID)
}

// dedupeMarks keeps only the last mark per person so a single payload never
// races against itself on the upsert key.
func dedupeMarks(marks []dto.AttendanceMark) []dto.AttendanceMark {
	latest := make(map[uint]int, len(marks))
	for index, mark := range marks {
		latest[mark.PersonID] = index
	}

	deduped := make([]dto.AttendanceMark, 0, len(latest))
	for index, mark := range marks {
		if latest[mark.PersonID] == index {
			deduped = append(deduped, mark)
		}
	}
	return deduped
}

func (s *sessionService) recordSessionActivity(ctx context.Context, actor ActivityActor, action string, sessionID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	entityID := sessionID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "session",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record session activity")
	}
}
