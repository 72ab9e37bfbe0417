package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/service"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// SessionHandler wires class session and attendance endpoints.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches session routes to the router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Put("/:id/attendance/students", h.upsertStudentAttendance)
	router.Put("/:id/attendance/teachers", h.upsertTeacherAttendance)
}

func (h *SessionHandler) list(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class filter")
	}

	sessions, err := h.service.List(c.Context(), service.SessionListRequest{
		ClassID: classID,
		From:    c.Query("from"),
		To:      c.Query("to"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid date filter")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list sessions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list sessions")
	}
	return utils.SendSuccess(c, "sessions retrieved", sessions)
}

func (h *SessionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	session, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch session")
	}
	return utils.SendSuccess(c, "session retrieved", session)
}

func (h *SessionHandler) create(c *fiber.Ctx) error {
	var payload dto.SessionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.Create(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionClass):
			return utils.SendError(c, fiber.StatusBadRequest, "class not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create session")
		}
	}

	return utils.SendCreated(c, "session created", session)
}

func (h *SessionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.SessionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.Update(c.Context(), activityActorFromContext(c), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update session")
		}
	}

	return utils.SendSuccess(c, "session updated", session)
}

func (h *SessionHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), activityActorFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete session")
	}

	return utils.SendSuccess(c, "session deleted", nil)
}

func (h *SessionHandler) upsertStudentAttendance(c *fiber.Ctx) error {
	return h.upsertAttendance(c, h.service.UpsertStudentAttendance)
}

func (h *SessionHandler) upsertTeacherAttendance(c *fiber.Ctx) error {
	return h.upsertAttendance(c, h.service.UpsertTeacherAttendance)
}

func (h *SessionHandler) upsertAttendance(
	c *fiber.Ctx,
	upsert func(ctx context.Context, actor service.ActivityActor, sessionID uint, payload dto.AttendanceUpsertRequest) (dto.SessionResponse, error),
) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AttendanceUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := upsert(c.Context(), activityActorFromContext(c), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record attendance")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record attendance")
		}
	}

	return utils.SendSuccess(c, "attendance recorded", session)
}
