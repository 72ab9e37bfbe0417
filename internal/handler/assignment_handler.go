package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/middleware"
	"github.com/shipai-tjc/logbook-api/internal/service"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// AssignmentHandler wires teacher class assignment endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment routes to the router group. Replacing an
// assignment set is admin-only; listing is open to any authenticated user.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Put("", middleware.RequireRole("admin"), h.replace)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	classID, err := parseQueryUint(c, "class_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid class filter")
	}

	assignments, err := h.service.List(c.Context(), dto.AssignmentListRequest{
		ClassID:      classID,
		AcademicYear: c.Query("academic_year"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list assignments")
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) replace(c *fiber.Ctx) error {
	var payload dto.AssignmentReplaceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignments, err := h.service.Replace(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentClass):
			return utils.SendError(c, fiber.StatusBadRequest, "class not found")
		case errors.Is(err, service.ErrAssignmentTeacher):
			return utils.SendError(c, fiber.StatusBadRequest, "teacher not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to replace assignments")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to replace assignments")
		}
	}

	return utils.SendSuccess(c, "assignments replaced", assignments)
}
