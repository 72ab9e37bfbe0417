package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/service"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// StatisticsHandler wires read-only statistics endpoints.
type StatisticsHandler struct {
	service service.StatisticsService
	logger  zerolog.Logger
}

// NewStatisticsHandler constructs the handler.
func NewStatisticsHandler(service service.StatisticsService, logger zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		logger:  logger.With().Str("component", "statistics_handler").Logger(),
	}
}

// Register attaches statistics routes to the router group.
func (h *StatisticsHandler) Register(router fiber.Router) {
	router.Get("/school", h.school)
	router.Get("/students/:id", h.student)
	router.Get("/classes/:id", h.class)
}

func (h *StatisticsHandler) student(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	stats, err := h.service.StudentStats(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStatsStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute student statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute student statistics")
	}

	return utils.SendSuccess(c, "student statistics computed", stats)
}

func (h *StatisticsHandler) class(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	year, err := parseQueryInt(c, "academic_year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid academic year")
	}
	if year == 0 {
		year = academic.CurrentYear(time.Now().UTC())
	}

	stats, err := h.service.ClassStats(c.Context(), id, year)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute class statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute class statistics")
	}

	return utils.SendSuccess(c, "class statistics computed", stats)
}

func (h *StatisticsHandler) school(c *fiber.Ctx) error {
	stats, err := h.service.SchoolStats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute school statistics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute school statistics")
	}

	return utils.SendSuccess(c, "school statistics computed", stats)
}
