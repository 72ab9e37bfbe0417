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

// ReportHandler wires the quarterly report endpoint.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches report routes to the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/quarterly", h.quarterly)
}

func (h *ReportHandler) quarterly(c *fiber.Ctx) error {
	year, err := parseQueryInt(c, "academic_year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid academic year")
	}
	if year == 0 {
		year = academic.CurrentYear(time.Now().UTC())
	}

	quarter, err := parseQueryInt(c, "quarter")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid quarter")
	}

	report, err := h.service.QuarterlyReport(c.Context(), year, quarter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuarter) {
			return utils.SendError(c, fiber.StatusBadRequest, "quarter must be between 1 and 4")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build quarterly report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build quarterly report")
	}

	return utils.SendSuccess(c, "quarterly report built", report)
}
