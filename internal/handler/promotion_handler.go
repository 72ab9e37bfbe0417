package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shipai-tjc/logbook-api/internal/dto"
	"github.com/shipai-tjc/logbook-api/internal/middleware"
	"github.com/shipai-tjc/logbook-api/internal/observability"
	"github.com/shipai-tjc/logbook-api/internal/service"
	"github.com/shipai-tjc/logbook-api/internal/utils"
)

// PromotionHandler wires the explicit promotion trigger.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler constructs the handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("component", "promotion_handler").Logger(),
	}
}

// Register attaches the promotion route to the router group. Running a
// promotion pass is an admin-only operation.
func (h *PromotionHandler) Register(router fiber.Router) {
	router.Post("", middleware.RequireRole("admin"), h.promote)
}

func (h *PromotionHandler) promote(c *fiber.Ctx) error {
	var payload dto.PromotionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	summary, err := h.service.Promote(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			observability.PromotionRuns().WithLabelValues("rejected").Inc()
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		observability.PromotionRuns().WithLabelValues("failed").Inc()
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to run promotion pass")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to run promotion pass")
	}

	observability.PromotionRuns().WithLabelValues("completed").Inc()
	return utils.SendSuccess(c, "promotion pass completed", summary)
}
