package handlers

import (
	"visualcaption/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HistoryHandler serves stored caption history.
type HistoryHandler struct {
	historyService *services.HistoryService
	logger         *logrus.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService *services.HistoryService, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, logger: logger}
}

// RegisterRoutes mounts the history routes on the /api group.
func (h *HistoryHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/history", h.HandleList)
	router.Get("/history/:id", h.HandleGet)
}

func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	records, err := h.historyService.List(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(records)
}

// HandleGet answers a JSON null when the record does not exist.
func (h *HistoryHandler) HandleGet(c *fiber.Ctx) error {
	record, err := h.historyService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	if record == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString("null")
	}
	return c.JSON(record)
}
