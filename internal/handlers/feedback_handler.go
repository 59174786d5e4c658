package handlers

import (
	"visualcaption/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// FeedbackHandler serves a user's own feedback.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	validate        *validator.Validate
	logger          *logrus.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *services.FeedbackService, logger *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validate:        validator.New(),
		logger:          logger,
	}
}

// RegisterRoutes mounts the per-user feedback routes on the /api/auth group.
func (h *FeedbackHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/users/:user_id/feedback", h.HandleCreate)
	router.Get("/users/:user_id/feedback", h.HandleList)
}

// FeedbackCreateRequest is the JSON body for new feedback. The rating range
// is enforced by the service.
type FeedbackCreateRequest struct {
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating"`
}

func (h *FeedbackHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}

	var req FeedbackCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	out, err := h.feedbackService.CreateFeedback(userID, req.Content, req.Rating)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *FeedbackHandler) HandleList(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}

	feedback, err := h.feedbackService.ListUserFeedback(userID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(feedback)
}
