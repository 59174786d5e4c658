package handlers

import (
	"errors"
	"strconv"

	"visualcaption/internal/repositories"
	"visualcaption/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	adminService  *services.AdminService
	uploadService *services.UploadService
	logger        *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, uploadService *services.UploadService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		uploadService: uploadService,
		logger:        logger,
	}
}

// RegisterRoutes mounts the dashboard routes on the /api/auth/admin group.
func (h *AdminHandler) RegisterRoutes(admin fiber.Router) {
	admin.Get("/users", h.HandleListUsers)
	admin.Patch("/users/:user_id/status", h.HandleToggleUserStatus)
	admin.Delete("/users/:user_id", h.HandleDeleteUser)
	admin.Get("/feedback", h.HandleListFeedback)
	admin.Post("/feedback/:feedback_id/response", h.HandleRespondToFeedback)
	admin.Patch("/feedback/:feedback_id/status", h.HandleResolveFeedback)
	admin.Get("/stats", h.HandleStats)
	admin.Get("/captions", h.HandleListCaptions)
}

// RegisterCaptionRoutes mounts caption management on the /uploads/admin group.
func (h *AdminHandler) RegisterCaptionRoutes(admin fiber.Router) {
	admin.Get("/captions", h.HandleListCaptions)
	admin.Get("/captions/:caption_id", h.HandleGetCaption)
	admin.Delete("/captions/:caption_id", h.HandleDeleteCaption)
}

// HandleListUsers accepts search and status.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	filter := repositories.UserFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "status must be a boolean")
		}
		filter.Status = &status
	}

	users, err := h.adminService.ListUsers(filter)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) HandleToggleUserStatus(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}

	newStatus, err := h.adminService.ToggleUserStatus(userID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message":    "User status updated.",
		"user_id":    userID,
		"new_status": newStatus,
	})
}

func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted.",
		"user_id": userID,
	})
}

// HandleListFeedback accepts search (or content), rating, sort and limit.
func (h *AdminHandler) HandleListFeedback(c *fiber.Ctx) error {
	filter := repositories.FeedbackFilter{
		Search:        c.Query("search", c.Query("content")),
		SortByCreated: c.Query("sort") == "created_at",
	}
	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "rating must be an integer")
		}
		filter.Rating = &rating
	}
	limit, err := limitQuery(c)
	if err != nil {
		return err
	}
	filter.Limit = limit

	feedback, err := h.adminService.ListFeedback(filter)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(feedback)
}

func (h *AdminHandler) HandleRespondToFeedback(c *fiber.Ctx) error {
	feedbackID, err := uuidParam(c, "feedback_id")
	if err != nil {
		return err
	}
	response := c.Query("response")
	if response == "" {
		var body struct {
			Response string `json:"response" form:"response"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
				return badRequest(c, "Invalid request body")
			}
		}
		response = body.Response
	}
	if response == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "response is required")
	}

	if err := h.adminService.RespondToFeedback(feedbackID, response); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "Feedback response saved."})
}

func (h *AdminHandler) HandleResolveFeedback(c *fiber.Ctx) error {
	feedbackID, err := uuidParam(c, "feedback_id")
	if err != nil {
		return err
	}

	alreadyResolved, err := h.adminService.ResolveFeedback(feedbackID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	if alreadyResolved {
		return c.JSON(fiber.Map{"message": "Feedback was already marked as resolved."})
	}
	return c.JSON(fiber.Map{"message": "Feedback marked as resolved."})
}

func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats()
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(stats)
}

// HandleListCaptions accepts search, type, sort=created_at and limit.
func (h *AdminHandler) HandleListCaptions(c *fiber.Ctx) error {
	limit, err := limitQuery(c)
	if err != nil {
		return err
	}
	filter := repositories.CaptionFilter{
		Search:         c.Query("search"),
		FileType:       c.Query("type"),
		SortByUploaded: c.Query("sort") == "created_at",
		Limit:          limit,
	}

	captions, err := h.uploadService.ListCaptions(filter)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(captions)
}

func (h *AdminHandler) HandleGetCaption(c *fiber.Ctx) error {
	captionID, err := uuidParam(c, "caption_id")
	if err != nil {
		return err
	}

	caption, err := h.uploadService.GetCaption(captionID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(caption)
}

func (h *AdminHandler) HandleDeleteCaption(c *fiber.Ctx) error {
	captionID, err := uuidParam(c, "caption_id")
	if err != nil {
		return err
	}

	if err := h.uploadService.DeleteCaption(captionID); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Caption deleted.",
		"caption_id": captionID,
	})
}

func limitQuery(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fiber.NewError(fiber.StatusUnprocessableEntity, "limit must be a non-negative integer")
	}
	return limit, nil
}
