package handlers

import (
	"visualcaption/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UploadHandler records uploaded images and their captions.
type UploadHandler struct {
	uploadService *services.UploadService
	validate      *validator.Validate
	logger        *logrus.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService *services.UploadService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// RegisterRoutes mounts the record routes on the /uploads group.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.HandleRecord)
	router.Get("/uploads/:user_id", h.HandleListByUser)
}

// RecordUploadRequest is read from the query string, falling back to the body.
type RecordUploadRequest struct {
	UserID   string `query:"user_id" json:"user_id" form:"user_id" validate:"required"`
	FileURL  string `query:"file_url" json:"file_url" form:"file_url" validate:"required"`
	FileType string `query:"file_type" json:"file_type" form:"file_type" validate:"required"`
	Caption  string `query:"caption" json:"caption" form:"caption" validate:"required"`
}

func (h *UploadHandler) HandleRecord(c *fiber.Ctx) error {
	var req RecordUploadRequest
	if err := parseInput(c, &req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	uploadID, err := h.uploadService.RecordUpload(req.UserID, req.FileURL, req.FileType, req.Caption)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message":   "File uploaded successfully",
		"upload_id": uploadID,
	})
}

// HandleListByUser answers 404 when the user has no uploads.
func (h *UploadHandler) HandleListByUser(c *fiber.Ctx) error {
	uploads, err := h.uploadService.ListUserUploads(c.Params("user_id"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"uploads": uploads})
}
