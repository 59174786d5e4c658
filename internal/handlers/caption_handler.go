package handlers

import (
	"visualcaption/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CaptionHandler forwards uploaded images to the inference services.
type CaptionHandler struct {
	captionService *services.CaptionService
	logger         *logrus.Logger
}

// NewCaptionHandler creates a new CaptionHandler.
func NewCaptionHandler(captionService *services.CaptionService, logger *logrus.Logger) *CaptionHandler {
	return &CaptionHandler{captionService: captionService, logger: logger}
}

func (h *CaptionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/image", h.HandleCaption)
	router.Post("/image/destination", h.HandleDestination)
}

func (h *CaptionHandler) HandleCaption(c *fiber.Ctx) error {
	image, _, err := readFormFile(c, "file")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "file is required")
	}

	caption, err := h.captionService.CaptionImage(image)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"caption": caption})
}

func (h *CaptionHandler) HandleDestination(c *fiber.Ctx) error {
	image, _, err := readFormFile(c, "file")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "file is required")
	}

	info, err := h.captionService.DestinationInfo(image)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"destination_info": info})
}

// ImageHandler hosts raw images in blob storage.
type ImageHandler struct {
	imageService *services.ImageService
	logger       *logrus.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService *services.ImageService, logger *logrus.Logger) *ImageHandler {
	return &ImageHandler{imageService: imageService, logger: logger}
}

func (h *ImageHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.HandleUpload)
}

func (h *ImageHandler) HandleUpload(c *fiber.Ctx) error {
	data, header, err := readFormFile(c, "file")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "file is required")
	}

	url, err := h.imageService.UploadImage(header.Filename, header.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
