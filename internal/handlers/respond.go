package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"visualcaption/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// fail writes a {"detail": ...} body with the status matching the error kind.
func fail(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	status := statusFor(err)
	detail := "Internal server error"

	var se *services.Error
	switch {
	case errors.As(err, &se):
		detail = se.Detail
	case status == fiber.StatusInternalServerError:
		detail = err.Error()
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": status,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrBadRequest):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// badRequest answers 400 for malformed input that never reached a service.
func badRequest(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": detail})
}

// validationFailed answers 422 listing each failed field.
func validationFailed(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
	}
	details := make([]fiber.Map, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, fiber.Map{
			"field": e.Field(),
			"msg":   fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()),
		})
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": details})
}

// uuidParam reads a path parameter that must be a UUID. The returned
// *fiber.Error becomes a 422 in the app's error handler.
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id.String(), nil
}

// parseInput fills dst from the query string and then from the body, so
// clients may send fields either way.
func parseInput(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return err
	}
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return err
	}
	return nil
}

// readFormFile returns the bytes and metadata of a multipart file field.
func readFormFile(c *fiber.Ctx, field string) ([]byte, *multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, header, nil
}
