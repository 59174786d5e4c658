package handlers

import (
	"visualcaption/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes on the /api/auth group.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/send-otp", h.HandleSendOTP)
	router.Post("/verify-otp", h.HandleVerifyOTP)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}

// CredentialsRequest carries email and password, from the query string or body.
type CredentialsRequest struct {
	Email    string `query:"email" json:"email" form:"email" validate:"required,email"`
	Password string `query:"password" json:"password" form:"password" validate:"required"`
}

type emailRequest struct {
	Email string `query:"email" json:"email" form:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `query:"email" json:"email" form:"email" validate:"required,email"`
	OTP   string `query:"otp" json:"otp" form:"otp" validate:"required"`
}

// HandleRegister creates an account and emails an OTP.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := parseInput(c, &req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.RegisterUser(req.Email, req.Password); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Registration successful. Please check your email for the OTP code.",
	})
}

// HandleSendOTP issues and emails a fresh OTP.
func (h *AuthHandler) HandleSendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseInput(c, &req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.SendOTP(req.Email); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "OTP sent to email."})
}

// HandleVerifyOTP consumes an OTP.
func (h *AuthHandler) HandleVerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := parseInput(c, &req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.VerifyOTP(req.Email, req.OTP); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "OTP verification successful."})
}

// HandleLogin issues a token for valid credentials.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := parseInput(c, &req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// HandleLogout is a no-op; tokens are stateless.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logout successful."})
}
