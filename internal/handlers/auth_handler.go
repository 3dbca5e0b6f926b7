package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/users.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		_, werr := badInput(c, err)
		return werr
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if handled, werr := badInput(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
				Errors: []dto.FieldError{{Msg: "User already exists", Param: "email"}},
			})
		}
		return serverError(c, err)
	}

	return c.JSON(resp)
}

// Login handles POST /api/auth.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		_, werr := badInput(c, err)
		return werr
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
				Errors: []dto.FieldError{{Msg: "Invalid Credentials!"}},
			})
		}
		return serverError(c, err)
	}

	return c.JSON(resp)
}

// Me handles GET /api/auth and returns the caller without the password hash.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Msg: "Invalid Token!"})
	}

	user, err := h.authService.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User not found!")
		}
		return serverError(c, err)
	}

	return c.JSON(dto.NewUserResponse(user))
}
