package handlers

import (
	"log"

	"contactbook/internal/repositories"
	"contactbook/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the authenticated user's own profile.
type UserHandler struct {
	userRepo    repositories.UserRepository
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userRepo:    userRepo,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user profile routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleMe)
	userRoutes.Patch("/avatar", h.HandleUpdateAvatar)
}

// HandleMe returns the authenticated user's profile.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// AvatarRequest represents the request body for updating the avatar URL.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,url"`
}

// HandleUpdateAvatar sets a new avatar URL and drops the stale cache entry.
func (h *UserHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	var req AvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrors(err),
		})
	}

	user := currentUser(c)
	updated, err := h.userRepo.UpdateAvatar(user.Email, req.Avatar)
	if err != nil {
		log.Printf("Error updating avatar for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update avatar",
		})
	}
	if updated == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}

	h.authService.InvalidateUserCache(c.Context(), user.Email)
	return c.JSON(updated)
}
