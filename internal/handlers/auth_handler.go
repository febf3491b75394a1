package handlers

import (
	"errors"
	"fmt"
	"log"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
	"contactbook/pkg/mailqueue"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ConfirmationPublisher queues confirmation-email events. Satisfied by
// *mailqueue.Client in production and by fakes in tests.
type ConfirmationPublisher interface {
	PublishConfirmation(event mailqueue.ConfirmationEvent) error
}

// AuthHandler handles HTTP requests for signup, login and token management.
type AuthHandler struct {
	authService *services.AuthService
	mail        ConfirmationPublisher
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler. mail may be nil, which disables
// confirmation mails (useful in tests).
func NewAuthHandler(authService *services.AuthService, mail ConfirmationPublisher) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mail:        mail,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. authRequired guards
// the routes that need an access token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/refresh_token", h.HandleRefreshToken)
	authRoutes.Get("/confirmed_email/:token", h.HandleConfirmedEmail)
	authRoutes.Post("/request_email", h.HandleRequestEmail)
	authRoutes.Post("/logout", authRequired, h.HandleLogout)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleSignup registers a new, unconfirmed user and queues the confirmation
// mail. Mail delivery is fire-and-forget: a queue failure never fails signup.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
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

	user, err := h.authService.Signup(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Account already exists",
			})
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
		})
	}

	h.queueConfirmation(user)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"detail": "User successfully created. Check your email for confirmation.",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues a token pair. The fresh
// refresh token supersedes any previously stored one.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
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

	pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotConfirmed):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Email not confirmed",
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		default:
			log.Printf("Error during login for %s: %v", req.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not log in",
			})
		}
	}
	return c.JSON(pair)
}

// HandleRefreshToken rotates the token pair. The bearer token here is the
// refresh token; presenting one that was already superseded fails with 401.
func (h *AuthHandler) HandleRefreshToken(c *fiber.Ctx) error {
	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authorization header format must be 'Bearer <token>'",
		})
	}

	pair, err := h.authService.Refresh(c.Context(), tokenString)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid refresh token",
			})
		}
		log.Printf("Error refreshing token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not refresh token",
		})
	}
	return c.JSON(pair)
}

// HandleConfirmedEmail confirms the email address referenced by the token in
// the emailed link.
func (h *AuthHandler) HandleConfirmedEmail(c *fiber.Ctx) error {
	email, err := h.authService.GetEmailFromToken(c.Params("token"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Invalid token for email verification",
		})
	}

	user, err := h.authService.GetUserByEmail(email)
	if err != nil {
		log.Printf("Error confirming email %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not confirm email",
		})
	}
	if user == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Verification error",
		})
	}
	if user.Confirmed {
		return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
	}

	if err := h.authService.ConfirmEmail(c.Context(), email); err != nil {
		log.Printf("Error confirming email %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not confirm email",
		})
	}
	return c.JSON(fiber.Map{"message": "Email confirmed"})
}

// RequestEmailRequest represents the request body for re-sending the
// confirmation mail.
type RequestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleRequestEmail re-sends the confirmation mail. The response is the same
// for known and unknown addresses so the endpoint cannot be used to probe for
// accounts.
func (h *AuthHandler) HandleRequestEmail(c *fiber.Ctx) error {
	var req RequestEmailRequest
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

	user, err := h.authService.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error looking up %s for confirmation mail: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not request confirmation email",
		})
	}
	if user != nil && user.Confirmed {
		return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
	}
	if user != nil {
		h.queueConfirmation(user)
	}
	return c.JSON(fiber.Map{"message": "Check your email for confirmation."})
}

// HandleLogout clears the stored refresh token, ending the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	user := c.Locals(middleware.UserKey).(*models.User)
	if err := h.authService.Logout(c.Context(), user); err != nil {
		log.Printf("Error logging out %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not log out",
		})
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) queueConfirmation(user *models.User) {
	if h.mail == nil {
		return
	}
	token, err := h.authService.CreateEmailToken(user.Email)
	if err != nil {
		log.Printf("Failed to create email token for %s: %v", user.Email, err)
		return
	}
	event := mailqueue.ConfirmationEvent{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
	}
	if err := h.mail.PublishConfirmation(event); err != nil {
		log.Printf("Failed to queue confirmation mail for %s: %v", user.Email, err)
	}
}

// fieldErrors flattens validator errors into a field → message map.
func fieldErrors(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}
