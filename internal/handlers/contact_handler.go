package handlers

import (
	"errors"
	"log"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles HTTP requests for contacts. All routes operate on
// the authenticated user's own contacts only.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the contact routes. The search routes are
// registered before /:id so they are not captured by the parameter.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	contactRoutes := router.Group("/contacts")
	contactRoutes.Get("/", h.HandleListContacts)
	contactRoutes.Get("/search/name", h.HandleSearchByName)
	contactRoutes.Get("/search/surname", h.HandleSearchBySurname)
	contactRoutes.Get("/search/email", h.HandleSearchByEmail)
	contactRoutes.Get("/search/birthdays", h.HandleUpcomingBirthdays)
	contactRoutes.Get("/:id", h.HandleGetContact)
	contactRoutes.Post("/", h.HandleCreateContact)
	contactRoutes.Put("/:id", h.HandleUpdateContact)
	contactRoutes.Delete("/:id", h.HandleDeleteContact)
}

// ContactRequest represents the request body for creating or updating a
// contact. Updates are full-field overwrites.
type ContactRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Surname     string  `json:"surname" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,email,max=100"`
	Phone       string  `json:"phone" validate:"required,max=15"`
	Birthday    string  `json:"birthday" validate:"required,datetime=2006-01-02"`
	Description *string `json:"description" validate:"omitempty,max=150"`
}

// HandleListContacts returns a page of the user's contacts.
func (h *ContactHandler) HandleListContacts(c *fiber.Ctx) error {
	user := currentUser(c)
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	contacts, err := h.service.ListContacts(user, skip, limit)
	if err != nil {
		log.Printf("Error listing contacts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve contacts",
		})
	}
	return c.JSON(contacts)
}

// HandleGetContact returns a single owned contact or 404.
func (h *ContactHandler) HandleGetContact(c *fiber.Ctx) error {
	user := currentUser(c)
	contact, err := h.service.GetContact(user, c.Params("id"))
	if err != nil {
		log.Printf("Error getting contact %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve contact",
		})
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// HandleSearchByName searches the user's contacts by name substring.
func (h *ContactHandler) HandleSearchByName(c *fiber.Ctx) error {
	return h.search(c, "name", h.service.SearchByName)
}

// HandleSearchBySurname searches the user's contacts by surname substring.
func (h *ContactHandler) HandleSearchBySurname(c *fiber.Ctx) error {
	return h.search(c, "surname", h.service.SearchBySurname)
}

// HandleSearchByEmail searches the user's contacts by email substring.
func (h *ContactHandler) HandleSearchByEmail(c *fiber.Ctx) error {
	return h.search(c, "email", h.service.SearchByEmail)
}

// search runs a substring search. No matches is an empty array, not an error.
func (h *ContactHandler) search(c *fiber.Ctx, param string, find func(*models.User, string) ([]models.Contact, error)) error {
	substring := c.Query(param)
	if substring == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter '" + param + "' is required",
		})
	}

	contacts, err := find(currentUser(c), substring)
	if err != nil {
		log.Printf("Error searching contacts by %s: %v", param, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search contacts",
		})
	}
	return c.JSON(contacts)
}

// HandleUpcomingBirthdays returns contacts with a birthday in the next 7
// calendar days including today.
func (h *ContactHandler) HandleUpcomingBirthdays(c *fiber.Ctx) error {
	contacts, err := h.service.UpcomingBirthdays(currentUser(c))
	if err != nil {
		log.Printf("Error getting upcoming birthdays: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve birthdays",
		})
	}
	return c.JSON(contacts)
}

// HandleCreateContact inserts a new contact for the user.
func (h *ContactHandler) HandleCreateContact(c *fiber.Ctx) error {
	contact, errResp := h.parseContact(c)
	if errResp != nil {
		return errResp(c)
	}

	if err := h.service.CreateContact(currentUser(c), contact); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "A contact with this email or phone already exists",
			})
		}
		log.Printf("Error creating contact: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create contact",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// HandleUpdateContact overwrites all fields of an owned contact.
func (h *ContactHandler) HandleUpdateContact(c *fiber.Ctx) error {
	fields, errResp := h.parseContact(c)
	if errResp != nil {
		return errResp(c)
	}

	contact, err := h.service.UpdateContact(currentUser(c), c.Params("id"), fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "A contact with this email or phone already exists",
			})
		}
		log.Printf("Error updating contact %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update contact",
		})
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// HandleDeleteContact removes an owned contact.
func (h *ContactHandler) HandleDeleteContact(c *fiber.Ctx) error {
	contact, err := h.service.DeleteContact(currentUser(c), c.Params("id"))
	if err != nil {
		log.Printf("Error deleting contact %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete contact",
		})
	}
	if contact == nil {
		return contactNotFound(c)
	}
	return c.JSON(contact)
}

// parseContact binds and validates the request body. The second return value
// is non-nil on failure and writes the error response.
func (h *ContactHandler) parseContact(c *fiber.Ctx) (*models.Contact, func(*fiber.Ctx) error) {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		parseErr := err
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   parseErr.Error(),
			})
		}
	}
	if err := h.validate.Struct(req); err != nil {
		validateErr := err
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fieldErrors(validateErr),
			})
		}
	}

	birthday, err := models.ParseDate(req.Birthday)
	if err != nil {
		return nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid birthday date",
			})
		}
	}

	return &models.Contact{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Description: req.Description,
	}, nil
}

// contactNotFound is the shared 404 for absent and foreign-owned contacts:
// the two cases are indistinguishable to the caller.
func contactNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Contact not found",
	})
}

// currentUser returns the user stored by the auth middleware.
func currentUser(c *fiber.Ctx) *models.User {
	return c.Locals(middleware.UserKey).(*models.User)
}
