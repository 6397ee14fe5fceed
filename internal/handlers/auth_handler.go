package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/services"
)

type AuthHandler struct {
	auth      services.AuthService
	publisher services.EventPublisher
	worker    services.Worker
}

func NewAuthHandler(auth services.AuthService, publisher services.EventPublisher, worker services.Worker) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		publisher: publisher,
		worker:    worker,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	user, err := h.auth.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		return respondError(c, err)
	}

	event := services.Event{
		Type:       services.EventUserRegistered,
		UserID:     user.ID.String(),
		OccurredAt: time.Now().UTC(),
	}
	publishLater(h.worker, h.publisher, event)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    user,
	})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
	})
}
