package handler

import (
	"errors"

	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/domain/profile"
	"skill-compass/internal/pkg/response"
	"skill-compass/internal/repository"
	ucprofile "skill-compass/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc *ucprofile.Service
}

func NewProfileHandler(uc *ucprofile.Service) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/", h.Save)
	r.Get("/", h.Load)
}

func (h *ProfileHandler) Save(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req ucprofile.Input
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	normalized, err := h.uc.Save(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"profile": normalized})
}

func (h *ProfileHandler) Load(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	payload, err := h.uc.Load(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, payload)
}
