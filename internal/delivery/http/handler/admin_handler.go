package handler

import (
	"errors"

	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/pkg/response"
	ucadmin "skill-compass/internal/usecase/admin"

	"github.com/gofiber/fiber/v3"
)

const adminPasswordHeader = "X-Admin-Password"

type AdminHandler struct {
	uc *ucadmin.Service
}

func NewAdminHandler(uc *ucadmin.Service) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/overview", h.Overview)
	r.Get("/export", h.Export)
	r.Get("/users/:id", h.UserDetail)
}

func (h *AdminHandler) Overview(c fiber.Ctx) error {
	if err := h.authenticate(c); err != nil {
		return err
	}

	overview, err := h.uc.Overview(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, overview)
}

func (h *AdminHandler) Export(c fiber.Ctx) error {
	if err := h.authenticate(c); err != nil {
		return err
	}

	data, err := h.uc.ExportCSV(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Send(data)
}

func (h *AdminHandler) UserDetail(c fiber.Ctx) error {
	if err := h.authenticate(c); err != nil {
		return err
	}

	record, err := h.uc.UserDetail(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ucadmin.ErrUserNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, record)
}

func (h *AdminHandler) authenticate(c fiber.Ctx) error {
	err := h.uc.Authenticate(c.Get(adminPasswordHeader))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ucadmin.ErrDisabled):
		return middleware.NewAppError(fiber.StatusForbidden, "Admin access disabled", nil, err)
	case errors.Is(err, ucadmin.ErrInvalidPassword):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
