package handler

import (
	"errors"

	"skill-compass/internal/delivery/http/dto"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/domain/interview"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/pkg/response"
	ucinterview "skill-compass/internal/usecase/interview"

	"github.com/gofiber/fiber/v3"
)

type InterviewHandler struct {
	uc *ucinterview.Service
}

type submitAnswersRequest struct {
	QuestionIDs []string                  `json:"question_ids"`
	Answers     map[string]session.Answer `json:"answers"`
}

func NewInterviewHandler(uc *ucinterview.Service) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/questions", h.Questions)
	r.Post("/answers", h.Submit)
}

func (h *InterviewHandler) Questions(c fiber.Ctx) error {
	in := interview.SelectionInput{
		DigitalLevel: c.Query("digital_level"),
		Goal:         c.Query("goal"),
		Preference:   c.Query("preference"),
	}

	questions, err := h.uc.Questions(in)
	if err != nil {
		if errors.Is(err, ucinterview.ErrEmptyBank) {
			return middleware.NewAppError(fiber.StatusServiceUnavailable, "Question bank unavailable", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"questions": dto.QuestionResponsesFromCatalog(questions),
	})
}

func (h *InterviewHandler) Submit(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req submitAnswersRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	report, err := h.uc.Submit(c.Context(), userID, req.QuestionIDs, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ucinterview.ErrNoAnswers):
			return middleware.NewAppError(fiber.StatusBadRequest, "No answers submitted", nil, err)
		case errors.Is(err, ucinterview.ErrUnknownAnswers):
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Answers reference unknown questions", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}
