package handler

import (
	"skill-compass/internal/catalog"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/domain/job"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/pkg/response"
	ucfeedback "skill-compass/internal/usecase/feedback"

	"github.com/gofiber/fiber/v3"
)

type FeedbackHandler struct {
	uc   *ucfeedback.Service
	bank []catalog.Question
}

type feedbackRequest struct {
	Gap         session.Gap               `json:"gap"`
	QuestionIDs []string                  `json:"question_ids"`
	Answers     map[string]session.Answer `json:"answers"`
	Jobs        job.Mapping               `json:"jobs"`
}

func NewFeedbackHandler(uc *ucfeedback.Service, bank []catalog.Question) *FeedbackHandler {
	return &FeedbackHandler{uc: uc, bank: bank}
}

func (h *FeedbackHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Generate)
}

func (h *FeedbackHandler) Generate(c fiber.Ctx) error {
	if _, ok := userIDFromContext(c); !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req feedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	report, err := h.uc.Generate(c.Context(), ucfeedback.Input{
		Gap:       req.Gap,
		Questions: h.resolveQuestions(req.QuestionIDs),
		Answers:   req.Answers,
		Jobs:      req.Jobs,
	})
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

// resolveQuestions maps ids back to bank entries; unknown ids are skipped
// since the report degrades gracefully without them.
func (h *FeedbackHandler) resolveQuestions(questionIDs []string) []catalog.Question {
	byID := make(map[string]catalog.Question, len(h.bank))
	for _, q := range h.bank {
		byID[q.ID] = q
	}
	questions := make([]catalog.Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions
}
