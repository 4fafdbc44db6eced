package handler

import (
	"errors"

	"skill-compass/internal/delivery/http/middleware"
	gapdomain "skill-compass/internal/domain/gap"
	"skill-compass/internal/domain/profile"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/pkg/response"
	ucassessment "skill-compass/internal/usecase/assessment"

	"github.com/gofiber/fiber/v3"
)

type AssessmentHandler struct {
	uc *ucassessment.Service
}

type evaluateRequest struct {
	Profile    profile.Input `json:"profile"`
	Goal       string        `json:"goal"`
	WeeklyTime string        `json:"weekly_time"`
	Preference string        `json:"preference"`
	Scores     scores.Set    `json:"scores"`
}

type evaluateGapsRequest struct {
	AnswersText    string             `json:"answers_text"`
	Scores         scores.Set         `json:"scores"`
	ReadinessLevel string             `json:"readiness_level"`
	Evidence       gapdomain.Evidence `json:"evidence"`
	JobIDs         []string           `json:"job_ids"`
}

func NewAssessmentHandler(uc *ucassessment.Service) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/evaluate", h.Evaluate)
	r.Post("/gaps", h.EvaluateGaps)
}

func (h *AssessmentHandler) Evaluate(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req evaluateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	normalized, err := profile.Normalize(req.Profile)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	result, err := h.uc.Evaluate(c.Context(), ucassessment.Input{
		UserID:     userID,
		Profile:    normalized,
		Goal:       req.Goal,
		WeeklyTime: req.WeeklyTime,
		Preference: req.Preference,
		Scores:     req.Scores,
	})
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func (h *AssessmentHandler) EvaluateGaps(c fiber.Ctx) error {
	if _, ok := userIDFromContext(c); !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req evaluateGapsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result := h.uc.EvaluateGaps(c.Context(), ucassessment.GapsInput{
		AnswersText:    req.AnswersText,
		Scores:         req.Scores,
		ReadinessLevel: req.ReadinessLevel,
		Evidence:       req.Evidence,
		JobIDs:         req.JobIDs,
	})
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}
