package interview

import (
	"context"
	"errors"
	"log"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/interview"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/repository"
	"skill-compass/internal/usecase/scoring"
)

var (
	ErrEmptyBank      = errors.New("question bank is empty")
	ErrNoAnswers      = errors.New("no answers submitted")
	ErrUnknownAnswers = errors.New("answers reference unknown questions")
)

// Scorer produces the structured score report for a finished interview.
type Scorer interface {
	ScoreAnswers(ctx context.Context, questions []catalog.Question, answers map[string]session.Answer) (scoring.Report, error)
}

// Service runs the interview step: it selects the questions for a learner
// and turns the submitted answers into scores.
type Service struct {
	bank    []catalog.Question
	scorer  Scorer
	records repository.UserRecordStore
	logger  *log.Logger
}

func NewService(bank []catalog.Question, scorer Scorer, records repository.UserRecordStore, logger *log.Logger) *Service {
	return &Service{bank: bank, scorer: scorer, records: records, logger: logger}
}

// Questions selects the interview for the learner's routing answers. The
// seed is fixed, so the same learner profile always sees the same questions.
func (s *Service) Questions(in interview.SelectionInput) ([]catalog.Question, error) {
	if len(s.bank) == 0 {
		return nil, ErrEmptyBank
	}
	selected := interview.SelectQuestions(in, s.bank, interview.DefaultQuestionCount, interview.DefaultSeed)
	if len(selected) == 0 {
		return nil, ErrEmptyBank
	}
	return selected, nil
}

// Submit scores the answers against the questions they were asked for and
// persists the transcript. Answers for questions outside the bank are
// rejected rather than silently scored.
func (s *Service) Submit(ctx context.Context, userID string, questionIDs []string, answers map[string]session.Answer) (scoring.Report, error) {
	if len(answers) == 0 {
		return scoring.Report{}, ErrNoAnswers
	}

	questions, err := s.resolve(questionIDs)
	if err != nil {
		return scoring.Report{}, err
	}
	for id := range answers {
		if !containsQuestion(questions, id) {
			return scoring.Report{}, ErrUnknownAnswers
		}
	}

	report, err := s.scorer.ScoreAnswers(ctx, questions, answers)
	if err != nil {
		return scoring.Report{}, err
	}

	s.persist(ctx, userID, map[string]any{
		"interview_answers":   answers,
		"interview_scores":    report.Scores,
		"interview_completed": true,
		"current_step":        "skill_map",
	})
	return report, nil
}

// resolve maps the submitted question ids back to bank entries, keeping the
// submission order.
func (s *Service) resolve(questionIDs []string) ([]catalog.Question, error) {
	byID := make(map[string]catalog.Question, len(s.bank))
	for _, q := range s.bank {
		byID[q.ID] = q
	}
	questions := make([]catalog.Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, ErrUnknownAnswers
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, ErrNoAnswers
	}
	return questions, nil
}

func (s *Service) persist(ctx context.Context, userID string, updates map[string]any) {
	if s.records == nil || userID == "" {
		return
	}
	if _, err := s.records.Upsert(ctx, userID, updates); err != nil && s.logger != nil {
		s.logger.Printf("[Interview] persist user record failed user=%s: %v", userID, err)
	}
}

func containsQuestion(questions []catalog.Question, id string) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
