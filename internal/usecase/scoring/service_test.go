package scoring

import (
	"context"
	"errors"
	"testing"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/infrastructure/cache"
)

type mockCompleter struct {
	response string
	err      error
	calls    int
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func testQuestions() []catalog.Question {
	return []catalog.Question{
		{ID: "CORE_01", TextFa: "مشکل واقعی را چطور حل کردی؟"},
		{ID: "CORE_02", TextFa: "هفته‌ات را چطور برنامه‌ریزی می‌کنی؟"},
	}
}

func testAnswers() map[string]session.Answer {
	return map[string]session.Answer{
		"CORE_01": {Text: "اول مشکل را تحلیل کردم و گام به گام اجرا کردم"},
		"CORE_02": {Choices: []string{"تقویم", "لیست اولویت"}, Text: "هر شنبه"},
	}
}

const validResponse = `{
  "scores": {"problem_solving": 4, "execution": 3, "learning": 2, "planning": 5, "ai_mindset": 1},
  "rationales_fa": {"problem_solving": "تحلیل خوب"},
  "improvements_fa": ["جزئیات بیشتر"],
  "summary_fa": "سطح متوسط."
}`

func TestScoreAnswersUsesModel(t *testing.T) {
	completer := &mockCompleter{response: validResponse}
	s := NewService(completer, cache.NewMemo(), nil)

	report, err := s.ScoreAnswers(context.Background(), testQuestions(), testAnswers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Scores.ProblemSolving != 4 || report.Scores.Planning != 5 {
		t.Fatalf("model scores must be used: %+v", report.Scores)
	}
	if report.DegradedReason != "" {
		t.Fatalf("model path must not be degraded")
	}
	if report.SummaryFa != "سطح متوسط." {
		t.Fatalf("summary mismatch: %q", report.SummaryFa)
	}
}

func TestScoreAnswersClampsModelScores(t *testing.T) {
	completer := &mockCompleter{response: `{"scores": {"execution": 99, "problem_solving": -3, "learning": "4", "planning": null, "ai_mindset": 2.9}}`}
	s := NewService(completer, cache.NewMemo(), nil)

	report, _ := s.ScoreAnswers(context.Background(), testQuestions(), testAnswers())
	if report.Scores.Execution != 5 {
		t.Fatalf("overshoot must clamp to 5, got %d", report.Scores.Execution)
	}
	if report.Scores.ProblemSolving != 0 {
		t.Fatalf("negative must clamp to 0, got %d", report.Scores.ProblemSolving)
	}
	if report.Scores.Learning != 4 {
		t.Fatalf("numeric string must coerce, got %d", report.Scores.Learning)
	}
	if report.Scores.Planning != 0 {
		t.Fatalf("null must read as 0, got %d", report.Scores.Planning)
	}
}

func TestScoreAnswersFallbackOnError(t *testing.T) {
	completer := &mockCompleter{err: errors.New("upstream down")}
	s := NewService(completer, cache.NewMemo(), nil)

	report, err := s.ScoreAnswers(context.Background(), testQuestions(), testAnswers())
	if err != nil {
		t.Fatalf("fallback must not surface the upstream error: %v", err)
	}
	if report.DegradedReason != "fallback_scoring" {
		t.Fatalf("fallback must be flagged, got %q", report.DegradedReason)
	}
	if len(report.ImprovementsFa) == 0 || report.SummaryFa == "" {
		t.Fatalf("fallback report must be complete: %+v", report)
	}
}

func TestScoreAnswersFallbackOnBadSchema(t *testing.T) {
	for _, response := range []string{
		"no json at all",
		`{"rationales_fa": {}}`,
		`{"scores": "not an object"}`,
	} {
		completer := &mockCompleter{response: response}
		s := NewService(completer, cache.NewMemo(), nil)
		report, _ := s.ScoreAnswers(context.Background(), testQuestions(), testAnswers())
		if report.DegradedReason != "fallback_scoring" {
			t.Fatalf("response %q must trigger fallback", response)
		}
	}
}

func TestScoreAnswersMemoized(t *testing.T) {
	completer := &mockCompleter{response: validResponse}
	s := NewService(completer, cache.NewMemo(), nil)
	ctx := context.Background()

	first, _ := s.ScoreAnswers(ctx, testQuestions(), testAnswers())
	second, _ := s.ScoreAnswers(ctx, testQuestions(), testAnswers())
	if completer.calls != 1 {
		t.Fatalf("identical content must hit the memo, got %d calls", completer.calls)
	}
	if first.Scores != second.Scores {
		t.Fatalf("memoized result must match")
	}

	other := testAnswers()
	other["CORE_01"] = session.Answer{Text: "پاسخ متفاوت"}
	_, _ = s.ScoreAnswers(ctx, testQuestions(), other)
	if completer.calls != 2 {
		t.Fatalf("different content must recompute, got %d calls", completer.calls)
	}
}

func TestScoreAnswersNilCompleter(t *testing.T) {
	s := NewService(nil, cache.NewMemo(), nil)
	report, err := s.ScoreAnswers(context.Background(), testQuestions(), testAnswers())
	if err != nil {
		t.Fatalf("nil completer must fall back cleanly: %v", err)
	}
	if report.DegradedReason != "fallback_scoring" {
		t.Fatalf("nil completer must be degraded")
	}
}

func TestFormatAnswer(t *testing.T) {
	if got := FormatAnswer(session.Answer{Text: "فقط متن"}); got != "فقط متن" {
		t.Fatalf("text-only answer mismatch: %q", got)
	}
	got := FormatAnswer(session.Answer{Choices: []string{"الف", "ب"}})
	if got != "انتخاب‌ها: الف، ب" {
		t.Fatalf("choices-only answer mismatch: %q", got)
	}
	got = FormatAnswer(session.Answer{Choices: []string{"الف"}, Text: "توضیح"})
	if got != "انتخاب‌ها: الف | توضیح: توضیح" {
		t.Fatalf("mixed answer mismatch: %q", got)
	}
	if got := FormatAnswer(session.Answer{}); got != "" {
		t.Fatalf("empty answer mismatch: %q", got)
	}
}
