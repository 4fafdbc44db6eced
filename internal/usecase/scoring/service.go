package scoring

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/infrastructure/cache"
	"skill-compass/internal/infrastructure/llm"
)

const systemPrompt = "You are a Persian interview analyst. Return STRICT JSON only, no markdown."

const userPromptTemplate = `Analyze the following answers and return strict JSON in this schema:
{
  "scores": {"problem_solving":0..5,"execution":0..5,"learning":0..5,"planning":0..5,"ai_mindset":0..5},
  "rationales_fa": {"problem_solving":"...","execution":"...","learning":"...","planning":"...","ai_mindset":"..."},
  "improvements_fa": ["...","...","..."],
  "summary_fa": "..."
}

Rules:
- Use Persian in rationales, improvements, and summary_fa.
- summary_fa should be 2-4 short sentences.

Answers:
`

// Completer is the chat-completion dependency. The llm.Client satisfies it;
// tests plug in a canned one.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Report is the scored interview: the five dimensions plus the model's
// Persian commentary. DegradedReason is set when the deterministic fallback
// produced the scores.
type Report struct {
	Scores         scores.Set        `json:"scores"`
	RationalesFa   map[string]string `json:"rationales_fa"`
	ImprovementsFa []string          `json:"improvements_fa"`
	SummaryFa      string            `json:"summary_fa"`
	DegradedReason string            `json:"degraded_reason,omitempty"`
}

// Service scores interview answers. Identical answer content never triggers
// a second model call: results are memoized by content hash.
type Service struct {
	llm    Completer
	memo   *cache.Memo
	logger *log.Logger
}

func NewService(completer Completer, memo *cache.Memo, logger *log.Logger) *Service {
	if memo == nil {
		memo = cache.NewMemo()
	}
	return &Service{llm: completer, memo: memo, logger: logger}
}

// ScoreAnswers combines the question/answer pairs into one Persian
// transcript, asks the model for structured scores, and falls back to the
// keyword scorer on any failure. The fallback result is cached too, so a
// flaky upstream cannot flip scores between calls.
func (s *Service) ScoreAnswers(ctx context.Context, questions []catalog.Question, answers map[string]session.Answer) (Report, error) {
	combined := CombinedText(questions, answers)
	key := cache.ContentKey("scores", combined)

	value, err := s.memo.GetOrCompute(key, func() (any, error) {
		return s.score(ctx, combined), nil
	})
	if err != nil {
		return fallbackReport(combined), nil
	}
	report, ok := value.(Report)
	if !ok {
		return fallbackReport(combined), nil
	}
	return report, nil
}

func (s *Service) score(ctx context.Context, combined string) Report {
	if s.llm != nil {
		content, err := s.llm.Complete(ctx, systemPrompt, userPromptTemplate+combined)
		if err == nil {
			if report, ok := parseModelReport(content); ok {
				return report
			}
			if s.logger != nil {
				s.logger.Printf("[Scoring] model response failed validation, using fallback")
			}
		} else if s.logger != nil {
			s.logger.Printf("[Scoring] model call failed, using fallback: %v", err)
		}
	}
	return fallbackReport(combined)
}

// CombinedText renders the transcript the model sees: one question/answer
// block per selected question, in selection order.
func CombinedText(questions []catalog.Question, answers map[string]session.Answer) string {
	parts := make([]string, 0, len(questions))
	for _, q := range questions {
		answer := answers[q.ID]
		parts = append(parts, "سوال: "+q.TextFa+"\nپاسخ: "+FormatAnswer(answer)+"\n")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// FormatAnswer flattens a checkbox+text answer to one line.
func FormatAnswer(answer session.Answer) string {
	if len(answer.Choices) > 0 {
		joined := strings.Join(answer.Choices, "، ")
		if answer.Text != "" {
			return "انتخاب‌ها: " + joined + " | توضیح: " + answer.Text
		}
		return "انتخاب‌ها: " + joined
	}
	return answer.Text
}

type modelReport struct {
	Scores         map[string]any    `json:"scores"`
	RationalesFa   map[string]string `json:"rationales_fa"`
	ImprovementsFa []string          `json:"improvements_fa"`
	SummaryFa      string            `json:"summary_fa"`
}

// parseModelReport validates the model output. A response without a scores
// object is rejected outright; missing commentary fields degrade to empty
// values rather than failing the whole report.
func parseModelReport(content string) (Report, bool) {
	body, ok := llm.ExtractJSON(content)
	if !ok {
		return Report{}, false
	}
	var parsed modelReport
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return Report{}, false
	}
	if parsed.Scores == nil {
		return Report{}, false
	}

	report := Report{
		Scores:         scores.FromMap(parsed.Scores),
		RationalesFa:   parsed.RationalesFa,
		ImprovementsFa: parsed.ImprovementsFa,
		SummaryFa:      parsed.SummaryFa,
	}
	if report.RationalesFa == nil {
		report.RationalesFa = emptyRationales()
	}
	if report.ImprovementsFa == nil {
		report.ImprovementsFa = []string{}
	}
	return report, true
}

func fallbackReport(combined string) Report {
	return Report{
		Scores:       scores.ScoreText(combined),
		RationalesFa: fallbackRationales(),
		ImprovementsFa: []string{
			"مثال‌های عملی‌تر و جزئیات بیشتری اضافه کن.",
			"معیارهای تصمیم‌گیریت را واضح‌تر بیان کن.",
			"گام‌های اجرا را منظم‌تر توضیح بده.",
		},
		SummaryFa:      "بر اساس پاسخ‌ها، سطح آمادگی فعلی مشخص شد و مسیرهای بهبود پیشنهاد می‌شود.",
		DegradedReason: "fallback_scoring",
	}
}

func fallbackRationales() map[string]string {
	out := make(map[string]string, len(scores.Dimensions))
	for _, dim := range scores.Dimensions {
		out[dim] = "جمع‌بندی اولیه بر اساس متن پاسخ‌ها انجام شد."
	}
	return out
}

func emptyRationales() map[string]string {
	out := make(map[string]string, len(scores.Dimensions))
	for _, dim := range scores.Dimensions {
		out[dim] = ""
	}
	return out
}
