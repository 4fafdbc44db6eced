package feedback

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/job"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/infrastructure/cache"
	"skill-compass/internal/infrastructure/llm"
)

// Completer is the chat-completion dependency, same shape as the scoring
// service uses.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CourseRef names one course inside a plan phase.
type CourseRef struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Why   string `json:"why,omitempty"`
}

// PlanPhase is one stage of the study plan.
type PlanPhase struct {
	Phase   string      `json:"phase"`
	Courses []CourseRef `json:"courses"`
}

// ActionBlock is a titled set of concrete steps with a timeframe.
type ActionBlock struct {
	Title     string   `json:"title"`
	Timeframe string   `json:"timeframe"`
	Steps     []string `json:"steps"`
}

// JobRef is one job inside the path section.
type JobRef struct {
	Title      string   `json:"title"`
	Why        string   `json:"why,omitempty"`
	UnlockWith []string `json:"unlock_with,omitempty"`
}

// JobPath summarizes where the learner can go.
type JobPath struct {
	TargetJob struct {
		Title  string `json:"title"`
		WhyFit string `json:"why_fit"`
	} `json:"target_job"`
	ReachableNow []JobRef `json:"reachable_now"`
	NextLevel    []JobRef `json:"next_level"`
}

// Report is the user-facing feedback document. Every field is Persian.
type Report struct {
	SummaryFa      string        `json:"summary_fa"`
	StrengthsFa    []string      `json:"strengths_fa"`
	GapsFa         []string      `json:"gaps_fa"`
	NextActionsFa  []ActionBlock `json:"next_actions_fa"`
	CoursePlanFa   []PlanPhase   `json:"course_plan_fa"`
	JobPathFa      JobPath       `json:"job_path_fa"`
	WarningsFa     []string      `json:"warnings_fa"`
	DegradedReason string        `json:"degraded_reason,omitempty"`
}

// Input is everything the report is built from.
type Input struct {
	Gap       session.Gap
	Questions []catalog.Question
	Answers   map[string]session.Answer
	Jobs      job.Mapping
}

// Service turns an evaluation into a Persian feedback report, preferring the
// model but never depending on it: any validation failure yields the
// deterministic fallback, and both outcomes are memoized by content.
type Service struct {
	llm     Completer
	courses catalog.Courses
	memo    *cache.Memo
	redis   *cache.Redis
	logger  *log.Logger
}

func NewService(completer Completer, courses catalog.Courses, memo *cache.Memo, logger *log.Logger) *Service {
	if memo == nil {
		memo = cache.NewMemo()
	}
	return &Service{llm: completer, courses: courses, memo: memo, logger: logger}
}

// WithSharedCache adds a Redis layer behind the in-process memo so replicas
// share generated reports.
func (s *Service) WithSharedCache(redis *cache.Redis) *Service {
	s.redis = redis
	return s
}

func (s *Service) Generate(ctx context.Context, in Input) (Report, error) {
	key := s.cacheKey(in)
	value, err := s.memo.GetOrCompute(key, func() (any, error) {
		var cached Report
		if hit, err := s.redis.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
		report := s.generate(ctx, in)
		_ = s.redis.SetJSON(ctx, key, report, 0)
		return report, nil
	})
	if err != nil {
		return s.fallback(in), nil
	}
	report, ok := value.(Report)
	if !ok {
		return s.fallback(in), nil
	}
	return report, nil
}

func (s *Service) generate(ctx context.Context, in Input) Report {
	if s.llm != nil {
		content, err := s.llm.Complete(ctx, "", s.buildPrompt(in))
		if err == nil {
			if report, ok := s.validate(content, in.Gap); ok {
				return report
			}
			if s.logger != nil {
				s.logger.Printf("[Feedback] model report failed validation, using fallback")
			}
		} else if s.logger != nil {
			s.logger.Printf("[Feedback] model call failed, using fallback: %v", err)
		}
	}
	return s.fallback(in)
}

const promptTemplate = `تو یک مربی مسیر شغلی هستی. بر اساس داده‌های زیر یک گزارش بازخورد فارسی بساز و فقط JSON معتبر برگردان، بدون markdown:
{
  "summary_fa": "...",
  "strengths_fa": ["..."],
  "gaps_fa": ["..."],
  "next_actions_fa": [{"title": "...", "timeframe": "...", "steps": ["..."]}],
  "course_plan_fa": [{"phase": "...", "courses": [{"code": "...", "title": "...", "why": "..."}]}],
  "job_path_fa": {"target_job": {"title": "...", "why_fit": "..."}, "reachable_now": [{"title": "...", "why": "..."}], "next_level": [{"title": "...", "unlock_with": ["..."]}]},
  "warnings_fa": []
}
فقط از کدهای دوره‌های پیشنهادشده استفاده کن.

سطح آموزشی: `

func (s *Service) buildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString(promptTemplate)
	b.WriteString(in.Gap.TrainingLevel)
	b.WriteString("\nمسیر: ")
	b.WriteString(in.Gap.Track)

	b.WriteString("\nپروفایل: ")
	b.Write(mustJSON(in.Gap.Profile))
	b.WriteString("\nامتیازهای مصاحبه: ")
	b.Write(mustJSON(in.Gap.InterviewScores))
	b.WriteString("\nپاسخ‌های مصاحبه: ")
	b.Write(mustJSON(s.answersPayload(in.Questions, in.Answers)))
	b.WriteString("\nدوره‌های پیشنهادی: ")
	b.Write(mustJSON(s.coursesWithTitles(in.Gap.RecommendedCourses, false)))
	b.WriteString("\nشغل‌های قابل دسترس: ")
	b.Write(mustJSON(topJobs(in.Jobs.ReachableJobs)))
	b.WriteString("\nشغل‌های سطح بعد: ")
	b.Write(mustJSON(topNextJobs(in.Jobs.NextLevelJobs)))
	return b.String()
}

type answerItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// answersPayload keeps only the core questions when any are present, the
// same trimming the interview page does before display.
func (s *Service) answersPayload(questions []catalog.Question, answers map[string]session.Answer) []answerItem {
	if len(questions) == 0 || len(answers) == 0 {
		return []answerItem{}
	}
	useCore := false
	for _, q := range questions {
		if strings.HasPrefix(q.ID, "CORE_") {
			useCore = true
			break
		}
	}
	items := make([]answerItem, 0, len(questions))
	for _, q := range questions {
		if useCore && !strings.HasPrefix(q.ID, "CORE_") {
			continue
		}
		items = append(items, answerItem{
			ID:       q.ID,
			Question: q.TextFa,
			Answer:   answerToText(answers[q.ID]),
		})
	}
	return items
}

func answerToText(answer session.Answer) string {
	if len(answer.Choices) > 0 {
		joined := strings.Join(answer.Choices, "، ")
		if answer.Text != "" {
			return joined + " | " + answer.Text
		}
		return joined
	}
	return answer.Text
}

// validate parses the model reply and enforces the report schema. The
// course plan is filtered against the recommended codes so the model cannot
// smuggle courses the learner was never recommended.
func (s *Service) validate(content string, gapRecord session.Gap) (Report, bool) {
	body, ok := llm.ExtractJSON(content)
	if !ok {
		return Report{}, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return Report{}, false
	}
	for _, key := range []string{"summary_fa", "strengths_fa", "gaps_fa", "next_actions_fa", "course_plan_fa", "job_path_fa"} {
		if _, present := raw[key]; !present {
			return Report{}, false
		}
	}

	var report Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return Report{}, false
	}
	if report.StrengthsFa == nil || report.GapsFa == nil || report.NextActionsFa == nil || report.CoursePlanFa == nil {
		return Report{}, false
	}
	if report.WarningsFa == nil {
		report.WarningsFa = []string{}
	}

	allowed := make(map[string]bool, len(gapRecord.RecommendedCourses))
	for _, code := range gapRecord.RecommendedCourses {
		allowed[code] = true
	}
	report.CoursePlanFa = filterCoursePlan(report.CoursePlanFa, allowed)
	return report, true
}

func filterCoursePlan(plan []PlanPhase, allowed map[string]bool) []PlanPhase {
	cleaned := make([]PlanPhase, 0, len(plan))
	for _, phase := range plan {
		courses := make([]CourseRef, 0, len(phase.Courses))
		for _, course := range phase.Courses {
			code := strings.TrimSpace(course.Code)
			if code != "" && allowed[code] {
				course.Code = code
				courses = append(courses, course)
			}
		}
		cleaned = append(cleaned, PlanPhase{Phase: phase.Phase, Courses: courses})
	}
	return cleaned
}

// fallback builds the full deterministic report: summary per level, the two
// weakest dimensions as gaps, fixed week/fortnight action blocks, a
// two-phase course plan and the job path from the mapping.
func (s *Service) fallback(in Input) Report {
	recommended := in.Gap.RecommendedCourses

	report := Report{
		SummaryFa:   summaryForLevel(in.Gap.TrainingLevel),
		StrengthsFa: []string{},
		GapsFa:      weakestDimensions(in.Gap.InterviewScores, 3),
		NextActionsFa: []ActionBlock{
			{
				Title:     "کارهای این هفته",
				Timeframe: "۷ روز",
				Steps: []string{
					"روزانه ۲۰ دقیقه تمرین با ابزارهای ساده هوش مصنوعی",
					"یک نمونه خروجی کوتاه (متن/تصویر) بساز و بازبینی کن",
				},
			},
			{
				Title:     "کارهای دو هفته آینده",
				Timeframe: "۱۴ روز",
				Steps: []string{
					"یک مثال واقعی از کار یا علاقه خودت را با AI انجام بده",
					"برای شروع دوره‌های پیشنهادی برنامه‌ریزی کن",
				},
			},
		},
		CoursePlanFa: []PlanPhase{
			{Phase: "شروع سریع", Courses: s.coursesWithTitles(firstN(recommended, 2), true)},
			{Phase: "مرحله ارتقا", Courses: s.coursesWithTitles(skipN(recommended, 2), true)},
		},
		JobPathFa:      jobPathFromMapping(in.Jobs),
		WarningsFa:     []string{},
		DegradedReason: "fallback_feedback",
	}
	return report
}

func summaryForLevel(levelName string) string {
	switch levelName {
	case "A":
		return "الان در سطح شروع هستی. تمرکز روی پایه‌ها و استفاده درست از ابزارها مهم‌تر از تخصصی‌شدن سریع است."
	case "B":
		return "در سطح میانی هستی و با یک مسیر مشخص می‌توانی به خروجی واقعی برسی."
	default:
		return "سطح تو برای مسیر تخصصی مناسب است؛ حالا باید روی پروژه و عمق یادگیری کار کنی."
	}
}

// gapLabelsFa names the dimensions the way the report phrases them, which
// is not identical to the interview score labels.
var gapLabelsFa = map[string]string{
	"execution":       "مهارت اجرا",
	"problem_solving": "حل مسئله",
	"learning":        "یادگیری",
	"planning":        "برنامه‌ریزی",
	"ai_mindset":      "ذهنیت AI",
}

func weakestDimensions(s scores.Set, count int) []string {
	type item struct {
		value int
		label string
	}
	items := make([]item, 0, len(scores.Dimensions))
	for _, dim := range scores.Dimensions {
		items = append(items, item{value: s.Dim(dim), label: gapLabelsFa[dim]})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].value < items[j].value })
	if count > len(items) {
		count = len(items)
	}
	out := make([]string, 0, count)
	for _, it := range items[:count] {
		out = append(out, it.label)
	}
	return out
}

func jobPathFromMapping(mapping job.Mapping) JobPath {
	var path JobPath
	path.ReachableNow = []JobRef{}
	path.NextLevel = []JobRef{}

	if len(mapping.ReachableJobs) > 0 {
		path.TargetJob.Title = mapping.ReachableJobs[0].TitleFa
		path.TargetJob.WhyFit = "با مسیر فعلی و دوره‌های شروع سریع هم‌خوانی دارد."
	}
	for _, j := range firstJobs(mapping.ReachableJobs, 3) {
		path.ReachableNow = append(path.ReachableNow, JobRef{
			Title: j.TitleFa,
			Why:   "با تکمیل دوره‌های شروع سریع قابل دسترس است.",
		})
	}
	for _, j := range firstNextJobs(mapping.NextLevelJobs, 3) {
		path.NextLevel = append(path.NextLevel, JobRef{
			Title:      j.TitleFa,
			UnlockWith: j.UnlockWith,
		})
	}
	return path
}

func (s *Service) coursesWithTitles(codes []string, includeWhy bool) []CourseRef {
	out := make([]CourseRef, 0, len(codes))
	for _, code := range codes {
		ref := CourseRef{Code: code, Title: s.courses[code].TitleFa}
		if includeWhy {
			ref.Why = "برای تقویت مهارت‌های پایه ضروری است."
		}
		out = append(out, ref)
	}
	return out
}

// cacheKey hashes the parts of the input that influence the report.
func (s *Service) cacheKey(in Input) string {
	payload := map[string]any{
		"scores":      in.Gap.InterviewScores,
		"recommended": in.Gap.RecommendedCourses,
		"reachable":   jobTitles(in.Jobs.ReachableJobs),
		"next_level":  nextJobTitles(in.Jobs.NextLevelJobs),
		"answers":     s.answersPayload(in.Questions, in.Answers),
	}
	return cache.ContentKey("feedback", string(mustJSON(payload)))
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func topJobs(jobs []job.Match) []job.Match { return firstJobs(jobs, 3) }

func topNextJobs(jobs []job.NextLevelMatch) []job.NextLevelMatch { return firstNextJobs(jobs, 3) }

func firstJobs(jobs []job.Match, n int) []job.Match {
	if len(jobs) > n {
		return jobs[:n]
	}
	return jobs
}

func firstNextJobs(jobs []job.NextLevelMatch, n int) []job.NextLevelMatch {
	if len(jobs) > n {
		return jobs[:n]
	}
	return jobs
}

func jobTitles(jobs []job.Match) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range firstJobs(jobs, 3) {
		out = append(out, j.TitleFa)
	}
	return out
}

func nextJobTitles(jobs []job.NextLevelMatch) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range firstNextJobs(jobs, 3) {
		out = append(out, j.TitleFa)
	}
	return out
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

func skipN(values []string, n int) []string {
	if len(values) > n {
		return values[n:]
	}
	return []string{}
}
