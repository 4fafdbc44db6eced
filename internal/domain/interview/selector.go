package interview

import (
	"math/rand"
	"sort"
	"strings"

	"skill-compass/internal/catalog"
)

// DefaultSeed keeps question selection reproducible across runs for the
// same answers and bank.
const DefaultSeed int64 = 42

const DefaultQuestionCount = 5

// constraint is one coverage requirement the selection must satisfy: at
// least need questions matched by the predicate.
type constraint struct {
	name      string
	need      int
	predicate func(catalog.Question) bool
}

// SelectionInput is everything routing-relevant about the learner. Goal and
// preference accept both the canonical English identifiers and the Persian
// questionnaire answers.
type SelectionInput struct {
	DigitalLevel string
	Goal         string
	Preference   string
}

// SelectQuestions picks n questions from the bank so the interview covers
// the dimensions the learner's situation makes important. Selection is a
// greedy cover: each round takes the question satisfying the most still-open
// constraints, breaking ties by weight and then a seeded random draw, so the
// same input always produces the same interview. Low-digital learners get
// the questions rewritten with hints and checkbox options from the
// followups.
func SelectQuestions(in SelectionInput, bank []catalog.Question, n int, seed int64) []catalog.Question {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))

	questions := normalizeBank(bank)
	if len(questions) == 0 {
		return nil
	}

	lowDigital := normalizeDigital(in.DigitalLevel) == "weak"

	if len(questions) <= n {
		picked := pickByWeight(questions, len(questions), rng)
		return finalize(picked, lowDigital)
	}

	constraints := buildConstraints(in)
	counts := make(map[string]int, len(constraints))
	selected := make([]catalog.Question, 0, n)
	selectedIDs := make(map[string]bool, n)

	add := func(q catalog.Question) {
		selected = append(selected, q)
		selectedIDs[q.ID] = true
		for _, c := range constraints {
			if counts[c.name] >= c.need {
				continue
			}
			if c.predicate(q) {
				counts[c.name]++
			}
		}
	}

	for len(selected) < n {
		bestIdx := -1
		bestCover := 0
		bestWeight := -1.0
		bestTie := 0.0
		for i, q := range questions {
			if selectedIDs[q.ID] {
				continue
			}
			cover := 0
			for _, c := range constraints {
				if counts[c.name] >= c.need {
					continue
				}
				if c.predicate(q) {
					cover++
				}
			}
			if cover == 0 {
				continue
			}
			tie := rng.Float64()
			if cover > bestCover ||
				(cover == bestCover && q.Weight > bestWeight) ||
				(cover == bestCover && q.Weight == bestWeight && tie > bestTie) {
				bestIdx = i
				bestCover = cover
				bestWeight = q.Weight
				bestTie = tie
			}
		}
		if bestIdx < 0 {
			break
		}
		add(questions[bestIdx])
	}

	if len(selected) < n {
		remaining := make([]catalog.Question, 0, len(questions))
		for _, q := range questions {
			if !selectedIDs[q.ID] {
				remaining = append(remaining, q)
			}
		}
		for _, q := range pickByWeight(remaining, n-len(selected), rng) {
			selected = append(selected, q)
			selectedIDs[q.ID] = true
		}
	}

	if len(selected) > n {
		selected = selected[:n]
	}
	return finalize(selected, lowDigital)
}

// normalizeBank drops entries without an id, deduplicates by id, lowercases
// the difficulty and defaults non-positive weights to 1.
func normalizeBank(bank []catalog.Question) []catalog.Question {
	seen := make(map[string]bool, len(bank))
	out := make([]catalog.Question, 0, len(bank))
	for _, q := range bank {
		id := strings.TrimSpace(q.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		q.ID = id
		q.Difficulty = strings.ToLower(q.Difficulty)
		if q.Weight <= 0 {
			q.Weight = 1.0
		}
		out = append(out, q)
	}
	return out
}

func pickByWeight(candidates []catalog.Question, count int, rng *rand.Rand) []catalog.Question {
	shuffled := make([]catalog.Question, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	sort.SliceStable(shuffled, func(i, j int) bool {
		return shuffled[i].Weight > shuffled[j].Weight
	})
	if len(shuffled) > count {
		shuffled = shuffled[:count]
	}
	return shuffled
}

func buildConstraints(in SelectionInput) []constraint {
	digital := normalizeDigital(in.DigitalLevel)
	goal := normalizeGoal(in.Goal)
	preference := normalizePreference(in.Preference)

	hasTag := func(tag string) func(catalog.Question) bool {
		return func(q catalog.Question) bool { return q.HasTag(tag) }
	}
	planningOrQuality := func(q catalog.Question) bool {
		return q.HasTag("planning") || q.HasTag("quality")
	}
	problemOrLearning := func(q catalog.Question) bool {
		return q.HasTag("problem_solving") || q.HasTag("learning")
	}

	var out []constraint
	appendConstraint := func(name string, need int, pred func(catalog.Question) bool) {
		if need > 0 {
			out = append(out, constraint{name: name, need: need, predicate: pred})
		}
	}

	digitalNeed := 1
	easyNeed := 0
	if digital == "weak" {
		digitalNeed = 2
		easyNeed = 2
	}
	executionNeed := 1
	if goal == "quick_income" {
		executionNeed = 2
	}
	learningNeed, problemNeed := 0, 0
	if goal == "technical_switch" {
		learningNeed, problemNeed = 1, 1
	}
	planningOrQualityNeed := 0
	if goal == "career_upgrade" {
		planningOrQualityNeed = 1
	}
	problemOrLearningNeed := 1
	if learningNeed > 0 || problemNeed > 0 {
		problemOrLearningNeed = 0
	}

	appendConstraint("digital", digitalNeed, hasTag("digital"))
	appendConstraint("execution", executionNeed, hasTag("execution"))
	appendConstraint("easy", easyNeed, func(q catalog.Question) bool { return q.Difficulty == "easy" })
	appendConstraint("learning", learningNeed, hasTag("learning"))
	appendConstraint("problem_solving", problemNeed, hasTag("problem_solving"))
	appendConstraint("planning_or_quality", planningOrQualityNeed, planningOrQuality)
	appendConstraint("problem_or_learning", problemOrLearningNeed, problemOrLearning)

	switch preference {
	case "content":
		appendConstraint("communication", 1, hasTag("communication"))
	case "automation":
		appendConstraint("preference_planning", 1, planningOrQuality)
	case "technical":
		appendConstraint("preference_problem", 1, problemOrLearning)
	}

	return out
}

func normalizeDigital(value string) string {
	switch strings.TrimSpace(value) {
	case "weak", "ضعیف":
		return "weak"
	case "medium", "متوسط":
		return "medium"
	case "good", "خوب":
		return "good"
	}
	return strings.TrimSpace(value)
}

func normalizeGoal(value string) string {
	switch strings.TrimSpace(value) {
	case "quick_income", "درآمد سریع":
		return "quick_income"
	case "career_upgrade", "ارتقای شغلی":
		return "career_upgrade"
	case "technical_switch", "تغییر مسیر فنی":
		return "technical_switch"
	}
	return strings.TrimSpace(value)
}

func normalizePreference(value string) string {
	switch strings.TrimSpace(value) {
	case "content", "تولید محتوا و شبکه‌های اجتماعی":
		return "content"
	case "automation", "اتوماسیون و بهبود کارهای اداری/گزارش":
		return "automation"
	case "technical", "کار فنی و کدنویسی/حل مسئله":
		return "technical"
	}
	return strings.TrimSpace(value)
}

// finalize applies the low-digital presentation overrides: followups become
// an inline hint and checkbox options so the learner can answer by ticking
// instead of writing.
func finalize(selected []catalog.Question, lowDigital bool) []catalog.Question {
	if !lowDigital {
		return selected
	}
	out := make([]catalog.Question, len(selected))
	for i, q := range selected {
		if q.HintFa == "" && len(q.FollowupsFa) > 0 {
			q.HintFa = strings.Join(q.FollowupsFa, " | ")
		}
		if q.AnswerType == "" {
			q.AnswerType = "checkbox+text"
		}
		if len(q.OptionsFa) == 0 && len(q.FollowupsFa) > 0 {
			q.OptionsFa = q.FollowupsFa
		}
		out[i] = q
	}
	return out
}
