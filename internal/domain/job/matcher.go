package job

import (
	"math"
	"sort"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/level"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/domain/session"
)

// Weighting of the two fit components. Concrete course completion counts for
// nearly twice as much as self-reported soft-skill alignment.
const (
	courseFitWeight = 0.65
	softFitWeight   = 0.35
)

const defaultUnlockLimit = 3

// Match is one entry of the reachable-jobs list.
type Match struct {
	JobID               string   `json:"job_id"`
	TitleFa             string   `json:"title_fa"`
	Level               string   `json:"level"`
	Domain              string   `json:"domain"`
	MatchScore          int      `json:"match_score"`
	WhyFa               []string `json:"why_fa"`
	MissingCourses      []string `json:"missing_courses"`
	NextCoursesToUnlock []string `json:"next_courses_to_unlock"`
}

// NextLevelMatch is the lighter payload for jobs one level above the
// learner: only the unlock path, no missing-course listing.
type NextLevelMatch struct {
	JobID      string   `json:"job_id"`
	TitleFa    string   `json:"title_fa"`
	Level      string   `json:"level"`
	Domain     string   `json:"domain"`
	MatchScore int      `json:"match_score"`
	WhyFa      []string `json:"why_fa"`
	UnlockWith []string `json:"unlock_with"`
}

// Mapping partitions the rule catalog into jobs reachable now and jobs one
// training level away. Jobs two or more levels above stay invisible.
type Mapping struct {
	ReachableJobs []Match          `json:"reachable_jobs"`
	NextLevelJobs []NextLevelMatch `json:"next_level_jobs"`
}

// Matcher scores job rules against a session gap. It holds only immutable
// reference data and is safe to share.
type Matcher struct {
	rules   []catalog.JobRule
	courses catalog.Courses
}

func NewMatcher(rules catalog.Rules) *Matcher {
	return &Matcher{rules: rules.JobRules, courses: rules.CourseCatalog}
}

// MapJobs computes match scores for every rule and buckets the results by
// the gap's training level. Identical inputs always produce identical
// output: sorting is stable and there is no randomness anywhere.
func (m *Matcher) MapJobs(gap session.Gap, topK int) Mapping {
	if topK < 0 {
		topK = 0
	}

	userCodes := toSet(gap.RecommendedCourses)
	blocked := toSet(gap.BlockedCourses)
	currentRank := level.Rank(gap.TrainingLevel)

	reachable := make([]Match, 0, len(m.rules))
	nextLevel := make([]NextLevelMatch, 0)

	for _, rule := range m.rules {
		rank := level.Rank(rule.Level)
		fit := m.courseFit(rule, userCodes)
		soft := softFit(gap.InterviewScores, rule.SoftTargets)
		score := clampScore(int(math.Round(courseFitWeight*float64(fit.coverage) + softFitWeight*float64(soft))))

		next := withoutBlocked(fit.next, blocked)
		why := m.buildWhyFa(rule, fit, soft, gap.InterviewScores)

		switch {
		case rank <= currentRank:
			reachable = append(reachable, Match{
				JobID:               rule.JobID,
				TitleFa:             rule.TitleFa,
				Level:               rule.Level,
				Domain:              rule.Domain,
				MatchScore:          score,
				WhyFa:               why,
				MissingCourses:      fit.missing,
				NextCoursesToUnlock: next,
			})
		case rank == currentRank+1:
			nextLevel = append(nextLevel, NextLevelMatch{
				JobID:      rule.JobID,
				TitleFa:    rule.TitleFa,
				Level:      rule.Level,
				Domain:     rule.Domain,
				MatchScore: score,
				WhyFa:      why,
				UnlockWith: next,
			})
		}
	}

	sort.SliceStable(reachable, func(i, j int) bool {
		return reachable[i].MatchScore > reachable[j].MatchScore
	})
	sort.SliceStable(nextLevel, func(i, j int) bool {
		return nextLevel[i].MatchScore > nextLevel[j].MatchScore
	})

	if len(reachable) > topK {
		reachable = reachable[:topK]
	}
	if len(nextLevel) > topK {
		nextLevel = nextLevel[:topK]
	}

	return Mapping{ReachableJobs: reachable, NextLevelJobs: nextLevel}
}

type courseFit struct {
	coverage  int
	satisfied []string
	missing   []string
	next      []string
}

// courseFit splits coverage 70/20/10 across the three requirement classes.
// An empty class contributes its full share.
func (m *Matcher) courseFit(rule catalog.JobRule, userCodes map[string]bool) courseFit {
	satisfiedAll := intersect(rule.RequiredAll, userCodes)
	satisfiedAny := intersect(rule.RequiredAny, userCodes)
	satisfiedNice := intersect(rule.NiceToHave, userCodes)

	allPart := 70.0
	if len(rule.RequiredAll) > 0 {
		allPart = float64(len(satisfiedAll)) / float64(len(rule.RequiredAll)) * 70.0
	}
	anyPart := 0.0
	if len(rule.RequiredAny) == 0 || len(satisfiedAny) > 0 {
		anyPart = 20.0
	}
	nicePart := 10.0
	if len(rule.NiceToHave) > 0 {
		nicePart = float64(len(satisfiedNice)) / float64(len(rule.NiceToHave)) * 10.0
	}

	missing := missingCodes(rule, satisfiedAny, userCodes)

	return courseFit{
		coverage:  clampScore(int(math.Round(allPart + anyPart + nicePart))),
		satisfied: dedupe(append(append([]string{}, satisfiedAll...), satisfiedAny...)),
		missing:   missing,
		next:      m.prioritizeMissing(rule.RequiredAll, missing),
	}
}

func missingCodes(rule catalog.JobRule, satisfiedAny []string, userCodes map[string]bool) []string {
	missing := make([]string, 0, len(rule.RequiredAll)+len(rule.RequiredAny))
	for _, code := range rule.RequiredAll {
		if !userCodes[code] {
			missing = append(missing, code)
		}
	}
	if len(rule.RequiredAny) > 0 && len(satisfiedAny) == 0 {
		missing = append(missing, rule.RequiredAny...)
	}
	return dedupe(missing)
}

// prioritizeMissing orders unlock candidates by (catalog level rank, hard
// requirements first, code) and keeps the top three.
func (m *Matcher) prioritizeMissing(requiredAll, missing []string) []string {
	inRequiredAll := toSet(requiredAll)
	out := dedupe(missing)
	sort.Slice(out, func(i, j int) bool {
		ri, rj := m.courses.LevelRank(out[i]), m.courses.LevelRank(out[j])
		if ri != rj {
			return ri < rj
		}
		hi, hj := 0, 0
		if !inRequiredAll[out[i]] {
			hi = 1
		}
		if !inRequiredAll[out[j]] {
			hj = 1
		}
		if hi != hj {
			return hi < hj
		}
		return out[i] < out[j]
	})
	if len(out) > defaultUnlockLimit {
		out = out[:defaultUnlockLimit]
	}
	return out
}

// softFit measures how close the scores are to the rule's targets: each
// dimension loses gap/5, the mean is scaled to 0..100.
func softFit(user, targets scores.Set) int {
	total := 0.0
	for _, dim := range scores.Dimensions {
		gap := targets.Dim(dim) - user.Dim(dim)
		if gap < 0 {
			gap = 0
		}
		total += 1.0 - float64(gap)/5.0
	}
	return clampScore(int(math.Round(total / float64(len(scores.Dimensions)) * 100)))
}

// buildWhyFa produces the ordered explanation bullets: covered courses,
// remaining courses, at most two soft gaps, and an encouragement line when
// the soft fit is weak.
func (m *Matcher) buildWhyFa(rule catalog.JobRule, fit courseFit, soft int, user scores.Set) []string {
	reasons := make([]string, 0, 4)

	if len(fit.satisfied) > 0 {
		reasons = append(reasons, "دوره های پوشش داده شده: "+joinTitles(fit.satisfied, m.courses))
	} else {
		reasons = append(reasons, "هنوز دوره کلیدی از الزامات این نقش پوشش داده نشده است.")
	}

	if len(fit.missing) > 0 {
		reasons = append(reasons, "دوره های باقی مانده: "+joinTitles(fit.missing, m.courses))
	}

	if gaps := softGaps(user, rule.SoftTargets); len(gaps) > 0 {
		if len(gaps) > 2 {
			gaps = gaps[:2]
		}
		reasons = append(reasons, "نیاز به تقویت: "+joinFa(gaps)+".")
	} else {
		reasons = append(reasons, "مهارت های نرم در حد مطلوب است.")
	}

	if soft < 60 {
		reasons = append(reasons, "تقویت مهارت های نرم می تواند شانس موفقیت را بالا ببرد.")
	}

	return reasons
}

func softGaps(user, targets scores.Set) []string {
	var gaps []string
	for _, dim := range scores.Dimensions {
		if user.Dim(dim) < targets.Dim(dim) {
			gaps = append(gaps, scores.LabelsFa[dim])
		}
	}
	return gaps
}

func joinTitles(codes []string, courses catalog.Courses) string {
	titles := make([]string, 0, len(codes))
	for _, code := range dedupe(codes) {
		titles = append(titles, courses.Title(code))
	}
	out := ""
	for i, title := range titles {
		if i > 0 {
			out += ", "
		}
		out += title
	}
	return out
}

func joinFa(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "، "
		}
		out += item
	}
	return out
}

func withoutBlocked(codes []string, blocked map[string]bool) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if blocked[code] {
			continue
		}
		out = append(out, code)
	}
	return out
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func intersect(codes []string, set map[string]bool) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if set[code] {
			out = append(out, code)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
