package course

import (
	"sort"
	"strings"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/level"
	"skill-compass/internal/domain/track"
)

// Ordered candidate course codes per track and training level. Codes missing
// from the loaded catalog are skipped at recommendation time, so stale
// entries here degrade instead of breaking.
var trackDefaults = map[string]map[string][]string{
	"content": {
		"A": {"3512100030", "2166100024", "2166100025", "3512100023", "1221100027"},
		"B": {"3512100030", "2166100025", "2511200021", "1221100027"},
		"C": {"2511200021", "2511200005", "2166100025", "2511200022"},
	},
	"automation": {
		"A": {"3512100023", "2421200016", "4132300019", "3512100030"},
		"B": {"2511200021", "2511200020", "2511200003", "2421200016"},
		"C": {"2511200021", "2511200020", "2511200005", "2511200004"},
	},
	"technical": {
		"A": {"3512100023", "3512100030", "4132300019", "2421200016"},
		"B": {"2511200021", "2511200005", "2511200003", "2511200020"},
		"C": {"2511200021", "2511200022", "2511200005", "2511200004", "2511200020"},
	},
}

const lowTimeLimit = 3
const fallbackLimit = 5

// Recommendation is the recommender output: what to take now, and what to
// explicitly defer.
type Recommendation struct {
	RecommendedCourses []string `json:"recommended_courses"`
	BlockedCourses     []string `json:"blocked_courses"`
}

// Recommend builds the course plan for a training level and track. Urgent
// goals pull faster (lower-level) courses to the front; the lowest weekly
// band truncates the plan to three entries; if the static table yields
// nothing that exists in the catalog, the whole catalog is scanned so the
// result is never empty while the catalog has usable entries. Higher-level
// courses of the same track come back as blocked: the learner is told to
// defer them, and the job matcher must never suggest them as unlocks.
func Recommend(trainingLevel, trackName, weeklyTime, goal string, courses catalog.Courses) Recommendation {
	levelKey := normalizeLevel(trainingLevel)
	byLevel, ok := trackDefaults[trackName]
	if !ok {
		byLevel = trackDefaults["automation"]
	}

	recommended := filterToCatalog(byLevel[levelKey], courses)

	if isUrgentGoal(goal) {
		recommended = stableByLevelRank(recommended, courses)
	}
	if track.IsLowTimeBand(weeklyTime) && len(recommended) > lowTimeLimit {
		recommended = recommended[:lowTimeLimit]
	}

	if len(recommended) == 0 {
		recommended = scanCatalog(levelKey, courses)
	}

	return Recommendation{
		RecommendedCourses: dedupe(recommended),
		BlockedCourses:     blockedFor(levelKey, byLevel, recommended, courses),
	}
}

func normalizeLevel(trainingLevel string) string {
	switch strings.ToUpper(trainingLevel) {
	case "B":
		return "B"
	case "C":
		return "C"
	default:
		return "A"
	}
}

func isUrgentGoal(goal string) bool {
	return goal == "quick_income" || goal == "درآمد سریع"
}

func filterToCatalog(codes []string, courses catalog.Courses) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := courses[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// stableByLevelRank reorders without filtering: lower level-hint ranks
// (faster, lower-effort courses) first, original order preserved on ties.
func stableByLevelRank(codes []string, courses catalog.Courses) []string {
	out := make([]string, len(codes))
	copy(out, codes)
	sort.SliceStable(out, func(i, j int) bool {
		return courses.LevelRank(out[i]) < courses.LevelRank(out[j])
	})
	return out
}

// scanCatalog is the safety net when the static table matches nothing:
// take catalog codes at or below the requested level, ordered by
// (level rank, code), capped.
func scanCatalog(levelKey string, courses catalog.Courses) []string {
	allowedRank := level.Rank(levelKey)
	out := make([]string, 0, fallbackLimit)
	for _, code := range courses.SortedCodes() {
		if courses.LevelRank(code) <= allowedRank {
			out = append(out, code)
		}
		if len(out) >= fallbackLimit {
			break
		}
	}
	return out
}

// blockedFor collects the same track's higher-level table entries the
// learner should defer. Codes already recommended are never blocked.
func blockedFor(levelKey string, byLevel map[string][]string, recommended []string, courses catalog.Courses) []string {
	currentRank := level.Rank(levelKey)
	picked := make(map[string]bool, len(recommended))
	for _, code := range recommended {
		picked[code] = true
	}

	var blocked []string
	for _, lvl := range []string{"A", "B", "C"} {
		if level.Rank(lvl) <= currentRank {
			continue
		}
		for _, code := range byLevel[lvl] {
			if picked[code] {
				continue
			}
			if _, ok := courses[code]; !ok {
				continue
			}
			blocked = append(blocked, code)
		}
	}
	return dedupe(blocked)
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
