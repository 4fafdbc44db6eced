package course

import (
	"testing"

	"skill-compass/internal/catalog"
)

func testCatalog() catalog.Courses {
	return catalog.Courses{
		"3512100030": {TitleFa: "تولید محتوا با ابزارهای هوش مصنوعی", LevelHint: "A"},
		"3512100023": {TitleFa: "کاربر ابزارهای هوش مصنوعی", LevelHint: "A"},
		"4132300019": {TitleFa: "اپراتور درج و پاکسازی داده", LevelHint: "A"},
		"2166100024": {TitleFa: "طراحی گرافیک با ابزارهای هوش مصنوعی", LevelHint: "A"},
		"2166100025": {TitleFa: "تولید محتوای چندرسانه‌ای با هوش مصنوعی", LevelHint: "A"},
		"2421200016": {TitleFa: "بهبود کارهای اداری با ابزارهای هوش مصنوعی", LevelHint: "A"},
		"1221100027": {TitleFa: "سرپرستی شبکه‌های اجتماعی", LevelHint: "A"},
		"2511200021": {TitleFa: "برنامه‌نویسی مقدماتی پایتون", LevelHint: "B"},
		"2511200020": {TitleFa: "اتوماسیون فرایندها با پایتون", LevelHint: "B"},
		"2511200005": {TitleFa: "تحلیل داده با پایتون", LevelHint: "B"},
		"2511200003": {TitleFa: "پایگاه داده و SQL کاربردی", LevelHint: "B"},
		"2511200004": {TitleFa: "یادگیری ماشین کاربردی", LevelHint: "C"},
		"2511200022": {TitleFa: "یادگیری عمیق و شبکه‌های عصبی", LevelHint: "C"},
	}
}

func contains(list []string, code string) bool {
	for _, c := range list {
		if c == code {
			return true
		}
	}
	return false
}

func TestRecommendContentA(t *testing.T) {
	rec := Recommend("A", "content", "", "", testCatalog())
	for _, code := range []string{"3512100030", "2166100024", "2166100025", "3512100023"} {
		if !contains(rec.RecommendedCourses, code) {
			t.Fatalf("content/A plan missing %s: %v", code, rec.RecommendedCourses)
		}
	}
}

func TestRecommendLowTimeTruncates(t *testing.T) {
	rec := Recommend("A", "automation", "۱–۲ ساعت", "", testCatalog())
	if len(rec.RecommendedCourses) > 3 {
		t.Fatalf("low weekly band must cap the plan at 3, got %d", len(rec.RecommendedCourses))
	}
	if len(rec.RecommendedCourses) == 0 {
		t.Fatalf("plan must not be empty")
	}
}

func TestRecommendUrgentGoalPrefersFasterCourses(t *testing.T) {
	rec := Recommend("C", "technical", "", "quick_income", testCatalog())
	courses := testCatalog()
	for i := 1; i < len(rec.RecommendedCourses); i++ {
		prev := courses.LevelRank(rec.RecommendedCourses[i-1])
		cur := courses.LevelRank(rec.RecommendedCourses[i])
		if prev > cur {
			t.Fatalf("urgent goal must order by level rank ascending: %v", rec.RecommendedCourses)
		}
	}
}

func TestRecommendUrgentReorderIsStable(t *testing.T) {
	plain := Recommend("B", "technical", "", "", testCatalog())
	urgent := Recommend("B", "technical", "", "درآمد سریع", testCatalog())
	// All B-level entries: a stable reorder by equal ranks must not move anything.
	if len(plain.RecommendedCourses) != len(urgent.RecommendedCourses) {
		t.Fatalf("reorder must not add or drop entries")
	}
	for i := range plain.RecommendedCourses {
		if plain.RecommendedCourses[i] != urgent.RecommendedCourses[i] {
			t.Fatalf("equal-rank entries must keep their order: %v vs %v",
				plain.RecommendedCourses, urgent.RecommendedCourses)
		}
	}
}

func TestRecommendNeverEmptyOnNonEmptyCatalog(t *testing.T) {
	// A catalog that shares no codes with the static tables.
	strange := catalog.Courses{
		"900": {TitleFa: "دوره نهصد", LevelHint: "A"},
		"901": {TitleFa: "دوره دیگر", LevelHint: "B"},
	}
	for _, lvl := range []string{"A", "B", "C", "Z", ""} {
		rec := Recommend(lvl, "content", "", "", strange)
		if len(rec.RecommendedCourses) == 0 {
			t.Fatalf("level %q: recommendations must not be empty for a non-empty catalog", lvl)
		}
	}
}

func TestRecommendFallbackRespectsLevelCeiling(t *testing.T) {
	strange := catalog.Courses{
		"900": {TitleFa: "پایه", LevelHint: "A"},
		"901": {TitleFa: "میانی", LevelHint: "B"},
		"902": {TitleFa: "پیشرفته", LevelHint: "C"},
	}
	rec := Recommend("A", "content", "", "", strange)
	if contains(rec.RecommendedCourses, "901") || contains(rec.RecommendedCourses, "902") {
		t.Fatalf("fallback for level A must not recommend higher-level codes: %v", rec.RecommendedCourses)
	}
}

func TestRecommendUnknownTrackFallsBackToAutomation(t *testing.T) {
	unknown := Recommend("A", "astronomy", "", "", testCatalog())
	automation := Recommend("A", "automation", "", "", testCatalog())
	if len(unknown.RecommendedCourses) != len(automation.RecommendedCourses) {
		t.Fatalf("unknown track must use the automation table")
	}
	for i := range unknown.RecommendedCourses {
		if unknown.RecommendedCourses[i] != automation.RecommendedCourses[i] {
			t.Fatalf("unknown track must use the automation table")
		}
	}
}

func TestRecommendBlockedHigherLevelCourses(t *testing.T) {
	rec := Recommend("A", "technical", "", "", testCatalog())
	if !contains(rec.BlockedCourses, "2511200021") {
		t.Fatalf("level A technical must defer the python course: %v", rec.BlockedCourses)
	}
	for _, code := range rec.BlockedCourses {
		if contains(rec.RecommendedCourses, code) {
			t.Fatalf("blocked list must not overlap recommendations: %s", code)
		}
	}
}

func TestRecommendDeduplicates(t *testing.T) {
	rec := Recommend("C", "technical", "", "", testCatalog())
	seen := make(map[string]bool)
	for _, code := range rec.RecommendedCourses {
		if seen[code] {
			t.Fatalf("duplicate recommendation %s", code)
		}
		seen[code] = true
	}
}
