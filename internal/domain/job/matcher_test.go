package job

import (
	"reflect"
	"strings"
	"testing"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/domain/session"
)

func testRules() catalog.Rules {
	return catalog.Rules{
		CourseCatalog: catalog.Courses{
			"3512100030": {TitleFa: "تولید محتوا با ابزارهای هوش مصنوعی", LevelHint: "A"},
			"3512100023": {TitleFa: "کاربر ابزارهای هوش مصنوعی", LevelHint: "A"},
			"2166100024": {TitleFa: "طراحی گرافیک با ابزارهای هوش مصنوعی", LevelHint: "A"},
			"2166100025": {TitleFa: "تولید محتوای چندرسانه‌ای با هوش مصنوعی", LevelHint: "A"},
			"2511200021": {TitleFa: "برنامه‌نویسی مقدماتی پایتون", LevelHint: "B"},
			"2511200005": {TitleFa: "تحلیل داده با پایتون", LevelHint: "B"},
			"2511200004": {TitleFa: "یادگیری ماشین کاربردی", LevelHint: "C"},
		},
		JobRules: []catalog.JobRule{
			{
				JobID:       "JOB_AI_CONTENT_SPECIALIST",
				TitleFa:     "کارشناس تولید محتوا با هوش مصنوعی",
				Level:       "A",
				Domain:      "content",
				RequiredAll: []string{"3512100030"},
				RequiredAny: []string{"2166100024", "2166100025"},
				NiceToHave:  []string{"3512100023"},
				SoftTargets: scores.Set{Execution: 3, ProblemSolving: 2, Learning: 3, Planning: 2, AIMindset: 3},
			},
			{
				JobID:       "JOB_DATA_ANALYST",
				TitleFa:     "تحلیلگر داده",
				Level:       "B",
				Domain:      "data",
				RequiredAll: []string{"2511200021", "2511200005"},
				SoftTargets: scores.Set{Execution: 3, ProblemSolving: 4, Learning: 3, Planning: 3, AIMindset: 3},
			},
			{
				JobID:       "JOB_ML_SPECIALIST",
				TitleFa:     "متخصص یادگیری ماشین",
				Level:       "C",
				Domain:      "machine_learning",
				RequiredAll: []string{"2511200021", "2511200004"},
				SoftTargets: scores.Set{Execution: 4, ProblemSolving: 5, Learning: 4, Planning: 4, AIMindset: 4},
			},
		},
	}
}

func gapA(completed ...string) session.Gap {
	return session.Gap{
		TrainingLevel:      "A",
		ReadinessLevel:     "A",
		Track:              "content",
		InterviewScores:    scores.Set{Execution: 3, ProblemSolving: 3, Learning: 3, Planning: 3, AIMindset: 3},
		RecommendedCourses: completed,
	}
}

func TestMapJobsFullCoverage(t *testing.T) {
	m := NewMatcher(testRules())
	out := m.MapJobs(gapA("3512100030", "2166100024", "3512100023"), 10)

	if len(out.ReachableJobs) != 1 {
		t.Fatalf("expected one reachable job, got %d", len(out.ReachableJobs))
	}
	job := out.ReachableJobs[0]
	if job.JobID != "JOB_AI_CONTENT_SPECIALIST" {
		t.Fatalf("unexpected job %s", job.JobID)
	}
	if len(job.MissingCourses) != 0 {
		t.Fatalf("nothing should be missing: %v", job.MissingCourses)
	}
	if job.MatchScore < 80 || job.MatchScore > 100 {
		t.Fatalf("full coverage with met soft targets should score high, got %d", job.MatchScore)
	}
}

func TestMapJobsBucketsByLevel(t *testing.T) {
	m := NewMatcher(testRules())
	out := m.MapJobs(gapA(), 10)

	for _, job := range out.ReachableJobs {
		if job.Level != "A" {
			t.Fatalf("level A learner must not reach %s job %s", job.Level, job.JobID)
		}
	}
	foundB := false
	for _, job := range out.NextLevelJobs {
		if job.Level == "C" {
			t.Fatalf("a job two levels up must stay invisible: %s", job.JobID)
		}
		if job.JobID == "JOB_DATA_ANALYST" {
			foundB = true
		}
	}
	if !foundB {
		t.Fatalf("the B job must appear one level up: %+v", out.NextLevelJobs)
	}
}

func TestMapJobsNextLevelVisibleFromB(t *testing.T) {
	m := NewMatcher(testRules())
	gap := gapA()
	gap.TrainingLevel = "B"
	out := m.MapJobs(gap, 10)

	ids := make(map[string]bool)
	for _, job := range out.ReachableJobs {
		ids[job.JobID] = true
	}
	if !ids["JOB_AI_CONTENT_SPECIALIST"] || !ids["JOB_DATA_ANALYST"] {
		t.Fatalf("B learner must reach both A and B jobs: %v", ids)
	}
	if len(out.NextLevelJobs) != 1 || out.NextLevelJobs[0].JobID != "JOB_ML_SPECIALIST" {
		t.Fatalf("only the C job belongs to next level: %+v", out.NextLevelJobs)
	}
}

func TestMapJobsMissingAndUnlock(t *testing.T) {
	m := NewMatcher(testRules())
	out := m.MapJobs(gapA(), 10)

	job := out.ReachableJobs[0]
	want := map[string]bool{"3512100030": true, "2166100024": true, "2166100025": true}
	for _, code := range job.MissingCourses {
		if !want[code] {
			t.Fatalf("unexpected missing code %s", code)
		}
	}
	if len(job.MissingCourses) != len(want) {
		t.Fatalf("all unmet requirements must be listed: %v", job.MissingCourses)
	}
	if len(job.NextCoursesToUnlock) > 3 {
		t.Fatalf("unlock list capped at 3, got %v", job.NextCoursesToUnlock)
	}
	if job.NextCoursesToUnlock[0] != "3512100030" {
		t.Fatalf("hard requirements unlock first: %v", job.NextCoursesToUnlock)
	}
}

func TestMapJobsBlockedCoursesNeverSuggested(t *testing.T) {
	m := NewMatcher(testRules())
	gap := gapA()
	gap.TrainingLevel = "B"
	gap.BlockedCourses = []string{"2511200021"}
	out := m.MapJobs(gap, 10)

	for _, job := range out.ReachableJobs {
		for _, code := range job.NextCoursesToUnlock {
			if code == "2511200021" {
				t.Fatalf("blocked course suggested as unlock for %s", job.JobID)
			}
		}
	}
	for _, job := range out.NextLevelJobs {
		for _, code := range job.UnlockWith {
			if code == "2511200021" {
				t.Fatalf("blocked course suggested as unlock for %s", job.JobID)
			}
		}
	}
}

func TestMapJobsScoreBounds(t *testing.T) {
	m := NewMatcher(testRules())
	extremes := []scores.Set{
		{},
		{Execution: 5, ProblemSolving: 5, Learning: 5, Planning: 5, AIMindset: 5},
	}
	for _, s := range extremes {
		gap := gapA()
		gap.TrainingLevel = "C"
		gap.InterviewScores = s
		out := m.MapJobs(gap, 10)
		for _, job := range out.ReachableJobs {
			if job.MatchScore < 0 || job.MatchScore > 100 {
				t.Fatalf("score out of range: %d", job.MatchScore)
			}
		}
	}
}

func TestMapJobsSortedDescendingAndTruncated(t *testing.T) {
	m := NewMatcher(testRules())
	gap := gapA("3512100030", "2166100024")
	gap.TrainingLevel = "C"
	out := m.MapJobs(gap, 10)

	for i := 1; i < len(out.ReachableJobs); i++ {
		if out.ReachableJobs[i-1].MatchScore < out.ReachableJobs[i].MatchScore {
			t.Fatalf("reachable jobs must sort by score descending")
		}
	}

	top1 := m.MapJobs(gap, 1)
	if len(top1.ReachableJobs) != 1 {
		t.Fatalf("top_k must truncate, got %d", len(top1.ReachableJobs))
	}
	if top1.ReachableJobs[0].JobID != out.ReachableJobs[0].JobID {
		t.Fatalf("truncation must keep the best job")
	}

	none := m.MapJobs(gap, -2)
	if len(none.ReachableJobs) != 0 || len(none.NextLevelJobs) != 0 {
		t.Fatalf("negative top_k behaves as zero")
	}
}

func TestMapJobsDeterministic(t *testing.T) {
	m := NewMatcher(testRules())
	gap := gapA("3512100030")
	gap.TrainingLevel = "B"

	first := m.MapJobs(gap, 5)
	for i := 0; i < 10; i++ {
		if again := m.MapJobs(gap, 5); !reflect.DeepEqual(first, again) {
			t.Fatalf("mapping must be deterministic")
		}
	}
}

func TestMapJobsWhyReasons(t *testing.T) {
	m := NewMatcher(testRules())

	out := m.MapJobs(gapA(), 10)
	job := out.ReachableJobs[0]
	if job.WhyFa[0] != "هنوز دوره کلیدی از الزامات این نقش پوشش داده نشده است." {
		t.Fatalf("empty coverage reason mismatch: %q", job.WhyFa[0])
	}

	covered := m.MapJobs(gapA("3512100030", "2166100024", "3512100023"), 10)
	job = covered.ReachableJobs[0]
	if !strings.HasPrefix(job.WhyFa[0], "دوره های پوشش داده شده: ") {
		t.Fatalf("coverage reason mismatch: %q", job.WhyFa[0])
	}
	if !strings.Contains(job.WhyFa[0], "3512100030 (تولید محتوا با ابزارهای هوش مصنوعی)") {
		t.Fatalf("coverage reason must name the course: %q", job.WhyFa[0])
	}
}

func TestMapJobsSoftGapReasonsCapped(t *testing.T) {
	m := NewMatcher(testRules())
	gap := gapA()
	gap.TrainingLevel = "C"
	gap.InterviewScores = scores.Set{}
	out := m.MapJobs(gap, 10)

	for _, job := range out.ReachableJobs {
		for _, reason := range job.WhyFa {
			if strings.HasPrefix(reason, "نیاز به تقویت: ") {
				if strings.Count(reason, "،") > 1 {
					t.Fatalf("soft gap reason lists at most two labels: %q", reason)
				}
			}
		}
		last := job.WhyFa[len(job.WhyFa)-1]
		if last != "تقویت مهارت های نرم می تواند شانس موفقیت را بالا ببرد." {
			t.Fatalf("weak soft fit must add the encouragement line: %v", job.WhyFa)
		}
	}
}

func TestFilterByTrack(t *testing.T) {
	m := NewMatcher(testRules())
	gap := gapA()
	gap.TrainingLevel = "C"
	out := m.MapJobs(gap, 10)

	content := FilterByTrack(out, "content")
	for _, job := range content.ReachableJobs {
		if job.Domain != "content" && job.Domain != "marketing" && job.Domain != "" {
			t.Fatalf("content track leaked domain %s", job.Domain)
		}
	}

	technical := FilterByTrack(out, "technical")
	ids := make(map[string]bool)
	for _, job := range technical.ReachableJobs {
		ids[job.JobID] = true
	}
	if ids["JOB_AI_CONTENT_SPECIALIST"] {
		t.Fatalf("technical track must drop content jobs")
	}
	if !ids["JOB_DATA_ANALYST"] || !ids["JOB_ML_SPECIALIST"] {
		t.Fatalf("technical track keeps data and ml jobs: %v", ids)
	}

	unknown := FilterByTrack(out, "astronomy")
	if !reflect.DeepEqual(unknown, out) {
		t.Fatalf("unknown track must not filter")
	}
}
