package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRulesMissingFileFails(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.json"), ""); err == nil {
		t.Fatalf("missing rules file must fail fast")
	}
}

func TestLoadRulesMalformedFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.json", "{not json")
	if _, err := LoadRules(path, ""); err == nil {
		t.Fatalf("malformed rules file must fail fast")
	}
}

func TestLoadRulesDefaultsAndOverride(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.json", `{"job_rules":[{"job_id":"J1","level":"A"}]}`)
	coursesPath := writeFile(t, dir, "courses.json", `{"100":{"title_fa":"دوره","level_hint":"A"}}`)

	rules, err := LoadRules(rulesPath, coursesPath)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rules.JobRules) != 1 || rules.JobRules[0].JobID != "J1" {
		t.Fatalf("job rules not loaded: %+v", rules.JobRules)
	}
	if _, ok := rules.CourseCatalog["100"]; !ok {
		t.Fatalf("standalone catalog must override the embedded one")
	}
}

func TestLoadRulesBrokenOverrideKeepsEmbedded(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.json", `{"job_rules":[],"course_catalog":{"200":{"title_fa":"x","level_hint":"B"}}}`)
	coursesPath := writeFile(t, dir, "courses.json", "broken")

	rules, err := LoadRules(rulesPath, coursesPath)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := rules.CourseCatalog["200"]; !ok {
		t.Fatalf("broken override must keep the embedded catalog")
	}
}

func TestLoadRulesStripsBOM(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.json", "\xEF\xBB\xBF"+`{"job_rules":[]}`)
	if _, err := LoadRules(rulesPath, ""); err != nil {
		t.Fatalf("BOM-prefixed file must parse: %v", err)
	}
}

func TestLoadGapCatalogDegrades(t *testing.T) {
	if got := LoadGapCatalog(filepath.Join(t.TempDir(), "absent.json")); len(got.Gaps) != 0 {
		t.Fatalf("missing gap catalog must be empty")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "gaps.json", "nope")
	if got := LoadGapCatalog(path); len(got.Gaps) != 0 {
		t.Fatalf("malformed gap catalog must be empty")
	}
}

func TestCoursesHelpers(t *testing.T) {
	catalog := Courses{
		"300": {TitleFa: "دوره سی", LevelHint: "C"},
		"100": {TitleFa: "دوره یک", LevelHint: "A"},
		"200": {TitleFa: "دوره دو", LevelHint: "B"},
		"110": {TitleFa: "دوره دیگر", LevelHint: "A"},
	}
	sorted := catalog.SortedCodes()
	want := []string{"100", "110", "200", "300"}
	for i, code := range want {
		if sorted[i] != code {
			t.Fatalf("sorted codes = %v, want %v", sorted, want)
		}
	}
	if catalog.LevelRank("missing") != 3 {
		t.Fatalf("unknown codes must rank as C")
	}
	if catalog.Title("100") != "100 (دوره یک)" {
		t.Fatalf("unexpected title: %s", catalog.Title("100"))
	}
	if catalog.Title("missing") != "missing" {
		t.Fatalf("unknown codes must fall back to the bare code")
	}
}
