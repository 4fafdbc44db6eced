package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"skill-compass/internal/domain/level"
	"skill-compass/internal/domain/scores"
)

// Course is one entry of the training-course catalog.
type Course struct {
	TitleFa     string `json:"title_fa"`
	LevelHint   string `json:"level_hint"`
	RegisterURL string `json:"register_url,omitempty"`
}

// Courses maps course codes to catalog entries.
type Courses map[string]Course

// Title returns "code (title)" for known codes and the bare code otherwise.
func (c Courses) Title(code string) string {
	meta, ok := c[code]
	if !ok || meta.TitleFa == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, meta.TitleFa)
}

// LevelRank returns the rank of a course's level hint; unknown codes or
// hints rank as C so they sort last among unlock candidates.
func (c Courses) LevelRank(code string) int {
	meta, ok := c[code]
	if !ok {
		return level.Rank("C")
	}
	if r := level.Rank(meta.LevelHint); r != 0 {
		return r
	}
	return level.Rank("C")
}

// SortedCodes returns all codes ordered by (level rank, code).
func (c Courses) SortedCodes() []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ri, rj := c.LevelRank(codes[i]), c.LevelRank(codes[j])
		if ri != rj {
			return ri < rj
		}
		return codes[i] < codes[j]
	})
	return codes
}

// JobRule describes one job's eligibility in terms of course codes and
// soft-skill targets.
type JobRule struct {
	JobID       string     `json:"job_id"`
	TitleFa     string     `json:"title_fa"`
	Level       string     `json:"level"`
	Domain      string     `json:"domain"`
	RequiredAll []string   `json:"required_all"`
	RequiredAny []string   `json:"required_any"`
	NiceToHave  []string   `json:"nice_to_have"`
	SoftTargets scores.Set `json:"soft_targets"`
}

// Rules bundles the job rules with the course catalog they reference.
type Rules struct {
	JobRules      []JobRule `json:"job_rules"`
	CourseCatalog Courses   `json:"course_catalog"`
}

// LoadRules reads the job-rule catalog and, when the standalone course
// catalog file exists and parses to a non-empty map, lets it override the
// embedded one. The rules file itself is required reference data: a missing
// or malformed file is a startup failure.
func LoadRules(rulesPath, coursesPath string) (Rules, error) {
	raw, err := os.ReadFile(rulesPath)
	if err != nil {
		return Rules{}, fmt.Errorf("read job rules: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(stripBOM(raw), &rules); err != nil {
		return Rules{}, fmt.Errorf("parse job rules: %w", err)
	}
	if rules.CourseCatalog == nil {
		rules.CourseCatalog = Courses{}
	}
	if rules.JobRules == nil {
		rules.JobRules = []JobRule{}
	}

	if coursesPath != "" {
		if catalog := loadCourses(coursesPath); len(catalog) > 0 {
			rules.CourseCatalog = catalog
		}
	}
	return rules, nil
}

func loadCourses(path string) Courses {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var catalog Courses
	if err := json.Unmarshal(stripBOM(raw), &catalog); err != nil {
		return nil
	}
	return catalog
}

func stripBOM(raw []byte) []byte {
	return bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
}
