package gap

import (
	"strings"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/scores"
)

// Status of a gap after evaluation.
const (
	StatusSolved   = "solved"
	StatusUnsolved = "unsolved"
)

// Keyword evidence per gap. Matching is plain substring search over the
// combined answer text after zero-width joiners are replaced with spaces.
var gapKeywords = map[string][]string{
	"GAP_CONTENT_PUBLISHABLE_OUTPUT": {
		"خروجی قابل انتشار",
		"قابل انتشار",
		"ویرایش",
		"پولیش",
	},
	"GAP_PROMPTING_FOR_CONTENT": {
		"پرامپت",
		"دستور",
		"قالب پرامپت",
		"رول",
	},
	"GAP_CONTENT_PLANNING": {
		"تقویم محتوا",
		"برنامه محتوا",
		"برنامه ریزی",
		"CTA",
	},
	"GAP_MULTIMODAL_CONTENT": {
		"چندرسانه",
		"تصویر",
		"ویدئو",
		"انیمیشن",
	},
	"GAP_AUDIENCE_FIT_WITH_AI": {
		"پرسونا",
		"مخاطب",
		"لحن",
		"بازخورد",
	},
	"GAP_PORTFOLIO_WITH_AI": {
		"نمونه کار",
		"نمونه‌کار",
		"پروژه واقعی",
		"پورتفولیو",
	},
}

// Score dimension that stands in for each gap when neither evidence nor
// keywords resolve it. A 4 or 5 on the mapped dimension counts as solved.
var gapScoreDim = map[string]string{
	"GAP_CONTENT_PUBLISHABLE_OUTPUT": "execution",
	"GAP_PROMPTING_FOR_CONTENT":      "ai_mindset",
	"GAP_CONTENT_PLANNING":           "planning",
	"GAP_MULTIMODAL_CONTENT":         "learning",
	"GAP_AUDIENCE_FIT_WITH_AI":       "problem_solving",
	"GAP_PORTFOLIO_WITH_AI":          "execution",
}

const solvedScoreThreshold = 4

// NextAction is the smallest concrete step toward closing a gap: the first
// remediation block's title and its first micro step.
type NextAction struct {
	TitleFa     string `json:"title_fa"`
	MicroStepFa string `json:"micro_step_fa"`
}

// Result is the evaluation of one gap.
type Result struct {
	Status     string      `json:"status"`
	NextAction *NextAction `json:"next_action"`
}

// Evidence is explicit external proof that a gap is closed, keyed by gap id,
// plus an optional solved_gaps list.
type Evidence struct {
	Flags      map[string]bool `json:"flags"`
	SolvedGaps []string        `json:"solved_gaps"`
}

// Engine evaluates the gap catalog against interview material. Each gap is
// solved by the first of three signals that fires: explicit evidence, a
// keyword hit in the answers, or a high score on the mapped dimension.
type Engine struct {
	gaps catalog.GapCatalog
}

func NewEngine(gaps catalog.GapCatalog) *Engine {
	return &Engine{gaps: gaps}
}

// Evaluate returns the status of every catalog gap. Unsolved gaps carry a
// next action when the catalog defines remediation blocks for them.
func (e *Engine) Evaluate(answersText string, s scores.Set, evidence Evidence) map[string]Result {
	text := strings.ReplaceAll(answersText, "‌", " ")

	out := make(map[string]Result, len(e.gaps.Gaps))
	for _, entry := range e.gaps.Gaps {
		if entry.GapID == "" {
			continue
		}
		solved := hasEvidence(entry.GapID, evidence) ||
			keywordHit(entry.GapID, text) ||
			scoreSolved(entry.GapID, s)

		result := Result{Status: StatusUnsolved}
		if solved {
			result.Status = StatusSolved
		} else {
			result.NextAction = e.NextAction(entry.GapID)
		}
		out[entry.GapID] = result
	}
	return out
}

// NextAction returns the first block title and first micro step for a gap,
// or nil when the catalog has no blocks for it.
func (e *Engine) NextAction(gapID string) *NextAction {
	entry, ok := e.gaps.Entry(gapID)
	if !ok || len(entry.Blocks) == 0 {
		return nil
	}
	first := entry.Blocks[0]
	step := ""
	if len(first.MicroStepsFa) > 0 {
		step = first.MicroStepsFa[0]
	}
	return &NextAction{TitleFa: first.TitleFa, MicroStepFa: step}
}

func hasEvidence(gapID string, evidence Evidence) bool {
	if evidence.Flags[gapID] {
		return true
	}
	for _, solved := range evidence.SolvedGaps {
		if solved == gapID {
			return true
		}
	}
	return false
}

func keywordHit(gapID, text string) bool {
	for _, keyword := range gapKeywords[gapID] {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func scoreSolved(gapID string, s scores.Set) bool {
	dim, ok := gapScoreDim[gapID]
	if !ok {
		return false
	}
	return s.Dim(dim) >= solvedScoreThreshold
}
