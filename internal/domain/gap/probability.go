package gap

import (
	"fmt"

	"skill-compass/internal/catalog"
)

// Confidence tiers for landing a job.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Probability is a coarse confidence label with a Persian explanation.
type Probability struct {
	Confidence string `json:"confidence"`
	ReasonFa   string `json:"reason_fa"`
}

// JobProbability derives the confidence for one job from the readiness level
// and the solved gaps. The readiness level sets the base tier; solving every
// required gap promotes it by one, capped at high.
func JobProbability(jobID string, solvedGaps []string, readinessLevel string, gaps catalog.GapCatalog) Probability {
	base := ConfidenceLow
	switch readinessLevel {
	case "B", "C":
		base = ConfidenceMedium
	}

	job, ok := gaps.Job(jobID)
	if !ok {
		return Probability{
			Confidence: base,
			ReasonFa:   "اطلاعات کافی برای ارزیابی این شغل در دسترس نیست.",
		}
	}

	solved := make(map[string]bool, len(solvedGaps))
	for _, gapID := range solvedGaps {
		solved[gapID] = true
	}
	solvedRequired := 0
	for _, gapID := range job.RequiredGaps {
		if solved[gapID] {
			solvedRequired++
		}
	}

	confidence := base
	if len(job.RequiredGaps) > 0 && solvedRequired == len(job.RequiredGaps) {
		switch confidence {
		case ConfidenceLow:
			confidence = ConfidenceMedium
		case ConfidenceMedium:
			confidence = ConfidenceHigh
		}
	}

	if len(job.RequiredGaps) == 0 {
		return Probability{
			Confidence: confidence,
			ReasonFa:   "بر اساس آمادگی عملی شما ارزیابی شد.",
		}
	}
	return Probability{
		Confidence: confidence,
		ReasonFa: fmt.Sprintf("بر اساس آمادگی عملی (%s) و حل شدن %d/%d گپ اصلی این شغل.",
			readinessLevel, solvedRequired, len(job.RequiredGaps)),
	}
}
