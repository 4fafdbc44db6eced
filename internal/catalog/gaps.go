package catalog

import (
	"encoding/json"
	"os"
)

// GapBlock is one remediation block inside a skill-gap entry.
type GapBlock struct {
	TitleFa      string   `json:"title_fa"`
	MicroStepsFa []string `json:"micro_steps_fa"`
}

// GapEntry is one qualitative skill gap with its remediation blocks.
type GapEntry struct {
	GapID          string     `json:"gap_id"`
	TitleFa        string     `json:"title_fa"`
	WhyImportantFa string     `json:"why_important_fa"`
	Blocks         []GapBlock `json:"blocks"`
}

// GapJob links a job to the gaps it requires solved.
type GapJob struct {
	JobID        string   `json:"job_id"`
	RequiredGaps []string `json:"required_gaps"`
}

// GapCatalog is the secondary reference data for the gap annotator.
type GapCatalog struct {
	Gaps []GapEntry `json:"gaps"`
	Jobs []GapJob   `json:"jobs"`
}

// Entry finds a gap by id.
func (g GapCatalog) Entry(gapID string) (GapEntry, bool) {
	for _, gap := range g.Gaps {
		if gap.GapID == gapID {
			return gap, true
		}
	}
	return GapEntry{}, false
}

// Job finds a job's gap requirements by id.
func (g GapCatalog) Job(jobID string) (GapJob, bool) {
	for _, job := range g.Jobs {
		if job.JobID == jobID {
			return job, true
		}
	}
	return GapJob{}, false
}

// LoadGapCatalog reads the optional skill-gap catalog. The annotator is a
// secondary feature, so a missing or malformed file degrades to an empty
// catalog instead of failing startup.
func LoadGapCatalog(path string) GapCatalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		return GapCatalog{}
	}
	var catalog GapCatalog
	if err := json.Unmarshal(stripBOM(raw), &catalog); err != nil {
		return GapCatalog{}
	}
	return catalog
}
