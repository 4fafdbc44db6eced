package job

// Domains each track may surface. A rule with an empty domain is not
// filtered; it belongs everywhere.
var trackDomains = map[string]map[string]bool{
	"content":    {"content": true, "marketing": true},
	"automation": {"automation": true, "biz": true},
	"technical":  {"ai": true, "machine_learning": true, "data": true},
}

// FilterByTrack keeps only the jobs whose domain belongs to the learner's
// track. Unknown tracks filter nothing, so a mapping is never emptied by a
// routing bug upstream.
func FilterByTrack(mapping Mapping, trackName string) Mapping {
	allowed, ok := trackDomains[trackName]
	if !ok {
		return mapping
	}

	reachable := make([]Match, 0, len(mapping.ReachableJobs))
	for _, m := range mapping.ReachableJobs {
		if m.Domain == "" || allowed[m.Domain] {
			reachable = append(reachable, m)
		}
	}

	nextLevel := make([]NextLevelMatch, 0, len(mapping.NextLevelJobs))
	for _, m := range mapping.NextLevelJobs {
		if m.Domain == "" || allowed[m.Domain] {
			nextLevel = append(nextLevel, m)
		}
	}

	return Mapping{ReachableJobs: reachable, NextLevelJobs: nextLevel}
}
