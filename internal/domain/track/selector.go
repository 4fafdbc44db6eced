package track

import "strings"

// Canonical routing answers as rendered by the questionnaire.
const (
	PreferenceContentFa    = "تولید محتوا و شبکه‌های اجتماعی"
	PreferenceAutomationFa = "اتوماسیون و بهبود کارهای اداری/گزارش"
	PreferenceTechnicalFa  = "کار فنی و کدنویسی/حل مسئله"
	GoalTechnicalSwitchFa  = "تغییر مسیر فنی"
)

// Decision routes the learner to one of the three tracks. NeedsLongerPlan
// flags a technical switcher on the lowest weekly-hours band.
type Decision struct {
	Track           string `json:"track"`
	NeedsLongerPlan bool   `json:"needs_longer_plan"`
}

// Select is a pure total function over the routing answers. Unrecognized
// preference strings route to "automation"; nothing here ever fails.
func Select(goal, weeklyTime, preference string) Decision {
	track := "automation"
	switch preference {
	case PreferenceContentFa:
		track = "content"
	case PreferenceAutomationFa:
		track = "automation"
	case PreferenceTechnicalFa:
		track = "technical"
	}

	return Decision{
		Track:           track,
		NeedsLongerPlan: goal == GoalTechnicalSwitchFa && IsLowTimeBand(weeklyTime),
	}
}

// IsLowTimeBand checks for the "1-2 hours" band. The UI renders the range
// with Persian digits and an en dash, and copy/paste sometimes degrades the
// dash to a question mark, so both are normalized before the substring check.
func IsLowTimeBand(weeklyTime string) bool {
	if weeklyTime == "" {
		return false
	}
	normalized := normalizeDigits(weeklyTime)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return strings.Contains(normalized, "1-2")
}

func normalizeDigits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= '۰' && r <= '۹': // Persian digits U+06F0..U+06F9
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩': // Arabic-Indic digits U+0660..U+0669
			b.WriteRune('0' + (r - '٠'))
		case r == '–' || r == '—' || r == '?' || r == '؟':
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
