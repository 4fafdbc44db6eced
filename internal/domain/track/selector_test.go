package track

import "testing"

func TestSelectByPreference(t *testing.T) {
	cases := []struct {
		preference string
		want       string
	}{
		{PreferenceContentFa, "content"},
		{PreferenceAutomationFa, "automation"},
		{PreferenceTechnicalFa, "technical"},
		{"چیز دیگری", "automation"},
		{"", "automation"},
	}
	for _, tc := range cases {
		if got := Select("درآمد سریع", "۳–۵ ساعت", tc.preference).Track; got != tc.want {
			t.Fatalf("preference %q routed to %q, want %q", tc.preference, got, tc.want)
		}
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	first := Select(GoalTechnicalSwitchFa, "۱–۲ ساعت", PreferenceTechnicalFa)
	second := Select(GoalTechnicalSwitchFa, "۱–۲ ساعت", PreferenceTechnicalFa)
	if first != second {
		t.Fatalf("identical inputs must yield identical decisions: %+v vs %+v", first, second)
	}
}

func TestNeedsLongerPlan(t *testing.T) {
	cases := []struct {
		name       string
		goal       string
		weeklyTime string
		want       bool
	}{
		{"persian digits with en dash", GoalTechnicalSwitchFa, "۱–۲ ساعت", true},
		{"degraded dash", GoalTechnicalSwitchFa, "۱?۲ ساعت", true},
		{"ascii already", GoalTechnicalSwitchFa, "1-2", true},
		{"arabic digits", GoalTechnicalSwitchFa, "١–٢ ساعت", true},
		{"higher band", GoalTechnicalSwitchFa, "۳–۵ ساعت", false},
		{"other goal", "درآمد سریع", "۱–۲ ساعت", false},
		{"empty time", GoalTechnicalSwitchFa, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Select(tc.goal, tc.weeklyTime, PreferenceTechnicalFa).NeedsLongerPlan
			if got != tc.want {
				t.Fatalf("needs_longer_plan = %v, want %v", got, tc.want)
			}
		})
	}
}
