package profile

import (
	"errors"
	"fmt"
)

var (
	EmploymentStatuses = []string{"employed", "unemployed", "student"}
	EducationLevels    = []string{"high_school", "associate", "bachelor", "master", "phd", "other"}
	DigitalLevels      = []string{"weak", "medium", "good"}
	GoalTypes          = []string{"quick_income", "career_upgrade", "technical_switch"}
)

var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the validated applicant record. Construct it through Normalize;
// a zero Profile is not meaningful.
type Profile struct {
	Age                   int    `json:"age"`
	EmploymentStatus      string `json:"employment_status"`
	EducationLevel        string `json:"education_level"`
	DigitalLevel          string `json:"digital_level"`
	GoalType              string `json:"goal_type"`
	WeeklyTimeBudgetHours int    `json:"weekly_time_budget_hours"`
}

// Input carries the raw, unvalidated form fields.
type Input struct {
	Age                   int    `json:"age"`
	EmploymentStatus      string `json:"employment_status"`
	EducationLevel        string `json:"education_level"`
	DigitalLevel          string `json:"digital_level"`
	GoalType              string `json:"goal_type"`
	WeeklyTimeBudgetHours int    `json:"weekly_time_budget_hours"`
}

// Normalize validates every field and returns a typed Profile. Validation
// failures are reported, never silently defaulted.
func Normalize(raw Input) (Profile, error) {
	if raw.Age < 0 {
		return Profile{}, fmt.Errorf("%w: age must be non-negative", ErrInvalidProfile)
	}
	if raw.WeeklyTimeBudgetHours < 3 || raw.WeeklyTimeBudgetHours > 30 {
		return Profile{}, fmt.Errorf("%w: weekly_time_budget_hours must be between 3 and 30", ErrInvalidProfile)
	}
	if err := validateChoice(raw.EmploymentStatus, EmploymentStatuses, "employment_status"); err != nil {
		return Profile{}, err
	}
	if err := validateChoice(raw.EducationLevel, EducationLevels, "education_level"); err != nil {
		return Profile{}, err
	}
	if err := validateChoice(raw.DigitalLevel, DigitalLevels, "digital_level"); err != nil {
		return Profile{}, err
	}
	if err := validateChoice(raw.GoalType, GoalTypes, "goal_type"); err != nil {
		return Profile{}, err
	}

	return Profile{
		Age:                   raw.Age,
		EmploymentStatus:      raw.EmploymentStatus,
		EducationLevel:        raw.EducationLevel,
		DigitalLevel:          raw.DigitalLevel,
		GoalType:              raw.GoalType,
		WeeklyTimeBudgetHours: raw.WeeklyTimeBudgetHours,
	}, nil
}

func validateChoice(value string, options []string, field string) error {
	for _, opt := range options {
		if value == opt {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid %s: %q", ErrInvalidProfile, field, value)
}
