package session

import (
	"skill-compass/internal/domain/level"
	"skill-compass/internal/domain/profile"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/domain/track"
)

// Gap is the single source of truth handed from the course recommender to
// the job matcher: everything known about the learner at mapping time. It is
// assembled once per session and may be enriched (recommended courses filled
// in when initially empty) but never contradicted.
type Gap struct {
	TrainingLevel      string          `json:"training_level"`
	ReadinessLevel     string          `json:"readiness_level"`
	Track              string          `json:"track"`
	WeeklyTime         string          `json:"weekly_time"`
	Goal               string          `json:"goal"`
	Preference         string          `json:"preference"`
	Profile            profile.Profile `json:"profile"`
	InterviewScores    scores.Set      `json:"interview_scores"`
	RecommendedCourses []string        `json:"recommended_courses"`
	BlockedCourses     []string        `json:"blocked_courses,omitempty"`
}

// Answer is one interview answer: selected choices and/or free text.
type Answer struct {
	Choices []string `json:"choices,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// State is the explicit, serializable session record threaded through every
// step of the flow. Each step receives a State and returns the enriched one;
// there is no ambient shared state.
type State struct {
	UserID  string           `json:"user_id"`
	Name    string           `json:"name,omitempty"`
	Profile *profile.Profile `json:"profile,omitempty"`

	Goal       string `json:"goal,omitempty"`
	WeeklyTime string `json:"weekly_time,omitempty"`
	Preference string `json:"preference,omitempty"`

	QuestionIDs []string          `json:"question_ids,omitempty"`
	Answers     map[string]Answer `json:"answers,omitempty"`

	Scores *scores.Set     `json:"interview_scores,omitempty"`
	Levels *level.Decision `json:"levels,omitempty"`
	Track  *track.Decision `json:"track,omitempty"`
	Gap    *Gap            `json:"gap,omitempty"`
}

// HasScores reports whether a complete scoring pass has been recorded.
func (s State) HasScores() bool {
	return s.Scores != nil
}
