package assessment

import (
	"context"
	"log"

	"skill-compass/internal/catalog"
	"skill-compass/internal/domain/course"
	gapdomain "skill-compass/internal/domain/gap"
	"skill-compass/internal/domain/job"
	"skill-compass/internal/domain/level"
	"skill-compass/internal/domain/profile"
	"skill-compass/internal/domain/scores"
	"skill-compass/internal/domain/session"
	"skill-compass/internal/domain/track"
	"skill-compass/internal/repository"
)

const defaultTopK = 5

// Input is everything the evaluation needs: the validated routing answers
// and the scored interview.
type Input struct {
	UserID     string
	Profile    profile.Profile
	Goal       string
	WeeklyTime string
	Preference string
	Scores     scores.Set
}

// Result is the full evaluation: levels, track, course plan, the assembled
// gap record, and the job mapping filtered to the learner's track.
type Result struct {
	Levels         level.Decision        `json:"levels"`
	Classification level.Classification  `json:"classification"`
	Track          track.Decision        `json:"track"`
	Courses        course.Recommendation `json:"courses"`
	Gap            session.Gap           `json:"gap"`
	Jobs           job.Mapping           `json:"jobs"`
}

// GapsInput drives the standalone gap evaluation endpoint.
type GapsInput struct {
	AnswersText    string
	Scores         scores.Set
	ReadinessLevel string
	Evidence       gapdomain.Evidence
	JobIDs         []string
}

// GapsResult pairs per-gap statuses with per-job confidence labels.
type GapsResult struct {
	Gaps          map[string]gapdomain.Result      `json:"gaps"`
	Probabilities map[string]gapdomain.Probability `json:"probabilities,omitempty"`
}

// Service runs the whole evaluation pipeline over immutable reference data.
// Everything downstream of the scores is deterministic.
type Service struct {
	rules     catalog.Rules
	gaps      catalog.GapCatalog
	matcher   *job.Matcher
	gapEngine *gapdomain.Engine
	records   repository.UserRecordStore
	logger    *log.Logger
}

func NewService(rules catalog.Rules, gaps catalog.GapCatalog, records repository.UserRecordStore, logger *log.Logger) *Service {
	return &Service{
		rules:     rules,
		gaps:      gaps,
		matcher:   job.NewMatcher(rules),
		gapEngine: gapdomain.NewEngine(gaps),
		records:   records,
		logger:    logger,
	}
}

// Evaluate derives levels and track from the scored interview, builds the
// course plan and the gap record, and maps jobs against it. The gap record
// is assembled exactly once; later steps read it but never contradict it.
func (s *Service) Evaluate(ctx context.Context, in Input) (Result, error) {
	cleanScores := in.Scores.Clamped()

	trackDecision := track.Select(in.Goal, in.WeeklyTime, in.Preference)
	levels := level.DetermineLevels(cleanScores, trackDecision.Track)
	classification := level.Classify(in.Profile, cleanScores)

	plan := course.Recommend(levels.TrainingLevel, trackDecision.Track, in.WeeklyTime, in.Profile.GoalType, s.rules.CourseCatalog)

	gapRecord := session.Gap{
		TrainingLevel:      levels.TrainingLevel,
		ReadinessLevel:     levels.ReadinessLevel,
		Track:              trackDecision.Track,
		WeeklyTime:         in.WeeklyTime,
		Goal:               in.Goal,
		Preference:         in.Preference,
		Profile:            in.Profile,
		InterviewScores:    cleanScores,
		RecommendedCourses: plan.RecommendedCourses,
		BlockedCourses:     plan.BlockedCourses,
	}

	mapping := job.FilterByTrack(s.matcher.MapJobs(gapRecord, defaultTopK), trackDecision.Track)

	result := Result{
		Levels:         levels,
		Classification: classification,
		Track:          trackDecision,
		Courses:        plan,
		Gap:            gapRecord,
		Jobs:           mapping,
	}

	s.persist(ctx, in.UserID, map[string]any{
		"profile":        in.Profile,
		"levels":         levels,
		"classification": classification,
		"track":          trackDecision,
		"gap":            gapRecord,
		"jobs":           mapping,
	})

	return result, nil
}

// EvaluateGaps runs the gap engine and, for the requested jobs, the
// confidence calculation over the solved set.
func (s *Service) EvaluateGaps(_ context.Context, in GapsInput) GapsResult {
	statuses := s.gapEngine.Evaluate(in.AnswersText, in.Scores.Clamped(), in.Evidence)

	var solved []string
	for gapID, result := range statuses {
		if result.Status == gapdomain.StatusSolved {
			solved = append(solved, gapID)
		}
	}

	out := GapsResult{Gaps: statuses}
	if len(in.JobIDs) > 0 {
		out.Probabilities = make(map[string]gapdomain.Probability, len(in.JobIDs))
		for _, jobID := range in.JobIDs {
			out.Probabilities[jobID] = gapdomain.JobProbability(jobID, solved, in.ReadinessLevel, s.gaps)
		}
	}
	return out
}

// persist merges the evaluation artifacts into the user record. Failures
// are logged, not surfaced: the evaluation result is already computed and
// losing the audit trail must not fail the request.
func (s *Service) persist(ctx context.Context, userID string, updates map[string]any) {
	if s.records == nil || userID == "" {
		return
	}
	if _, err := s.records.Upsert(ctx, userID, updates); err != nil && s.logger != nil {
		s.logger.Printf("[Assessment] persist user record failed user=%s: %v", userID, err)
	}
}
