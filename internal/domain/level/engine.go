package level

import "skill-compass/internal/domain/scores"

// Ordinal rank of a level; unknown levels rank 0 and never match a bucket.
func Rank(level string) int {
	switch level {
	case "A", "a":
		return 1
	case "B", "b":
		return 2
	case "C", "c":
		return 3
	default:
		return 0
	}
}

// Decision is the outcome of the level engine: pedagogical depth
// (TrainingLevel) and practical execution (ReadinessLevel), with the raw
// averages they were derived from and a short Persian note.
type Decision struct {
	LearningValue  float64 `json:"learning_value"`
	ExecutionValue float64 `json:"execution_value"`
	TrainingLevel  string  `json:"training_level"`
	ReadinessLevel string  `json:"readiness_level"`
	NoteFa         string  `json:"note_fa"`
}

func LearningValue(s scores.Set) float64 {
	return float64(s.Learning+s.Planning+s.AIMindset) / 3.0
}

func ExecutionValue(s scores.Set) float64 {
	return float64(s.Execution+s.ProblemSolving) / 2.0
}

// FromValue maps an averaged value to a level. The comparisons are exact and
// intentionally asymmetric: 2.0 is still "A", 4.0 is already "C".
func FromValue(v float64) string {
	if v <= 2.0 {
		return "A"
	}
	if v < 4.0 {
		return "B"
	}
	return "C"
}

// DetermineLevels derives both levels from the interview scores. The track
// only influences the explanatory note, never the levels. A learner with
// high learning averages but weak execution is clamped to training B /
// readiness A instead of being promoted on theory alone.
func DetermineLevels(s scores.Set, track string) Decision {
	learningValue := LearningValue(s)
	executionValue := ExecutionValue(s)

	d := Decision{
		LearningValue:  learningValue,
		ExecutionValue: executionValue,
		TrainingLevel:  FromValue(learningValue),
		ReadinessLevel: FromValue(executionValue),
		NoteFa:         defaultNote(learningValue, executionValue, track),
	}

	if learningValue >= 4.0 && executionValue <= 2.0 {
		d.TrainingLevel = "B"
		d.ReadinessLevel = "A"
		d.NoteFa = "ذهنیت و یادگیری خوب است اما اجرای عملی نیاز به تقویت دارد."
	}

	return d
}

func defaultNote(learningValue, executionValue float64, track string) string {
	if learningValue >= executionValue+1.0 {
		return "پتانسیل یادگیری بالاست اما تمرین عملی بیشتری لازم است."
	}
	if executionValue >= learningValue+1.0 {
		return "اجرای عملی خوب است اما عمق یادگیری و برنامه‌ریزی نیاز به تقویت دارد."
	}
	if track == "technical" {
		return "تعادل خوبی دیده می‌شود؛ برای مسیر فنی، پروژه عملی کمک زیادی می‌کند."
	}
	return "تعادل مناسبی بین یادگیری و اجرا دیده می‌شود."
}
