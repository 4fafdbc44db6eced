package scores

import "strconv"

// The five competency dimensions, in the order the engines report them.
var Dimensions = []string{
	"execution",
	"problem_solving",
	"learning",
	"planning",
	"ai_mindset",
}

// LabelsFa maps dimension names to their user-facing Persian labels.
var LabelsFa = map[string]string{
	"execution":       "اجرا",
	"problem_solving": "حل مسئله",
	"learning":        "یادگیری",
	"planning":        "برنامه ریزی",
	"ai_mindset":      "ذهنیت AI",
}

// Set holds one interview score per dimension. Values are always kept in
// [0,5]; anything that cannot be read as a number counts as 0.
type Set struct {
	Execution      int `json:"execution"`
	ProblemSolving int `json:"problem_solving"`
	Learning       int `json:"learning"`
	Planning       int `json:"planning"`
	AIMindset      int `json:"ai_mindset"`
}

func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

func (s Set) Clamped() Set {
	return Set{
		Execution:      Clamp(s.Execution),
		ProblemSolving: Clamp(s.ProblemSolving),
		Learning:       Clamp(s.Learning),
		Planning:       Clamp(s.Planning),
		AIMindset:      Clamp(s.AIMindset),
	}
}

// Dim returns the value for a dimension name; unknown names read as 0.
func (s Set) Dim(name string) int {
	switch name {
	case "execution":
		return s.Execution
	case "problem_solving":
		return s.ProblemSolving
	case "learning":
		return s.Learning
	case "planning":
		return s.Planning
	case "ai_mindset":
		return s.AIMindset
	default:
		return 0
	}
}

// FromMap coerces an untrusted payload (e.g. a model response) into a
// clamped Set. Missing keys and non-numeric values become 0.
func FromMap(raw map[string]any) Set {
	return Set{
		Execution:      coerce(raw["execution"]),
		ProblemSolving: coerce(raw["problem_solving"]),
		Learning:       coerce(raw["learning"]),
		Planning:       coerce(raw["planning"]),
		AIMindset:      coerce(raw["ai_mindset"]),
	}
}

func coerce(v any) int {
	switch n := v.(type) {
	case int:
		return Clamp(n)
	case float64:
		return Clamp(int(n))
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return Clamp(parsed)
	default:
		return 0
	}
}
