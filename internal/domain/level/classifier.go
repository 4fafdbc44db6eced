package level

import (
	"skill-compass/internal/domain/profile"
	"skill-compass/internal/domain/scores"
)

// LabelsFa maps training levels to their catalog wording.
var LabelsFa = map[string]string{
	"A": "آموزش‌های عمومی و ابزارمحور",
	"B": "آموزش‌های نیمه‌تخصصی",
	"C": "آموزش‌های تخصصی",
}

// Classification is the rule-based training-level read used on the profile
// page, before the averaged level engine runs on the full interview.
type Classification struct {
	TrainingLevel string   `json:"training_level"`
	LabelFa       string   `json:"label_fa"`
	ReasonsFa     []string `json:"reason_fa"`
}

// Classify applies the coarse gate rules: any weak core dimension or a weak
// digital level forces A; strong learning plus a technical-switch goal
// qualifies for C; everything else lands on B. Between 2 and 4 reasons are
// always returned.
func Classify(p profile.Profile, s scores.Set) Classification {
	var cls Classification

	switch {
	case s.Execution <= 2 || s.ProblemSolving <= 2 || s.AIMindset <= 2 || p.DigitalLevel == "weak":
		cls.TrainingLevel = "A"
		cls.ReasonsFa = reasonsForA(p, s)
	case s.Learning >= 4 && s.ProblemSolving >= 4 && s.Planning >= 3 && p.GoalType == "technical_switch":
		cls.TrainingLevel = "C"
		cls.ReasonsFa = reasonsForC(p)
	default:
		cls.TrainingLevel = "B"
		cls.ReasonsFa = reasonsForB(p)
	}

	cls.LabelFa = LabelsFa[cls.TrainingLevel]
	cls.ReasonsFa = boundReasons(cls.ReasonsFa)
	return cls
}

func reasonsForA(p profile.Profile, s scores.Set) []string {
	var reasons []string
	if s.Execution <= 2 {
		reasons = append(reasons, "نیاز به تقویت مهارت اجرا دیده می‌شود.")
	}
	if s.ProblemSolving <= 2 {
		reasons = append(reasons, "مهارت حل مسئله نیاز به تقویت دارد.")
	}
	if s.AIMindset <= 2 {
		reasons = append(reasons, "ذهنیت AI برای شروع مسیر تخصصی کافی نیست.")
	}
	if p.DigitalLevel == "weak" {
		reasons = append(reasons, "سطح دیجیتال پایین است و باید تقویت شود.")
	}
	return reasons
}

func reasonsForC(p profile.Profile) []string {
	reasons := []string{
		"توان یادگیری بالا ارزیابی شده است.",
		"حل مسئله و برنامه‌ریزی در سطح مناسبی قرار دارد.",
	}
	if p.GoalType == "technical_switch" {
		reasons = append(reasons, "هدف شما با مسیر تخصصی همسو است.")
	}
	reasons = append(reasons, "آمادگی برای ورود به آموزش تخصصی دیده می‌شود.")
	return reasons
}

func reasonsForB(p profile.Profile) []string {
	reasons := []string{
		"سطح فعلی برای مسیر نیمه‌تخصصی مناسب است.",
		"برای رسیدن به تخصص کامل به تقویت چند مهارت نیاز دارید.",
	}
	if p.GoalType != "" {
		reasons = append(reasons, "هدف انتخابی شما با مسیر مرحله‌ای هماهنگ است.")
	}
	return reasons
}

func boundReasons(reasons []string) []string {
	if len(reasons) < 2 {
		reasons = append(reasons, "پایه‌های موردنیاز برای مسیر تخصصی کامل نیست.")
	}
	if len(reasons) < 2 {
		reasons = append(reasons, "پیشنهاد می‌شود روی مهارت‌های پایه تمرکز کنید.")
	}
	if len(reasons) > 4 {
		return reasons[:4]
	}
	return reasons
}
