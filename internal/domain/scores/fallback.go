package scores

import "strings"

// Keyword lists per dimension for the deterministic text scorer. Matching is
// plain substring search over the lowercased, concatenated answers.
var (
	problemSolvingKeywords = []string{"حل", "تحلیل", "مسئله", "ریشه", "راهکار", "گزینه"}
	executionKeywords      = []string{"اجرا", "برنامه", "گام", "زمان", "پیاده", "نقشه", "تحویل"}
	learningKeywords       = []string{"یادگیری", "تمرین", "آموزش", "منبع", "پیشرفت", "مطالعه"}
	planningKeywords       = []string{"برنامه", "زمان", "اولویت", "تقویم", "زمان بندی", "برآورد"}
	aiMindsetKeywords      = []string{"داده", "مدل", "آزمایش", "یادگیری", "بازخورد", "هوش", "ai", "الگوریتم"}
)

// ScoreText is the local scorer used whenever the text-generation service is
// unavailable or returns an unusable payload. Per dimension: up to 3 points
// from keyword hits plus up to 2 points from answer length, capped at 5.
func ScoreText(answers ...string) Set {
	parts := make([]string, 0, len(answers))
	for _, a := range answers {
		a = strings.TrimSpace(a)
		if a != "" {
			parts = append(parts, a)
		}
	}
	joined := strings.ToLower(strings.Join(parts, " "))

	lengthPoints := len(strings.Fields(joined)) / 60
	if lengthPoints > 2 {
		lengthPoints = 2
	}

	return Set{
		Execution:      scoreDimension(joined, executionKeywords, lengthPoints),
		ProblemSolving: scoreDimension(joined, problemSolvingKeywords, lengthPoints),
		Learning:       scoreDimension(joined, learningKeywords, lengthPoints),
		Planning:       scoreDimension(joined, planningKeywords, lengthPoints),
		AIMindset:      scoreDimension(joined, aiMindsetKeywords, lengthPoints),
	}
}

func scoreDimension(text string, keywords []string, lengthPoints int) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	if hits > 3 {
		hits = 3
	}
	total := hits + lengthPoints
	if total > 5 {
		return 5
	}
	return total
}
