package dto

import "skill-compass/internal/catalog"

// QuestionResponse is the client-facing view of an interview question.
// Selection weights and tags stay server-side.
type QuestionResponse struct {
	ID         string   `json:"id"`
	TextFa     string   `json:"text_fa"`
	HintFa     string   `json:"hint_fa,omitempty"`
	AnswerType string   `json:"answer_type,omitempty"`
	OptionsFa  []string `json:"options_fa,omitempty"`
}

func QuestionResponseFromCatalog(q catalog.Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		TextFa:     q.TextFa,
		HintFa:     q.HintFa,
		AnswerType: q.AnswerType,
		OptionsFa:  q.OptionsFa,
	}
}

func QuestionResponsesFromCatalog(questions []catalog.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponseFromCatalog(q))
	}
	return out
}
