package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Question is one entry of the interview question bank. HintFa, AnswerType
// and OptionsFa are usually empty in the bank itself; the selector fills them
// in for low-digital learners from the followups.
type Question struct {
	ID          string   `json:"id"`
	TextFa      string   `json:"text_fa"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty"`
	Weight      float64  `json:"weight"`
	FollowupsFa []string `json:"followups_fa,omitempty"`
	HintFa      string   `json:"hint_fa,omitempty"`
	AnswerType  string   `json:"answer_type,omitempty"`
	OptionsFa   []string `json:"options_fa,omitempty"`
}

// HasTag reports whether the question carries the tag.
func (q Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LoadQuestionBank reads the interview question bank. The bank drives the
// whole interview step, so it fails fast like the job rules.
func LoadQuestionBank(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var bank []Question
	if err := json.Unmarshal(stripBOM(raw), &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return bank, nil
}
