package models

// Option is one selectable choice of a multiple-choice question.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ShowIf gates a question on a previously given answer.
type ShowIf struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
}

// Question is one step of a configuration flow as the engine presents it.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Type        string   `json:"type"` // "multiple_choice", "multiple_select", "text"
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	ShowIf      *ShowIf  `json:"showIf,omitempty"`
}

// Satisfied reports whether the gate condition holds for the given answers.
// A question without a gate is always eligible.
func (s *ShowIf) Satisfied(answers map[string]Answer) bool {
	if s == nil || s.QuestionID == "" {
		return true
	}
	return answers[s.QuestionID].Single == s.AnswerID
}
