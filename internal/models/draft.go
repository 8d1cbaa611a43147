package models

import "time"

// Module names one of the independent configuration flows. Each module has
// its own question sequence and draft storage namespace.
type Module string

const (
	ModulePayrollArea   Module = "payroll-area"
	ModulePaymentMethod Module = "payment-method"
)

// AllModules lists every flow with a draft namespace; teardown on sign-out
// walks this list.
var AllModules = []Module{ModulePayrollArea, ModulePaymentMethod}

// ChatMessage is one entry of the payroll-area chat transcript.
type ChatMessage struct {
	Role      string    `json:"role"` // "assistant" or "user"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Draft is the client-persisted snapshot of in-progress answers for one
// configuration module and one user.
type Draft struct {
	SessionID string            `json:"sessionId,omitempty"`
	Answers   map[string]Answer `json:"answers,omitempty"`

	// Module-specific views of the collected answers: the chat transcript
	// for the payroll-area flow, typed form fields for payment methods.
	Messages   []ChatMessage     `json:"messages,omitempty"`
	FormFields map[string]string `json:"formFields,omitempty"`

	IsComplete bool      `json:"isComplete"`
	Progress   int       `json:"progress"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewDraft returns an empty draft for a freshly started flow.
func NewDraft() *Draft {
	return &Draft{Answers: map[string]Answer{}}
}

// SetAnswer records an answer, overwriting any previous answer for the same
// question id.
func (d *Draft) SetAnswer(questionID string, a Answer) {
	if d.Answers == nil {
		d.Answers = map[string]Answer{}
	}
	d.Answers[questionID] = a
}
