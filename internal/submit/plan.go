// Package submit converts a one-shot form into the ordered sequence of
// question/answer exchanges the remote session protocol requires. Plans are
// declarative ordered step lists; a single generic runner executes them
// strictly sequentially because each answer's acceptance depends on server
// state advanced by the previous one.
package submit

import (
	"fmt"
	"strings"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/models"
	"turbosap-client/internal/session"
)

// Step is one entry of a submission plan. When is evaluated against the form
// before the step is sent; a skipped step is never sent. Build produces the
// answer payload, which may be a compound object serialized as one answer.
type Step[F any] struct {
	QuestionID string
	When       func(F) bool
	Build      func(F) models.Answer
}

// Plan is the fixed, ordered protocol of one configuration module.
type Plan[F any] struct {
	Module models.Module

	// Validate runs before any network call. Any hard error aborts the run
	// entirely; soft warnings are carried through to the result.
	Validate func(F) []errors.FieldError

	Steps []Step[F]

	// CheckComplete inspects the final response for the generated results
	// payload. A done response without it is a validation failure distinct
	// from a network failure.
	CheckComplete func(*session.SubmitResponse) error
}

// EligibleSteps returns the steps that would be sent for the given form, in
// plan order.
func (p Plan[F]) EligibleSteps(form F) []Step[F] {
	out := make([]Step[F], 0, len(p.Steps))
	for _, s := range p.Steps {
		if s.When == nil || s.When(form) {
			out = append(out, s)
		}
	}
	return out
}

// ValidationError aborts a run before submission begins; it carries the
// per-field messages the form renders inline.
type ValidationError struct {
	Fields []errors.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Severity == errors.SeverityError {
			msgs = append(msgs, f.Error())
		}
	}
	return fmt.Sprintf("form validation failed: %s", strings.Join(msgs, "; "))
}
