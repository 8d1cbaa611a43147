package submit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/common/logger"
	"turbosap-client/internal/common/metrics"
	"turbosap-client/internal/draft"
	"turbosap-client/internal/models"
	"turbosap-client/internal/session"
)

// Result is the outcome of a completed submission run.
type Result struct {
	SessionID      string
	Progress       int
	Message        string
	PayrollAreas   []models.PayrollArea
	PaymentMethods []models.PaymentMethod

	// Warnings are the soft validation findings that did not block the run.
	Warnings []errors.FieldError
}

// Runner executes submission plans against the session engine, keeping the
// local draft in sync after every accepted answer.
type Runner[F any] struct {
	api    session.API
	drafts *draft.Store
	logger logger.Logger
}

func NewRunner[F any](api session.API, drafts *draft.Store, log logger.Logger) *Runner[F] {
	return &Runner[F]{
		api:    api,
		drafts: drafts,
		logger: log,
	}
}

// Run validates the form, ensures a session exists (reusing a persisted id
// so a retry resumes rather than restarts), then submits each eligible step
// in plan order, awaiting every response before the next step is issued.
// Any transport error aborts the remaining steps and leaves the persisted
// session id intact.
func (r *Runner[F]) Run(ctx context.Context, plan Plan[F], form F, userKey string) (*Result, error) {
	log := r.logger.WithFields(map[string]interface{}{
		"module": string(plan.Module),
		"runId":  uuid.NewString(),
	})
	start := time.Now()

	var warnings []errors.FieldError
	if plan.Validate != nil {
		fields := plan.Validate(form)
		if errors.HasBlocking(fields) {
			log.Warn("submission blocked by validation", map[string]interface{}{
				"findings": len(fields),
			})
			return nil, &ValidationError{Fields: fields}
		}
		for _, f := range fields {
			if f.Severity == errors.SeverityWarning {
				warnings = append(warnings, f)
			}
		}
	}

	// Hydrate first: Load marks the scope ready so the saves below are
	// accepted, and gives us any draft from an earlier aborted run.
	d := r.drafts.Load(ctx, plan.Module, userKey)
	if d == nil {
		d = models.NewDraft()
	}

	sessionID, err := r.ensureSession(ctx, plan.Module, userKey, d)
	if err != nil {
		r.recordFailure(plan.Module, err)
		return nil, err
	}
	d.SessionID = sessionID

	steps := plan.EligibleSteps(form)
	var final *session.SubmitResponse
	for i, step := range steps {
		answer := step.Build(form)
		resp, err := r.api.Submit(ctx, plan.Module, session.SubmitRequest{
			SessionID:  sessionID,
			QuestionID: step.QuestionID,
			Answer:     answer,
		})
		if err != nil {
			log.Error("submission aborted", map[string]interface{}{
				"questionId": step.QuestionID,
				"step":       i + 1,
				"steps":      len(steps),
				"error":      err.Error(),
			})
			r.recordFailure(plan.Module, err)
			return nil, err
		}
		metrics.SubmissionStepsSent.WithLabelValues(string(plan.Module)).Inc()

		d.SetAnswer(step.QuestionID, answer)
		d.Progress = resp.Progress
		r.drafts.Save(ctx, plan.Module, userKey, d)

		final = resp
	}

	if final == nil || !final.Done {
		err := errors.NewConfigurationIncompleteError(string(plan.Module))
		r.recordFailure(plan.Module, err)
		return nil, err
	}
	if plan.CheckComplete != nil {
		if err := plan.CheckComplete(final); err != nil {
			r.recordFailure(plan.Module, err)
			return nil, err
		}
	}

	d.IsComplete = true
	d.Progress = 100
	r.drafts.Save(ctx, plan.Module, userKey, d)

	metrics.SubmissionRunDuration.WithLabelValues(string(plan.Module)).Observe(time.Since(start).Seconds())
	log.Info("configuration complete", map[string]interface{}{
		"steps":    len(steps),
		"duration": time.Since(start).String(),
	})

	return &Result{
		SessionID:      sessionID,
		Progress:       100,
		Message:        final.Message,
		PayrollAreas:   final.PayrollAreas,
		PaymentMethods: final.PaymentMethods,
		Warnings:       warnings,
	}, nil
}

// ensureSession reuses the persisted session id when present, otherwise
// starts a new session and persists the returned id before any answer is
// sent.
func (r *Runner[F]) ensureSession(ctx context.Context, module models.Module, userKey string, d *models.Draft) (string, error) {
	if id := r.drafts.SessionID(ctx, module, userKey); id != "" {
		return id, nil
	}
	if d.SessionID != "" {
		return d.SessionID, nil
	}

	resp, err := r.api.Start(ctx, module, session.StartRequest{})
	if err != nil {
		return "", err
	}
	r.drafts.SetSessionID(ctx, module, userKey, resp.SessionID)
	return resp.SessionID, nil
}

func (r *Runner[F]) recordFailure(module models.Module, err error) {
	code := "INTERNAL_ERROR"
	if stdErr, ok := err.(*errors.StandardError); ok {
		code = string(stdErr.Code)
	}
	metrics.SubmissionRunsFailed.WithLabelValues(string(module), code).Inc()
}
