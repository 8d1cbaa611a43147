package submit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/common/logger"
	"turbosap-client/internal/common/storage"
	"turbosap-client/internal/draft"
	"turbosap-client/internal/models"
	"turbosap-client/internal/session"
)

// fakeEngine records every call in order and scripts the responses,
// standing in for the remote session API.
type fakeEngine struct {
	startCalls  int
	submissions []session.SubmitRequest

	startErr  error
	submitErr map[string]error // by question id

	payrollAreas   []models.PayrollArea
	paymentMethods []models.PaymentMethod
	neverDone      bool
}

func (f *fakeEngine) Start(_ context.Context, _ models.Module, _ session.StartRequest) (*session.StartResponse, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &session.StartResponse{SessionID: fmt.Sprintf("sess-%d", f.startCalls)}, nil
}

func (f *fakeEngine) Submit(_ context.Context, _ models.Module, req session.SubmitRequest) (*session.SubmitResponse, error) {
	if err := f.submitErr[req.QuestionID]; err != nil {
		return nil, err
	}
	f.submissions = append(f.submissions, req)
	resp := &session.SubmitResponse{
		SessionID: req.SessionID,
		Progress:  len(f.submissions) * 10,
	}
	// The engine reports done on whichever answer it decides is last; the
	// fake treats every accepted answer as potentially final.
	if !f.neverDone {
		resp.Done = true
		resp.Progress = 100
		resp.PayrollAreas = f.payrollAreas
		resp.PaymentMethods = f.paymentMethods
		resp.Message = "Configuration generated."
	}
	return resp, nil
}

func (f *fakeEngine) State(_ context.Context, _ models.Module, sessionID string) (*session.StateResponse, error) {
	return &session.StateResponse{SessionID: sessionID}, nil
}

func (f *fakeEngine) sentQuestionIDs() []string {
	ids := make([]string, len(f.submissions))
	for i, s := range f.submissions {
		ids[i] = s.QuestionID
	}
	return ids
}

func newTestDrafts(t *testing.T) *draft.Store {
	t.Helper()
	backend, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return draft.NewStore(backend, "v2", logger.NewTestLogger(t))
}

func achOnlyForm() PaymentForm {
	return PaymentForm{
		Selected:    map[string]bool{MethodACH: true},
		HouseBanks:  "Chase, Bank of America",
		ACHFileSpec: "NACHA PPD",
		PreNote:     "agree",
	}
}

func TestRunnerACHOnlySequence(t *testing.T) {
	engine := &fakeEngine{paymentMethods: []models.PaymentMethod{{Code: "P"}}}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	result, err := runner.Run(context.Background(), NewPaymentPlan(), achOnlyForm(), "user-a")
	require.NoError(t, err)

	// Unselected methods still get their boolean "no" answers, but none of
	// their follow-ups (volume, check range) are sent.
	assert.Equal(t, []string{
		"q1_payment_method_p",
		"q1_p_house_banks",
		"q1_p_ach_spec",
		"q2_payment_method_q",
		"q3_payment_method_k",
		"q4_payment_method_m",
		"q5_pre_note_confirmation",
	}, engine.sentQuestionIDs())

	assert.Equal(t, "no", engine.submissions[3].Answer.Single)
	assert.Equal(t, "sess-1", result.SessionID)
	assert.Equal(t, 100, result.Progress)
	assert.Empty(t, result.Warnings)
}

func TestRunnerCheckMethodSendsCompoundRange(t *testing.T) {
	engine := &fakeEngine{paymentMethods: []models.PaymentMethod{{Code: "Q"}}}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	form := PaymentForm{
		Selected:         map[string]bool{MethodCheck: true, MethodManual: true},
		CheckVolume:      "250 checks",
		CheckRange:       "1000 - 2000",
		ManualCheckRange: "5000 - 6000",
		PreNote:          "disagree",
	}

	_, err := runner.Run(context.Background(), NewPaymentPlan(), form, "user-a")
	require.NoError(t, err)

	ids := engine.sentQuestionIDs()
	assert.Contains(t, ids, "q2_q_volume")
	require.Contains(t, ids, "q2_q_check_range")

	for _, s := range engine.submissions {
		if s.QuestionID == "q2_q_check_range" {
			assert.Equal(t, map[string]string{
				"regular": "1000 - 2000",
				"manual":  "5000 - 6000",
			}, s.Answer.Object)
		}
	}
}

func TestRunnerValidationBlocksBeforeAnyNetworkCall(t *testing.T) {
	engine := &fakeEngine{}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	form := achOnlyForm()
	form.HouseBanks = ""

	_, err := runner.Run(context.Background(), NewPaymentPlan(), form, "user-a")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.HasBlocking(verr.Fields))
	assert.Zero(t, engine.startCalls)
	assert.Empty(t, engine.submissions)
}

func TestRunnerCarriesWarningsThrough(t *testing.T) {
	engine := &fakeEngine{paymentMethods: []models.PaymentMethod{{Code: "P"}}}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	form := achOnlyForm()
	form.ACHFileSpec = "CCD fixed width" // no "nacha": soft warning only

	result, err := runner.Run(context.Background(), NewPaymentPlan(), form, "user-a")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "achFileSpec", result.Warnings[0].Field)
	assert.Equal(t, errors.SeverityWarning, result.Warnings[0].Severity)
}

func TestRunnerAbortsOnRejectedAnswer(t *testing.T) {
	engine := &fakeEngine{
		submitErr: map[string]error{
			"q1_p_ach_spec": errors.NewAnswerRejectedError("q1_p_ach_spec", "unexpected answer"),
		},
	}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	_, err := runner.Run(context.Background(), NewPaymentPlan(), achOnlyForm(), "user-a")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeAnswerRejected, stdErr.Code)

	// The steps before the failure were sent; nothing after it was.
	assert.Equal(t, []string{"q1_payment_method_p", "q1_p_house_banks"}, engine.sentQuestionIDs())
}

func TestRunnerDoneWithoutPayloadIsIncomplete(t *testing.T) {
	engine := &fakeEngine{} // done, but no payment methods in the payload
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	_, err := runner.Run(context.Background(), NewPaymentPlan(), achOnlyForm(), "user-a")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeConfigurationIncomplete, stdErr.Code)
}

func TestRunnerNeverDoneIsIncomplete(t *testing.T) {
	engine := &fakeEngine{neverDone: true}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	_, err := runner.Run(context.Background(), NewPaymentPlan(), achOnlyForm(), "user-a")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeConfigurationIncomplete, stdErr.Code)
}

func TestRunnerReusesPersistedSession(t *testing.T) {
	drafts := newTestDrafts(t)
	ctx := context.Background()
	drafts.SetSessionID(ctx, models.ModulePaymentMethod, "user-a", "sess-prior")

	engine := &fakeEngine{paymentMethods: []models.PaymentMethod{{Code: "P"}}}
	runner := NewRunner[PaymentForm](engine, drafts, logger.NewTestLogger(t))

	result, err := runner.Run(ctx, NewPaymentPlan(), achOnlyForm(), "user-a")
	require.NoError(t, err)

	assert.Zero(t, engine.startCalls, "a persisted session id must be reused, not restarted")
	assert.Equal(t, "sess-prior", result.SessionID)
	for _, s := range engine.submissions {
		assert.Equal(t, "sess-prior", s.SessionID)
	}
}

func TestRunnerPersistsDraftAfterEachAnswer(t *testing.T) {
	drafts := newTestDrafts(t)
	engine := &fakeEngine{paymentMethods: []models.PaymentMethod{{Code: "P"}}}
	runner := NewRunner[PaymentForm](engine, drafts, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := runner.Run(ctx, NewPaymentPlan(), achOnlyForm(), "user-a")
	require.NoError(t, err)

	d := drafts.Load(ctx, models.ModulePaymentMethod, "user-a")
	require.NotNil(t, d)
	assert.True(t, d.IsComplete)
	assert.Equal(t, 100, d.Progress)
	assert.Equal(t, "yes", d.Answers["q1_payment_method_p"].Single)
	assert.Equal(t, "agree", d.Answers["q5_pre_note_confirmation"].Single)
}

func TestRunnerStartFailureSurfaces(t *testing.T) {
	engine := &fakeEngine{
		startErr: errors.NewSessionStartFailedError(string(models.ModulePaymentMethod), fmt.Errorf("connection refused")),
	}
	runner := NewRunner[PaymentForm](engine, newTestDrafts(t), logger.NewTestLogger(t))

	_, err := runner.Run(context.Background(), NewPaymentPlan(), achOnlyForm(), "user-a")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionStartFailed, stdErr.Code)
	assert.Empty(t, engine.submissions)
}
