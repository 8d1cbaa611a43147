package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/common/logger"
	"turbosap-client/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))
}

func TestClientStart(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(StartResponse{
			SessionID: "sess-1",
			Question:  &models.Question{ID: "q1_frequencies", Type: "multiple_select"},
		})
	})

	resp, err := client.Start(context.Background(), models.ModulePayrollArea, StartRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "/api/start", gotPath)
	assert.Equal(t, "sess-1", resp.SessionID)
	require.NotNil(t, resp.Question)
	assert.Equal(t, "q1_frequencies", resp.Question.ID)
}

func TestClientPaymentModuleUsesPaymentPrefix(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(StartResponse{SessionID: "sess-1"})
	})

	_, err := client.Start(context.Background(), models.ModulePaymentMethod, StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, "/api/payment/start", gotPath)
}

func TestClientStartFailureClassification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Start(context.Background(), models.ModulePayrollArea, StartRequest{})

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionStartFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestClientSubmit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/answer", r.URL.Path)

		var req SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sess-1", req.SessionID)
		assert.Equal(t, "q1_payment_method_p", req.QuestionID)

		json.NewEncoder(w).Encode(SubmitResponse{
			SessionID: "sess-1",
			Progress:  20,
			Question:  &models.Question{ID: "q1_p_house_banks"},
		})
	})

	resp, err := client.Submit(context.Background(), models.ModulePaymentMethod, SubmitRequest{
		SessionID:  "sess-1",
		QuestionID: "q1_payment_method_p",
		Answer:     models.SingleAnswer("yes"),
	})
	require.NoError(t, err)
	assert.False(t, resp.Done)
	assert.Equal(t, 20, resp.Progress)
	assert.Equal(t, "q1_p_house_banks", resp.Question.ID)
}

func TestClientSubmitAnswerWireFormat(t *testing.T) {
	var rawAnswer json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Answer json.RawMessage `json:"answer"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		rawAnswer = payload.Answer
		json.NewEncoder(w).Encode(SubmitResponse{SessionID: "sess-1"})
	})

	_, err := client.Submit(context.Background(), models.ModulePayrollArea, SubmitRequest{
		SessionID:  "sess-1",
		QuestionID: "q1_frequencies",
		Answer:     models.MultiAnswer("weekly", "monthly"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["weekly","monthly"]`, string(rawAnswer))
}

func TestClientSubmitErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
	}{
		{"unknown session", http.StatusNotFound, `{"detail":"Session not found"}`, errors.ErrCodeSessionNotFound},
		{"rejected answer", http.StatusBadRequest, `{"detail":"Unexpected question"}`, errors.ErrCodeAnswerRejected},
		{"server failure", http.StatusInternalServerError, "boom", errors.ErrCodeAnswerSubmitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Submit(context.Background(), models.ModulePaymentMethod, SubmitRequest{
				SessionID:  "sess-x",
				QuestionID: "q1_payment_method_p",
			})

			var stdErr *errors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestClientSubmitRejectedCarriesDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Expected answer for q2_payment_method_q"}`))
	})

	_, err := client.Submit(context.Background(), models.ModulePaymentMethod, SubmitRequest{
		SessionID:  "sess-x",
		QuestionID: "q1_payment_method_p",
	})

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Details, "Expected answer for q2_payment_method_q")
}

func TestClientState(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/session/sess-1", r.URL.Path)
		json.NewEncoder(w).Encode(StateResponse{
			SessionID:         "sess-1",
			CurrentQuestionID: "q1_weekly_payday",
			Progress:          40,
			Answers: map[string]models.Answer{
				"q1_frequencies": models.MultiAnswer("weekly"),
			},
		})
	})

	resp, err := client.State(context.Background(), models.ModulePayrollArea, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "q1_weekly_payday", resp.CurrentQuestionID)
	assert.Equal(t, []string{"weekly"}, resp.Answers["q1_frequencies"].Multi)
}

func TestClientStateNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.State(context.Background(), models.ModulePayrollArea, "gone")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionNotFound, stdErr.Code)
}
