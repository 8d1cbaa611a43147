// Package session is the HTTP client for the remote configuration engine: a
// stateful Q&A conversation identified by an opaque session id and advanced
// one answer at a time.
package session

import (
	"context"
	"net/http"
	"time"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/common/httpclient"
	"turbosap-client/internal/common/logger"
	"turbosap-client/internal/models"
)

// API is the engine surface the submitter depends on.
type API interface {
	Start(ctx context.Context, module models.Module, req StartRequest) (*StartResponse, error)
	Submit(ctx context.Context, module models.Module, req SubmitRequest) (*SubmitResponse, error)
	State(ctx context.Context, module models.Module, sessionID string) (*StateResponse, error)
}

type StartRequest struct {
	CompanyName string `json:"companyName,omitempty"`
}

type StartResponse struct {
	SessionID string           `json:"sessionId"`
	Question  *models.Question `json:"question"`
}

type SubmitRequest struct {
	SessionID  string        `json:"sessionId"`
	QuestionID string        `json:"questionId"`
	Answer     models.Answer `json:"answer"`
}

type SubmitResponse struct {
	SessionID      string                 `json:"sessionId"`
	Done           bool                   `json:"done"`
	Progress       int                    `json:"progress"`
	Question       *models.Question       `json:"question,omitempty"`
	PayrollAreas   []models.PayrollArea   `json:"payrollAreas,omitempty"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods,omitempty"`
	Message        string                 `json:"message,omitempty"`
}

// StateResponse mirrors the engine's debugging/recovery endpoint.
type StateResponse struct {
	SessionID         string                   `json:"sessionId"`
	Answers           map[string]models.Answer `json:"answers"`
	CurrentQuestionID string                   `json:"currentQuestionId"`
	Done              bool                     `json:"done"`
	Progress          int                      `json:"progress"`
}

// Client talks to the engine over its JSON API. The payment-method flow
// lives under /api/payment, the payroll-area flow under /api.
type Client struct {
	baseURL string
	http    *httpclient.Client
	logger  logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpclient.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "session-client"}),
	}
}

func (c *Client) Start(ctx context.Context, module models.Module, req StartRequest) (*StartResponse, error) {
	var resp StartResponse
	if err := c.http.PostJSON(ctx, c.url(module, "/start"), req, &resp); err != nil {
		return nil, errors.NewSessionStartFailedError(string(module), err)
	}
	c.logger.Info("session started", map[string]interface{}{
		"module":    string(module),
		"sessionId": resp.SessionID,
	})
	return &resp, nil
}

func (c *Client) Submit(ctx context.Context, module models.Module, req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.http.PostJSON(ctx, c.url(module, "/answer"), req, &resp); err != nil {
		return nil, c.submitError(req, err)
	}
	c.logger.Debug("answer accepted", map[string]interface{}{
		"module":     string(module),
		"questionId": req.QuestionID,
		"done":       resp.Done,
		"progress":   resp.Progress,
	})
	return &resp, nil
}

func (c *Client) State(ctx context.Context, module models.Module, sessionID string) (*StateResponse, error) {
	var resp StateResponse
	if err := c.http.GetJSON(ctx, c.url(module, "/session/"+sessionID), &resp); err != nil {
		if se, ok := err.(*httpclient.StatusError); ok && se.StatusCode == http.StatusNotFound {
			return nil, errors.NewSessionNotFoundError(sessionID)
		}
		return nil, errors.NewBackendUnavailableError(err)
	}
	return &resp, nil
}

func (c *Client) url(module models.Module, path string) string {
	if module == models.ModulePaymentMethod {
		return c.baseURL + "/api/payment" + path
	}
	return c.baseURL + "/api" + path
}

// submitError classifies a failed submission: an unknown session and a
// rejected answer are terminal, everything else is a retryable transport
// error that leaves the session id intact.
func (c *Client) submitError(req SubmitRequest, err error) error {
	if se, ok := err.(*httpclient.StatusError); ok {
		switch {
		case se.StatusCode == http.StatusNotFound:
			return errors.NewSessionNotFoundError(req.SessionID)
		case se.StatusCode >= 400 && se.StatusCode < 500:
			return errors.NewAnswerRejectedError(req.QuestionID, se.Detail())
		}
	}
	return errors.NewAnswerSubmitFailedError(req.QuestionID, err)
}
