package errors

import "time"

// UserMessage is what the UI banner shows for a failed operation: a single
// dismissible message with no raw exception detail beyond the message text.
type UserMessage struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Handler converts arbitrary errors into logged, user-presentable messages.
type Handler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle normalizes err, logs it with full detail, and returns the
// user-facing message. Persistence errors are logged at warn level only;
// they never become banners.
func (h *Handler) Handle(err error) *UserMessage {
	stdErr := h.normalize(err)

	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}

	if IsPersistence(stdErr.Code) {
		h.logger.Warn(stdErr.Message, fields)
		return nil
	}

	h.logger.Error(stdErr.Message, fields)
	return &UserMessage{Code: stdErr.Code, Message: stdErr.Message}
}

// normalize ensures we always have a StandardError.
func (h *Handler) normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
