package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

const defaultMessage = "요청 실패"

type ErrorKind int

const (
	// KindNetwork means the round trip itself failed.
	KindNetwork ErrorKind = iota + 1
	// KindBackend means the backend answered with a failure.
	KindBackend
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// MessageOf returns the backend-provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" && reqErr.Message != defaultMessage {
		return reqErr.Message
	}
	return fallback
}

func outcomeOf(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind.String()
	}
	return "error"
}

// messageOf extracts {"message": ...} or FastAPI's {"detail": ...} from an error body.
func messageOf(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return defaultMessage
	}
	if payload.Message != "" {
		return payload.Message
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
		return detail
	}
	return defaultMessage
}
