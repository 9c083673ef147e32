package api

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrRequestFailed matches every *RequestFailed via errors.Is.
var ErrRequestFailed = errors.New("request failed")

// RequestFailed is the only error kind the client returns. Message is
// meant for people; Err keeps the transport or decode cause when there is
// one.
type RequestFailed struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailed) Error() string {
	return e.Message
}

func (e *RequestFailed) Unwrap() error {
	return e.Err
}

func (e *RequestFailed) Is(target error) bool {
	return target == ErrRequestFailed
}

type errorBody struct {
	Message string `json:"message"`
}

// messageFrom reads a {"message": ...} body, falling back when the body is
// empty, not JSON, or has no message.
func messageFrom(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(eb.Message); msg != "" {
		return msg
	}
	return fallback
}
