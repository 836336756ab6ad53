package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	MessageUnauthorized = "You are not an authorised admin user. Please log in again."
	MessageForbidden    = "You do not have permission to view this information."
	MessageClientError  = "The request could not be completed. Please check your input and try again."
	MessageServerError  = "A server error occurred. Please try again later."

	// rawStatusPrefix is the transport text produced for any non-2xx response.
	rawStatusPrefix = "Request failed with status code"
)

// RequestError is the failure produced by every call to the admin REST API.
// Status is zero for transport failures. Detail holds the decoded "detail"
// field of the error body when present.
type RequestError struct {
	Status  int
	Detail  any
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 {
		return StatusMessage(e.Status)
	}
	return "request failed"
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusMessage returns the raw transport text for an HTTP status.
func StatusMessage(status int) string {
	return fmt.Sprintf("%s %d", rawStatusPrefix, status)
}

// AsRequestError extracts the RequestError from err, wrapping foreign errors
// so they can go through the same classification rules.
func AsRequestError(err error) *RequestError {
	if err == nil {
		return nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr != nil {
		return reqErr
	}
	return &RequestError{Message: err.Error(), Err: err}
}

// Classification is the outcome of mapping a failure for display.
// Redirect means the session must be abandoned; Message is then unused.
type Classification struct {
	Redirect bool
	Message  string
	Rule     string
}

type failureRule struct {
	name  string
	apply func(*RequestError) (string, bool)
}

// failureRules are evaluated top to bottom; the first match supplies the message.
var failureRules = []failureRule{
	{name: "detail", apply: detailStringMessage},
	{name: "detail-list", apply: detailListMessage},
	{name: "status", apply: statusMessage},
	{name: "message", apply: readableMessage},
}

// ClassifyFailure maps a fetch failure to a user-facing message, using fallback
// when nothing more specific is available. A 401 always requests a redirect.
func ClassifyFailure(err error, fallback string) Classification {
	reqErr := AsRequestError(err)
	if reqErr == nil {
		return Classification{}
	}
	result := Classification{Redirect: reqErr.Status == http.StatusUnauthorized}
	for _, rule := range failureRules {
		if message, ok := rule.apply(reqErr); ok {
			result.Message = message
			result.Rule = rule.name
			return result
		}
	}
	result.Message = fallback
	result.Rule = "fallback"
	return result
}

func detailStringMessage(e *RequestError) (string, bool) {
	detail, ok := e.Detail.(string)
	if !ok || strings.TrimSpace(detail) == "" {
		return "", false
	}
	return detail, true
}

func detailListMessage(e *RequestError) (string, bool) {
	var first any
	switch typed := e.Detail.(type) {
	case []any:
		if len(typed) == 0 {
			return "", false
		}
		first = typed[0]
	case []string:
		if len(typed) == 0 {
			return "", false
		}
		first = typed[0]
	default:
		return "", false
	}
	message, ok := first.(string)
	if !ok || strings.TrimSpace(message) == "" {
		return "", false
	}
	return message, true
}

func statusMessage(e *RequestError) (string, bool) {
	switch {
	case e.Status == http.StatusUnauthorized:
		return MessageUnauthorized, true
	case e.Status == http.StatusForbidden:
		return MessageForbidden, true
	case e.Status >= 400 && e.Status < 500:
		return MessageClientError, true
	case e.Status >= 500 && e.Status < 600:
		return MessageServerError, true
	default:
		return "", false
	}
}

func readableMessage(e *RequestError) (string, bool) {
	message := strings.TrimSpace(e.Message)
	if message == "" || strings.HasPrefix(message, rawStatusPrefix) {
		return "", false
	}
	return message, true
}
