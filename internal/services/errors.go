package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/desertthunder/shadowkick/internal/shared"
)

const (
	// GenericMessage is shown when the service gave nothing usable.
	GenericMessage = "Something went wrong; please try again later."
	// UnexpectedMessage replaces an error body that normalized to an empty string.
	UnexpectedMessage = "An unexpected error occurred."
)

// ErrorKind tags the shape of a backend error body.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindPlainMessage
	KindFieldErrors
	KindIssueList
)

func (k ErrorKind) String() string {
	switch k {
	case KindPlainMessage:
		return "plain"
	case KindFieldErrors:
		return "fields"
	case KindIssueList:
		return "issues"
	default:
		return "generic"
	}
}

// FieldError is one entry of an {"errors": {field: message}} body.
type FieldError struct {
	Field   string
	Message string
}

// BackendError is a parsed error body. Only the fields matching Kind are set.
type BackendError struct {
	Kind   ErrorKind
	Text   string
	Fields []FieldError
	Issues []string
}

// Message flattens the error into the single line-oriented text shown to users.
func (b BackendError) Message() string {
	var msg string
	switch b.Kind {
	case KindPlainMessage:
		msg = b.Text
	case KindFieldErrors:
		lines := make([]string, 0, len(b.Fields))
		for _, f := range b.Fields {
			lines = append(lines, f.Field+": "+f.Message)
		}
		msg = strings.Join(lines, "\n")
	case KindIssueList:
		msg = strings.Join(b.Issues, "\n")
	default:
		return GenericMessage
	}

	if msg == "" {
		return UnexpectedMessage
	}
	return msg
}

// ParseBackendError classifies an error response body.
//
// A bare JSON string is used verbatim, then a non-empty "message", then "errors" as either a
// field mapping (kept in body order) or an issue list. Anything else is generic.
func ParseBackendError(body []byte) BackendError {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return BackendError{Kind: KindGeneric}
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return BackendError{Kind: KindPlainMessage, Text: text}
	}

	var obj struct {
		Message json.RawMessage `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return BackendError{Kind: KindGeneric}
	}

	if msg := rawText(obj.Message); msg != "" {
		return BackendError{Kind: KindPlainMessage, Text: msg}
	}

	errs := bytes.TrimSpace(obj.Errors)
	if len(errs) == 0 {
		return BackendError{Kind: KindGeneric}
	}

	switch errs[0] {
	case '{':
		if fields, err := parseFieldErrors(errs); err == nil {
			return BackendError{Kind: KindFieldErrors, Fields: fields}
		}
	case '[':
		if issues, err := parseIssues(errs); err == nil {
			return BackendError{Kind: KindIssueList, Issues: issues}
		}
	}
	return BackendError{Kind: KindGeneric}
}

// parseFieldErrors walks the mapping token by token so keys keep their body order.
func parseFieldErrors(raw []byte) ([]FieldError, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var fields []FieldError
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, FieldError{Field: key, Message: rawText(value)})
	}
	return fields, nil
}

func parseIssues(raw []byte) ([]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	issues := make([]string, 0, len(entries))
	for _, entry := range entries {
		var issue struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(entry, &issue); err == nil && issue.Msg != "" {
			issues = append(issues, issue.Msg)
			continue
		}
		issues = append(issues, compact(entry))
	}
	return issues, nil
}

// rawText returns a JSON string's value, or the compact JSON text of any other non-null value.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return compact(raw)
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// APIError is the terminal error of a failed remote call.
//
// Error returns the normalized message. Unwrap exposes [shared.ErrAPIRequest], a status
// sentinel where one applies, and the transport error when there was no response.
type APIError struct {
	StatusCode int
	RequestID  string
	Backend    BackendError
	Err        error
}

func (e *APIError) Error() string {
	return e.Backend.Message()
}

func (e *APIError) Unwrap() []error {
	errs := []error{shared.ErrAPIRequest}
	switch e.StatusCode {
	case http.StatusNotFound:
		errs = append(errs, shared.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		errs = append(errs, shared.ErrAuthFailed)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		errs = append(errs, shared.ErrServiceUnavailable)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NormalizeError returns the text a view shows for err.
func NormalizeError(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
