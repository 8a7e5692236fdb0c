package tutor

import (
	"bytes"
	"encoding/json"
)

// FallbackMessage is shown when a failure body carries no usable detail
const FallbackMessage = "Request failed"

// ErrorDetail is the decoded "detail" field of a failure body. It is one of
// StringDetail, ObjectDetail or NoDetail.
type ErrorDetail interface {
	// Message resolves the detail to display text
	Message() string
	isDetail()
}

// StringDetail is a detail sent as a plain string
type StringDetail string

// ObjectDetail is a detail sent as an object. Only non-empty string
// sub-fields are kept.
type ObjectDetail struct {
	Error string
	Msg   string // the "message" sub-field
}

// NoDetail covers bodies that are not JSON or have no usable detail
type NoDetail struct{}

// Message returns the string verbatim
func (d StringDetail) Message() string { return string(d) }

// Message returns error, then message, then FallbackMessage
func (d ObjectDetail) Message() string {
	if d.Error != "" {
		return d.Error
	}
	if d.Msg != "" {
		return d.Msg
	}
	return FallbackMessage
}

// Message returns FallbackMessage
func (NoDetail) Message() string { return FallbackMessage }

func (StringDetail) isDetail() {}
func (ObjectDetail) isDetail() {}
func (NoDetail) isDetail()     {}

// ParseErrorDetail decodes a failure body into its detail variant
func ParseErrorDetail(body []byte) ErrorDetail {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return NoDetail{}
	}

	raw := bytes.TrimSpace(envelope.Detail)
	if len(raw) == 0 {
		return NoDetail{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return NoDetail{}
		}
		return StringDetail(s)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return NoDetail{}
		}
		return ObjectDetail{
			Error: stringField(fields, "error"),
			Msg:   stringField(fields, "message"),
		}
	default:
		return NoDetail{}
	}
}

// ParseErrorMessage applies the detail precedence chain to a failure body
func ParseErrorMessage(body []byte) string {
	return ParseErrorDetail(body).Message()
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
