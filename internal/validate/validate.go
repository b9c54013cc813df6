package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldType declares which sanitization and format rules apply to a value
type FieldType string

const (
	TypeEmail   FieldType = "email"
	TypePhone   FieldType = "phone"
	TypeName    FieldType = "name"
	TypeText    FieldType = "text"
	TypeMessage FieldType = "message"
	TypeSubject FieldType = "subject"
)

// Per-type maximum lengths, in characters
var maxLengths = map[FieldType]int{
	TypeEmail:   254,
	TypePhone:   20,
	TypeName:    100,
	TypeText:    10000,
	TypeMessage: 5000,
	TypeSubject: 200,
}

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9+\-() ]+$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z .'-]+$`)
)

// FieldError describes one failed validation rule for one field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Field validates and sanitizes a single raw field value. The returned string
// is the trimmed value; the error is nil when the value passes. Pure function
// over its inputs.
func Field(name, value string, fieldType FieldType, required bool) (string, *FieldError) {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		if required {
			return "", &FieldError{Field: name, Message: "field required"}
		}
		return "", nil
	}

	maxLen, ok := maxLengths[fieldType]
	if !ok {
		maxLen = maxLengths[TypeText]
	}
	if len([]rune(trimmed)) > maxLen {
		return "", &FieldError{Field: name, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}

	switch fieldType {
	case TypeEmail:
		if !emailRegex.MatchString(trimmed) {
			return "", &FieldError{Field: name, Message: "invalid email address"}
		}
	case TypePhone:
		if !phoneRegex.MatchString(trimmed) {
			return "", &FieldError{Field: name, Message: "invalid phone number"}
		}
	case TypeName:
		if !nameRegex.MatchString(trimmed) {
			return "", &FieldError{Field: name, Message: "contains invalid characters"}
		}
	}

	return trimmed, nil
}

// Rule binds a submission field to its validation type and required flag
type Rule struct {
	Field    string
	Type     FieldType
	Required bool
}

// Fields validates a whole submission against a rule set. All field errors
// are collected and returned together, never just the first one, so the
// caller can surface a complete error list. The returned map holds the
// sanitized values for every rule that passed.
func Fields(values map[string]string, rules []Rule) (map[string]string, []FieldError) {
	sanitized := make(map[string]string, len(rules))
	var errs []FieldError

	for _, rule := range rules {
		clean, err := Field(rule.Field, values[rule.Field], rule.Type, rule.Required)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		sanitized[rule.Field] = clean
	}

	return sanitized, errs
}
