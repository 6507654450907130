// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError is an error carrying context for user-facing messages:
// what operation failed, what resource was involved, and suggestions for how
// to fix it. The CLI layer renders the suggestions; wrapped code only builds
// them.
//
//	return issue.Wrap(err, "load configuration").
//		WithResource(path).
//		WithSuggestion("Check the YAML syntax")
type ActionableError struct {
	// Operation describes what was being attempted (e.g. "apply mode").
	Operation string

	// Resource identifies the file, path or entity involved (optional).
	Resource string

	// Suggestions are hints on how to fix the issue (optional).
	Suggestions []string

	// Cause is the underlying error.
	Cause error
}

// Wrap attaches operation context to err. Returns nil when err is nil.
func Wrap(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WithResource sets the involved resource and returns the error for chaining.
func (e *ActionableError) WithResource(resource string) *ActionableError {
	e.Resource = resource
	return e
}

// WithSuggestion appends a fix hint and returns the error for chaining.
func (e *ActionableError) WithSuggestion(suggestion string) *ActionableError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Error returns a concise message suitable for non-verbose output.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		fmt.Fprintf(&msg, ": %v", e.Cause)
	}

	return msg.String()
}

// Unwrap returns the underlying cause so errors.Is/As keep working through
// the added context.
func (e *ActionableError) Unwrap() error { return e.Cause }

// Details renders the full multi-line message including suggestions.
func (e *ActionableError) Details() string {
	var msg strings.Builder
	msg.WriteString(e.Error())
	for _, s := range e.Suggestions {
		msg.WriteString("\n  - ")
		msg.WriteString(s)
	}
	return msg.String()
}

// SuggestionsFrom collects the suggestions attached anywhere in err's chain.
func SuggestionsFrom(err error) []string {
	var suggestions []string
	for err != nil {
		var actionable *ActionableError
		if errors.As(err, &actionable) {
			suggestions = append(suggestions, actionable.Suggestions...)
			err = actionable.Cause
			continue
		}
		break
	}
	return suggestions
}
