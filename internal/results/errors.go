// Package results implements the layered error classification and the
// uniform success/failure envelope every service operation returns.
//
// Repositories return plain wrapped errors; services re-classify them into
// *StandardError; HTTP controllers render the envelope with the user-facing
// message and correlation id. Nothing crosses a layer boundary unclassified.
package results

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryValidation    Category = "VALIDATION"
	CategoryNetwork       Category = "NETWORK"
	CategoryAuthorization Category = "AUTHORIZATION"
	CategoryBusinessLogic Category = "BUSINESS_LOGIC"
	CategorySystem        Category = "SYSTEM"
	CategoryUnknown       Category = "UNKNOWN"
)

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// StandardError is the fully-described error shape surfaced to callers.
// Values are immutable: the With* methods return modified copies.
type StandardError struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Category    Category       `json:"category"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`      // technical, for logs
	UserMessage string         `json:"user_message"` // safe to show
	Timestamp   time.Time      `json:"timestamp"`
	Context     map[string]any `json:"context,omitempty"`
	Recoverable bool           `json:"recoverable"`
	Retryable   bool           `json:"retryable"`

	cause error
}

// Options fully specifies a StandardError. Zero fields fall back to
// defaults: category UNKNOWN, severity MEDIUM, recoverable true,
// retryable false.
type Options struct {
	Type        string
	Category    Category
	Severity    Severity
	Message     string
	UserMessage string
	Context     map[string]any
	Cause       error
	Recoverable *bool
	Retryable   *bool
}

// New builds a StandardError from a fully-specified options record. It is
// the single construction path; the fluent With* methods are sugar over it.
func New(opts Options) *StandardError {
	e := &StandardError{
		ID:          uuid.NewString(),
		Type:        opts.Type,
		Category:    opts.Category,
		Severity:    opts.Severity,
		Message:     opts.Message,
		UserMessage: opts.UserMessage,
		Timestamp:   time.Now(),
		Recoverable: true,
		Retryable:   false,
		cause:       opts.Cause,
	}
	if e.Category == "" {
		e.Category = CategoryUnknown
	}
	if e.Severity == "" {
		e.Severity = SeverityMedium
	}
	if e.Type == "" {
		e.Type = "error"
	}
	if e.UserMessage == "" {
		e.UserMessage = "Something went wrong. Please try again."
	}
	if opts.Recoverable != nil {
		e.Recoverable = *opts.Recoverable
	}
	if opts.Retryable != nil {
		e.Retryable = *opts.Retryable
	}
	if len(opts.Context) > 0 {
		e.Context = make(map[string]any, len(opts.Context))
		for k, v := range opts.Context {
			e.Context[k] = v
		}
	}
	return e
}

func (e *StandardError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.Category, e.Severity, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Category, e.Severity, e.Message)
}

// Unwrap exposes the original error for errors.Is/As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// clone returns a shallow copy with its own context map.
func (e *StandardError) clone() *StandardError {
	c := *e
	if e.Context != nil {
		c.Context = make(map[string]any, len(e.Context))
		for k, v := range e.Context {
			c.Context[k] = v
		}
	}
	return &c
}

// WithType returns a copy with the type tag replaced.
func (e *StandardError) WithType(t string) *StandardError {
	c := e.clone()
	c.Type = t
	return c
}

// WithCategory returns a copy with the category replaced.
func (e *StandardError) WithCategory(cat Category) *StandardError {
	c := e.clone()
	c.Category = cat
	return c
}

// WithSeverity returns a copy with the severity replaced.
func (e *StandardError) WithSeverity(sev Severity) *StandardError {
	c := e.clone()
	c.Severity = sev
	return c
}

// WithUserMessage returns a copy with the user-facing message replaced.
func (e *StandardError) WithUserMessage(msg string) *StandardError {
	c := e.clone()
	c.UserMessage = msg
	return c
}

// WithContext returns a copy whose context map gains the given entries.
// Entries accumulate across calls; existing keys are overwritten per key,
// never wholesale.
func (e *StandardError) WithContext(ctx map[string]any) *StandardError {
	c := e.clone()
	if c.Context == nil {
		c.Context = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		c.Context[k] = v
	}
	return c
}

// WithCause returns a copy wrapping the given original error.
func (e *StandardError) WithCause(cause error) *StandardError {
	c := e.clone()
	c.cause = cause
	return c
}

// WithRecoverable returns a copy with the recoverable flag set.
func (e *StandardError) WithRecoverable(v bool) *StandardError {
	c := e.clone()
	c.Recoverable = v
	return c
}

// WithRetryable returns a copy with the retryable flag set.
func (e *StandardError) WithRetryable(v bool) *StandardError {
	c := e.clone()
	c.Retryable = v
	return c
}

func boolPtr(v bool) *bool { return &v }

// Validation builds a caller-input error: low severity, never retryable,
// recoverable by correcting the input.
func Validation(message, userMessage string) *StandardError {
	return New(Options{
		Type:        "validation_error",
		Category:    CategoryValidation,
		Severity:    SeverityLow,
		Message:     message,
		UserMessage: userMessage,
		Retryable:   boolPtr(false),
	})
}

// Network builds a storage/connectivity error: retryable by definition.
func Network(message string, cause error) *StandardError {
	return New(Options{
		Type:      "network_error",
		Category:  CategoryNetwork,
		Severity:  SeverityMedium,
		Message:   message,
		Cause:     cause,
		Retryable: boolPtr(true),
	})
}

// Authorization builds a permission error: high severity, not recoverable
// without a permission change.
func Authorization(message, userMessage string) *StandardError {
	return New(Options{
		Type:        "authorization_error",
		Category:    CategoryAuthorization,
		Severity:    SeverityHigh,
		Message:     message,
		UserMessage: userMessage,
		Recoverable: boolPtr(false),
	})
}

// BusinessLogic builds a domain-rule error, such as an illegal state
// transition.
func BusinessLogic(message, userMessage string) *StandardError {
	return New(Options{
		Type:        "business_rule_error",
		Category:    CategoryBusinessLogic,
		Severity:    SeverityMedium,
		Message:     message,
		UserMessage: userMessage,
		Retryable:   boolPtr(false),
	})
}

// Classify wraps an arbitrary error into a StandardError of the given
// category, applying the per-category severity and retryability policy.
// An error that already is a StandardError passes through untouched.
func Classify(err error, category Category) *StandardError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*StandardError); ok {
		return se
	}
	if category == "" {
		category = CategoryUnknown
	}

	opts := Options{
		Type:     "classified_error",
		Category: category,
		Message:  err.Error(),
		Cause:    err,
	}

	switch category {
	case CategoryValidation:
		opts.Severity = SeverityLow
		opts.Retryable = boolPtr(false)
	case CategoryNetwork:
		opts.Severity = SeverityMedium
		opts.Retryable = boolPtr(true)
	case CategoryAuthorization:
		opts.Severity = SeverityHigh
		opts.Recoverable = boolPtr(false)
	case CategoryBusinessLogic:
		opts.Severity = SeverityMedium
		opts.Retryable = boolPtr(false)
	default:
		// SYSTEM and UNKNOWN get the permissive default: retry and hope.
		opts.Severity = SeverityHigh
		opts.Retryable = boolPtr(true)
	}

	return New(opts)
}
