package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeExtraction represents failures to reach or read the review feed
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeScoring represents sentiment-scoring failures
	ErrorTypeScoring ErrorType = "scoring"
	// ErrorTypeConflict represents natural-key collisions in the store
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeStore represents store connection/transaction failures
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeCooldown represents a blocked re-extraction inside the cooldown window
	ErrorTypeCooldown ErrorType = "cooldown"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// AnalysisError represents a pipeline-specific error
type AnalysisError struct {
	Type     ErrorType
	Hospital string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Hospital, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Hospital, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *AnalysisError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeExtraction:
		return true
	case ErrorTypeScoring:
		return true
	case ErrorTypeCooldown:
		return false
	case ErrorTypeStore:
		return false
	default:
		return false
	}
}

// New creates a new AnalysisError
func New(errType ErrorType, hospital, message string, err error) *AnalysisError {
	return &AnalysisError{
		Type:     errType,
		Hospital: hospital,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewExtraction creates a new extraction error
func NewExtraction(hospital, message string, err error) *AnalysisError {
	return New(ErrorTypeExtraction, hospital, message, err)
}

// NewScoring creates a new scoring error
func NewScoring(hospital, message string, err error) *AnalysisError {
	return New(ErrorTypeScoring, hospital, message, err)
}

// NewConflict creates a new conflict error
func NewConflict(hospital, message string, err error) *AnalysisError {
	return New(ErrorTypeConflict, hospital, message, err)
}

// NewStore creates a new store error
func NewStore(hospital, message string, err error) *AnalysisError {
	return New(ErrorTypeStore, hospital, message, err)
}

// NewCooldown creates a new cooldown error
func NewCooldown(hospital string, window time.Duration) *AnalysisError {
	message := fmt.Sprintf("extraction blocked for %v", window)
	return New(ErrorTypeCooldown, hospital, message, nil)
}

// NewPublisher creates a new publisher error
func NewPublisher(hospital, message string, err error) *AnalysisError {
	return New(ErrorTypePublisher, hospital, message, err)
}

// NewValidation creates a new validation error
func NewValidation(hospital, message string) *AnalysisError {
	return New(ErrorTypeValidation, hospital, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *AnalysisError {
	return New(ErrorTypeConfiguration, "", message, err)
}
