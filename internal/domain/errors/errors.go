package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure within the transaction pipeline
type ErrorType string

const (
	// ErrorTypeValidation: bad input, no OS interaction attempted
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeSnapshot: the pre-change read of the interface failed
	ErrorTypeSnapshot ErrorType = "SNAPSHOT"

	// ErrorTypeUndoRecord: the durable undo write failed; the interface was not touched
	ErrorTypeUndoRecord ErrorType = "UNDO_RECORD"

	// ErrorTypePermission: the OS refused for lack of privileges; user-recoverable
	ErrorTypePermission ErrorType = "PERMISSION"

	// ErrorTypeApply: one or more intents failed, possibly mid-sequence
	ErrorTypeApply ErrorType = "APPLY"

	// ErrorTypeTimeout: an OS utility exceeded its bounded execution time
	ErrorTypeTimeout ErrorType = "TIMEOUT"

	// ErrorTypeNoUndo: undo requested with nothing to restore
	ErrorTypeNoUndo ErrorType = "NO_UNDO"

	// ErrorTypeSystem: everything else (spawn failures, storage, parsing)
	ErrorTypeSystem ErrorType = "SYSTEM"
)

// DomainError is the error type carried through the engine. Key is a
// translation key resolved by the caller; Message is operator-log detail only.
type DomainError struct {
	Type    ErrorType
	Key     string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches DomainErrors by type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Constructors

// NewValidationError reports rejected input; no side effects occurred
func NewValidationError(key, message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Key: key, Message: message, Cause: cause}
}

// NewSnapshotError reports a failed pre-change read; no side effects occurred
func NewSnapshotError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeSnapshot, Key: "snapshot_failed", Message: message, Cause: cause}
}

// NewUndoRecordError reports a failed durable undo write; the interface was not touched
func NewUndoRecordError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeUndoRecord, Key: "undo_record_failed", Message: message, Cause: cause}
}

// NewPermissionError reports a privilege-denied utility exit
func NewPermissionError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypePermission, Key: "permission_denied", Message: message, Cause: cause}
}

// NewApplyError reports a failed intent
func NewApplyError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeApply, Key: "apply_failed", Message: message, Cause: cause}
}

// NewTimeoutError reports an OS utility that exceeded its bounded timeout
func NewTimeoutError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeTimeout, Key: "command_timeout", Message: message}
}

// NewNoUndoError reports an undo request with no retained snapshot
func NewNoUndoError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeNoUndo, Key: "undo_no_backup", Message: message}
}

// NewSystemError reports an internal failure
func NewSystemError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeSystem, Key: "internal_error", Message: message, Cause: cause}
}

// Type check helpers

func isType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsValidationError reports whether err is a validation failure
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsSnapshotError reports whether err is a failed pre-change read
func IsSnapshotError(err error) bool { return isType(err, ErrorTypeSnapshot) }

// IsUndoRecordError reports whether err is a failed undo-ledger write
func IsUndoRecordError(err error) bool { return isType(err, ErrorTypeUndoRecord) }

// IsPermissionError reports whether err is a privilege-denied failure
func IsPermissionError(err error) bool { return isType(err, ErrorTypePermission) }

// IsApplyError reports whether err is a failed intent. Timeouts count: the
// engine treats a timeout identically to any other apply failure.
func IsApplyError(err error) bool {
	return isType(err, ErrorTypeApply) || isType(err, ErrorTypeTimeout)
}

// IsTimeoutError reports whether err is specifically a timeout
func IsTimeoutError(err error) bool { return isType(err, ErrorTypeTimeout) }

// IsNoUndoError reports whether err is an undo with nothing to restore
func IsNoUndoError(err error) bool { return isType(err, ErrorTypeNoUndo) }

// IsSystemError reports whether err is an internal failure
func IsSystemError(err error) bool { return isType(err, ErrorTypeSystem) }

// TypeOf extracts the taxonomy type from a DomainError; non-domain errors
// classify as SYSTEM
func TypeOf(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeSystem
}

// KeyOf extracts the translation key from a DomainError, or a generic key
func KeyOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Key != "" {
		return domainErr.Key
	}
	return "internal_error"
}
