// Package errors provides standardized error handling for the application
// form service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Pipeline errors abort a whole assembly or packaging run.
	ErrCodeRenderFailed    ErrorCode = "RENDER_FAILED"
	ErrCodeRasterFailed    ErrorCode = "RASTER_FAILED"
	ErrCodeDocumentFailed  ErrorCode = "DOCUMENT_WRITE_FAILED"
	ErrCodePackagingFailed ErrorCode = "PACKAGING_FAILED"
	ErrCodePipelineBusy    ErrorCode = "PIPELINE_BUSY"

	// Delivery errors cover the upload and email adapters.
	ErrCodeStorageUploadFailed ErrorCode = "STORAGE_UPLOAD_FAILED"
	ErrCodeEmailSendFailed     ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeEmailInvalid        ErrorCode = "EMAIL_ADDRESS_INVALID"

	// Persistence errors are logged and never surfaced.
	ErrCodePersistenceReadFailed  ErrorCode = "PERSISTENCE_READ_FAILED"
	ErrCodePersistenceWriteFailed ErrorCode = "PERSISTENCE_WRITE_FAILED"
	ErrCodeSnapshotCorrupt        ErrorCode = "SNAPSHOT_CORRUPT"

	// Submission record errors (best-effort archive).
	ErrCodeRecordInsertFailed ErrorCode = "RECORD_INSERT_FAILED"

	// Request errors on the HTTP surface.
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrCodeNoSubmission     ErrorCode = "NO_SUBMISSION"
	ErrCodeAttachmentBounds ErrorCode = "ATTACHMENT_INDEX_OUT_OF_RANGE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRenderFailedError wraps a failure while laying out the print view.
func NewRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   "Failed to render printable form",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRasterFailedError wraps a failure while rasterizing the print view.
func NewRasterFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRasterFailed,
		Message:   "Failed to rasterize printable form",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentFailedError wraps a failure while serializing the PDF.
func NewDocumentFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentFailed,
		Message:   "Failed to write PDF document",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPackagingFailedError wraps a top-level archive failure.
func NewPackagingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePackagingFailed,
		Message:   "Cannot create package",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPipelineBusyError signals that an assembly run is already in flight.
func NewPipelineBusyError() *StandardError {
	return &StandardError{
		Code:      ErrCodePipelineBusy,
		Message:   "A document pipeline run is already in progress",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageUploadFailedError wraps an object-storage upload failure.
func NewStorageUploadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUploadFailed,
		Message:   "Failed to upload document to storage",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError wraps an email dispatch failure.
func NewEmailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Failed to send email",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailInvalidError flags a malformed email address.
func NewEmailInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailInvalid,
		Message:   "Invalid email address",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceReadFailedError wraps a draft load failure.
func NewPersistenceReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceReadFailed,
		Message:   "Failed to read persisted draft",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceWriteFailedError wraps a draft save failure.
func NewPersistenceWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceWriteFailed,
		Message:   "Failed to persist draft",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotCorruptError flags a persisted draft that fails schema checks.
func NewSnapshotCorruptError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotCorrupt,
		Message:   "Persisted draft has an unexpected shape",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordInsertFailedError wraps a submission record insert failure.
func NewRecordInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordInsertFailed,
		Message:   "Failed to record submitted application",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBadRequestError flags a malformed inbound request.
func NewBadRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBadRequest,
		Message:   "Bad request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAttachmentBoundsError flags an attachment index outside the collection.
func NewAttachmentBoundsError(index, size int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAttachmentBounds,
		Message:   "Attachment index out of range",
		Details:   fmt.Sprintf("index %d, %d attachments", index, size),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoSubmissionError signals a pipeline trigger without a submitted snapshot.
func NewNoSubmissionError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoSubmission,
		Message:   "No submitted application data available",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification
// ==========================

// Category groups errors per the recovery policy: validation errors are
// field-keyed and surfaced inline, pipeline and delivery errors surface one
// alert, persistence errors are only logged.
type Category string

const (
	CategoryPipeline    Category = "pipeline"
	CategoryDelivery    Category = "delivery"
	CategoryPersistence Category = "persistence"
	CategoryRequest     Category = "request"
	CategoryUnknown     Category = "unknown"
)

// Classify maps an error onto its category.
func Classify(err error) Category {
	var std *StandardError
	if !errors.As(err, &std) {
		return CategoryUnknown
	}

	switch std.Code {
	case ErrCodeRenderFailed, ErrCodeRasterFailed, ErrCodeDocumentFailed,
		ErrCodePackagingFailed, ErrCodePipelineBusy:
		return CategoryPipeline
	case ErrCodeStorageUploadFailed, ErrCodeEmailSendFailed, ErrCodeEmailInvalid:
		return CategoryDelivery
	case ErrCodePersistenceReadFailed, ErrCodePersistenceWriteFailed,
		ErrCodeSnapshotCorrupt, ErrCodeRecordInsertFailed:
		return CategoryPersistence
	case ErrCodeBadRequest, ErrCodeNoSubmission, ErrCodeAttachmentBounds:
		return CategoryRequest
	}
	return CategoryUnknown
}

// As is a convenience re-export so callers need not import both packages.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// UserMessage returns the single descriptive message shown to the caller.
func UserMessage(err error) string {
	var std *StandardError
	if errors.As(err, &std) {
		if std.Details != "" {
			return fmt.Sprintf("%s: %s", std.Message, std.Details)
		}
		return std.Message
	}
	return err.Error()
}
