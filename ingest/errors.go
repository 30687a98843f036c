package ingest

import "fmt"

// UploadErrorKind discriminates the failure classes of the upload pipeline.
type UploadErrorKind string

const (
	// ErrKindFileTooLarge: the file exceeds the configured size limit.
	// Rejected before any network call.
	ErrKindFileTooLarge UploadErrorKind = "file_too_large"
	// ErrKindInvalidType: the file is not an image MIME type. Rejected
	// before any network call.
	ErrKindInvalidType UploadErrorKind = "invalid_type"
	// ErrKindNetwork: the transfer failed at the transport level.
	ErrKindNetwork UploadErrorKind = "network"
	// ErrKindStatus: the storage endpoint answered with a non-2xx status.
	ErrKindStatus UploadErrorKind = "status"
	// ErrKindTimeout: the transfer exceeded the upload deadline. Reported
	// separately from plain network failures.
	ErrKindTimeout UploadErrorKind = "timeout"
)

// UploadError is the single typed error surfaced by Uploader.Upload.
type UploadError struct {
	Kind    UploadErrorKind
	Message string
	Cause   error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

func newUploadError(kind UploadErrorKind, message string, cause error) *UploadError {
	return &UploadError{Kind: kind, Message: message, Cause: cause}
}
