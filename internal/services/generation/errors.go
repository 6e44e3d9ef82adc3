package generation

import (
	"errors"
	"fmt"
)

var (
	ErrSynthesisEmpty       = errors.New("no candidates in response")
	ErrConfigurationMissing = errors.New("image generation API key is not configured")
)

type StyleNotFoundError struct {
	ID string
}

func (e *StyleNotFoundError) Error() string {
	return fmt.Sprintf("style not found: %s", e.ID)
}

// SynthesisTransportError covers transport failures and non-2xx answers from
// the image model. StatusCode is 0 when no HTTP response was received.
type SynthesisTransportError struct {
	StatusCode int
	Body       string
}

func (e *SynthesisTransportError) Error() string {
	return fmt.Sprintf("gemini API error: %d - %s", e.StatusCode, e.Body)
}

type SynthesisBlockedError struct {
	Reason string
}

func (e *SynthesisBlockedError) Error() string {
	return fmt.Sprintf("generation blocked: %s", e.Reason)
}

type SynthesisNoImageError struct {
	Explanation string
}

func (e *SynthesisNoImageError) Error() string {
	return fmt.Sprintf("no image in response. Model said: %s", e.Explanation)
}

type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type StorageConflictError struct {
	Path string
}

func (e *StorageConflictError) Error() string {
	return fmt.Sprintf("storage conflict: object already exists at %s", e.Path)
}

type DatabaseInsertError struct {
	Err error
}

func (e *DatabaseInsertError) Error() string {
	return fmt.Sprintf("database insert failed: %v", e.Err)
}

func (e *DatabaseInsertError) Unwrap() error {
	return e.Err
}

type PromptRejectedError struct {
	Reason string
}

func (e *PromptRejectedError) Error() string {
	return fmt.Sprintf("custom prompt rejected: %s", e.Reason)
}
