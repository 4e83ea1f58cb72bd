package youtube

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrorKind partitions comment-fetch failures into the outcomes the
// pipeline reports to the caller. None of these are retried internally;
// quota limits make blind retries unsafe.
type ErrorKind string

const (
	ErrorCommentsDisabled ErrorKind = "comments_disabled"
	ErrorQuotaExceeded    ErrorKind = "quota_exceeded"
	ErrorNotFound         ErrorKind = "not_found"
	ErrorAccessDenied     ErrorKind = "access_denied"
	ErrorTransient        ErrorKind = "transient"
)

// FetchError is a typed, terminal outcome of a comment fetch. Message is
// human-readable and surfaced verbatim to the caller.
type FetchError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.cause }

// AsFetchError unwraps err into a *FetchError when possible.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// classifyAPIError maps a YouTube Data API failure onto the fetch error
// taxonomy. Reason strings follow the API's errors.reason values.
func classifyAPIError(err error) *FetchError {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &FetchError{
			Kind:    ErrorTransient,
			Message: fmt.Sprintf("An unexpected error occurred while fetching comments: %v", err),
			cause:   err,
		}
	}

	var reason, message string
	if len(apiErr.Errors) > 0 {
		reason = apiErr.Errors[0].Reason
		message = apiErr.Errors[0].Message
	}
	if message == "" {
		message = apiErr.Message
	}

	switch {
	case apiErr.Code == 403 && reason == "commentsDisabled":
		return &FetchError{
			Kind:    ErrorCommentsDisabled,
			Message: "Comments are disabled for this video by the creator.",
			cause:   err,
		}
	case apiErr.Code == 403 && (reason == "quotaExceeded" || reason == "dailyLimitExceeded"):
		return &FetchError{
			Kind:    ErrorQuotaExceeded,
			Message: "YouTube API quota exceeded. Please try again later or check your Google Cloud project settings.",
			cause:   err,
		}
	case apiErr.Code == 403:
		if message == "" {
			message = "Unknown reason."
		}
		return &FetchError{
			Kind:    ErrorAccessDenied,
			Message: fmt.Sprintf("Access denied (403): %s", message),
			cause:   err,
		}
	case apiErr.Code == 404:
		return &FetchError{
			Kind:    ErrorNotFound,
			Message: "Video not found. Please check the video URL.",
			cause:   err,
		}
	default:
		if message == "" {
			message = "No specific message."
		}
		return &FetchError{
			Kind:    ErrorTransient,
			Message: fmt.Sprintf("An unexpected YouTube API error occurred (status %d): %s", apiErr.Code, message),
			cause:   err,
		}
	}
}
