package recognize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstreamProtocol reports that the recognition service broke its
	// contract, e.g. accepted a submission without returning a job handle.
	ErrUpstreamProtocol = errors.New("recognition service did not return a job handle")

	// ErrRecognitionTimeout reports that the poll loop exhausted its attempt
	// bound before the job reached a terminal state.
	ErrRecognitionTimeout = errors.New("recognition did not complete in time")
)

// UnsupportedMediaTypeError rejects an upload before any outbound call is made.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q, accepted: %s", e.MediaType, strings.Join(AcceptedMediaTypes(), ", "))
}

// RecognitionFailedError reports a terminal non-success job status.
type RecognitionFailedError struct {
	Status string
}

func (e *RecognitionFailedError) Error() string {
	return fmt.Sprintf("recognition finished with status %q", e.Status)
}
