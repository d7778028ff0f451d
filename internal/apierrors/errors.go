// Package apierrors provides shared error types for the Mendeley client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrConfiguration is returned when a dispatcher or client is wired
	// without a required collaborator, such as the auth provider.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAuthenticationRequired is returned when no usable token exists or
	// a token refresh failed. The auth provider has already been asked to
	// re-authenticate when this error is returned.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrGatewayTimeout is returned when the API kept answering 504 after
	// the retry budget was spent.
	ErrGatewayTimeout = errors.New("gateway timeout")

	// ErrRequestFailed is returned for any other unsuccessful response.
	ErrRequestFailed = errors.New("request failed")

	// ErrMalformedUploadResponse is returned when an upload succeeded but
	// the response body is not valid JSON.
	ErrMalformedUploadResponse = errors.New("malformed upload response")

	// ErrUploadTransport is returned when the upload channel reported an
	// abort, timeout or error event.
	ErrUploadTransport = errors.New("upload transport error")

	// ErrRefreshUnsupported is returned by auth providers that cannot renew
	// a token without a full re-authentication.
	ErrRefreshUnsupported = errors.New("token refresh not supported")

	// ErrNoPage is returned when a pagination link is requested that the
	// API has not provided.
	ErrNoPage = errors.New("no page for relation")

	// ErrMissingParameter is returned when a URL template variable has no value.
	ErrMissingParameter = errors.New("missing endpoint parameter")
)

// Request is the minimal view of a request descriptor carried by errors.
// It is satisfied by *api.Request.
type Request interface {
	RequestMethod() string
	RequestURL() string
}

// RequestError is returned when a logical API call fails. Kind is one of the
// sentinel errors above and is what errors.Is matches against.
type RequestError struct {
	Kind       error
	Request    Request
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	kind := "request failed"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	target := ""
	if e.Request != nil {
		target = fmt.Sprintf(" %s %s", e.Request.RequestMethod(), e.Request.RequestURL())
	}
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s:%s: status %d: %v", kind, target, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s:%s: status %d", kind, target, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s:%s: %v", kind, target, e.Err)
	}
	if target == "" {
		return kind
	}
	return kind + ":" + target
}

// Is implements errors.Is for sentinel error matching.
func (e *RequestError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// UploadError is returned when the upload channel fails before a response
// arrives. Event is one of "abort", "timeout" or "error" and Percent is the
// last progress value reported before the failure.
type UploadError struct {
	Request     Request
	HTTPRequest *http.Request
	Event       string
	Percent     int
	Err         error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %s at %d%%: %v", e.Event, e.Percent, e.Err)
	}
	return fmt.Sprintf("upload %s at %d%%", e.Event, e.Percent)
}

// Is implements errors.Is for sentinel error matching.
func (e *UploadError) Is(target error) bool {
	return target == ErrUploadTransport
}

// Unwrap returns the underlying error.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
