package mendeley

import (
	"github.com/mendeley/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrConfiguration is returned when the client is built without an auth
	// provider or with invalid settings.
	ErrConfiguration = apierrors.ErrConfiguration

	// ErrAuthenticationRequired is returned when there is no usable token.
	// The auth provider has already been told to re-authenticate, so the
	// error is informational.
	ErrAuthenticationRequired = apierrors.ErrAuthenticationRequired

	// ErrGatewayTimeout is returned when the API kept answering 504.
	ErrGatewayTimeout = apierrors.ErrGatewayTimeout

	// ErrRequestFailed is returned for any other unsuccessful response.
	ErrRequestFailed = apierrors.ErrRequestFailed

	// ErrMalformedUploadResponse is returned when an upload succeeded but
	// the API answered with something other than JSON.
	ErrMalformedUploadResponse = apierrors.ErrMalformedUploadResponse

	// ErrUploadTransport is returned when an upload is aborted, times out or
	// fails before a response arrives.
	ErrUploadTransport = apierrors.ErrUploadTransport

	// ErrRefreshUnsupported is returned by auth providers that cannot renew
	// tokens.
	ErrRefreshUnsupported = apierrors.ErrRefreshUnsupported

	// ErrNoPage is returned by NextPage, PreviousPage and LastPage when the
	// API has not provided that link.
	ErrNoPage = apierrors.ErrNoPage

	// ErrMissingParameter is returned when an endpoint is called without a
	// required identifier.
	ErrMissingParameter = apierrors.ErrMissingParameter
)

// RequestError carries the request, status and body of a failed call.
// errors.Is matches it against its Kind.
type RequestError = apierrors.RequestError

// UploadError carries the event and progress of a failed upload.
type UploadError = apierrors.UploadError

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	return apierrors.StatusCode(err)
}
