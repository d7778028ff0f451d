package mendeley

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mendeley/client-go/internal/api"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrConfiguration", ErrConfiguration},
		{"ErrAuthenticationRequired", ErrAuthenticationRequired},
		{"ErrGatewayTimeout", ErrGatewayTimeout},
		{"ErrRequestFailed", ErrRequestFailed},
		{"ErrMalformedUploadResponse", ErrMalformedUploadResponse},
		{"ErrUploadTransport", ErrUploadTransport},
		{"ErrRefreshUnsupported", ErrRefreshUnsupported},
		{"ErrNoPage", ErrNoPage},
		{"ErrMissingParameter", ErrMissingParameter},
	}

	for _, s := range sentinels {
		t.Run(s.name, func(t *testing.T) {
			if s.err == nil {
				t.Fatal("sentinel error is nil")
			}
			if s.err.Error() == "" {
				t.Error("sentinel error has empty message")
			}
		})
	}
}

func TestRequestError_KindMatching(t *testing.T) {
	err := &RequestError{
		Kind:       ErrRequestFailed,
		Request:    api.NewRequest(http.MethodGet, "https://api.example.test/documents"),
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
	}

	if !errors.Is(err, ErrRequestFailed) {
		t.Error("errors.Is(err, ErrRequestFailed) = false, want true")
	}
	if errors.Is(err, ErrGatewayTimeout) {
		t.Error("errors.Is(err, ErrGatewayTimeout) = true, want false")
	}

	wrapped := fmt.Errorf("listing: %w", err)
	var reqErr *RequestError
	if !errors.As(wrapped, &reqErr) {
		t.Fatal("errors.As failed on wrapped RequestError")
	}
	if got := StatusCode(wrapped); got != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
}

func TestStatusCode_NonAPIError(t *testing.T) {
	if got := StatusCode(errors.New("boom")); got != 0 {
		t.Errorf("StatusCode() = %d, want 0", got)
	}
	if got := StatusCode(nil); got != 0 {
		t.Errorf("StatusCode(nil) = %d, want 0", got)
	}
}

func TestClientErrors_FromServer(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrRequestFailed},
		{"server error", http.StatusInternalServerError, ErrRequestFailed},
		{"gateway timeout", http.StatusGatewayTimeout, ErrGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAPI(t, respond(tt.status, `{"message":"nope"}`))
			c := newTestClient(t, fake, WithMaxRetries(0))

			_, err := c.Documents.Retrieve(context.Background(), "d1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := StatusCode(err); got != tt.status {
				t.Errorf("StatusCode() = %d, want %d", got, tt.status)
			}
		})
	}
}
