package mendeley

import (
	"net/http"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mendeley/client-go/auth"
)

func TestDefaultConstants(t *testing.T) {
	if defaultBaseURL != "https://api.mendeley.com" {
		t.Errorf("defaultBaseURL = %s, want https://api.mendeley.com", defaultBaseURL)
	}
	if defaultTimeout != 30*time.Second {
		t.Errorf("defaultTimeout = %v, want 30s", defaultTimeout)
	}
	if defaultGetRetries != 1 {
		t.Errorf("defaultGetRetries = %d, want 1", defaultGetRetries)
	}
}

func TestWithBaseURL(t *testing.T) {
	cfg := &clientConfig{}
	WithBaseURL("https://custom.example.com")(cfg)
	if cfg.baseURL != "https://custom.example.com" {
		t.Errorf("baseURL = %s, want https://custom.example.com", cfg.baseURL)
	}
}

func TestWithHTTPClient(t *testing.T) {
	cfg := &clientConfig{}
	customClient := &http.Client{Timeout: 99 * time.Second}
	WithHTTPClient(customClient)(cfg)
	if cfg.httpClient != customClient {
		t.Error("httpClient was not set")
	}
}

func TestWithTimeout(t *testing.T) {
	cfg := &clientConfig{}
	WithTimeout(5 * time.Second)(cfg)
	if cfg.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.timeout)
	}
}

func TestWithLogger(t *testing.T) {
	cfg := &clientConfig{}
	logger := hclog.NewNullLogger()
	WithLogger(logger)(cfg)
	if cfg.logger != logger {
		t.Error("logger was not set")
	}
}

func TestWithRetryBackoff(t *testing.T) {
	cfg := &clientConfig{}
	WithRetryBackoff(ConstantBackoff(10 * time.Millisecond))(cfg)
	if cfg.retryBackoff == nil {
		t.Fatal("retryBackoff was not set")
	}
	if got := cfg.retryBackoff().NextBackOff(); got != 10*time.Millisecond {
		t.Errorf("NextBackOff() = %v, want 10ms", got)
	}
}

func TestWithRateLimit(t *testing.T) {
	cfg := &clientConfig{}
	WithRateLimit(5, 2)(cfg)
	if cfg.limiter == nil {
		t.Fatal("limiter was not set")
	}
	if cfg.limiter.Burst() != 2 {
		t.Errorf("Burst() = %d, want 2", cfg.limiter.Burst())
	}
	if float64(cfg.limiter.Limit()) != 5 {
		t.Errorf("Limit() = %v, want 5", cfg.limiter.Limit())
	}
}

func TestWithMaxRetries(t *testing.T) {
	tests := []int{0, 1, 5}
	for _, n := range tests {
		cfg := &clientConfig{}
		WithMaxRetries(n)(cfg)
		if cfg.getRetries != n {
			t.Errorf("getRetries = %d, want %d", cfg.getRetries, n)
		}
	}
}

func TestWithMaxLocationHops(t *testing.T) {
	cfg := &clientConfig{}
	WithMaxLocationHops(3)(cfg)
	if cfg.maxLocationHops != 3 {
		t.Errorf("maxLocationHops = %d, want 3", cfg.maxLocationHops)
	}
}

func TestNew_CustomHTTPClientWins(t *testing.T) {
	customClient := &http.Client{Timeout: 99 * time.Second}
	c, err := New(auth.NewStatic("t"), WithHTTPClient(customClient), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.cfg.httpClient != customClient {
		t.Error("custom http client was replaced")
	}
}
