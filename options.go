package mendeley

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/mendeley/client-go/internal/api"
)

const (
	defaultBaseURL    = "https://api.mendeley.com"
	defaultTimeout    = api.DefaultTimeout
	defaultGetRetries = 1
)

// BackoffFactory builds the delay policy used between gateway timeout
// retries of one call.
type BackoffFactory = api.BackoffFactory

// Backoff policies for WithRetryBackoff.
var (
	ConstantBackoff    = api.ConstantBackoff
	ExponentialBackoff = api.ExponentialBackoff
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	logger          hclog.Logger
	retryBackoff    BackoffFactory
	limiter         *rate.Limiter
	getRetries      int
	maxLocationHops int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. It takes precedence over
// WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRetryBackoff inserts a delay before each gateway timeout retry.
// Default: retry immediately.
func WithRetryBackoff(factory BackoffFactory) Option {
	return func(c *clientConfig) {
		c.retryBackoff = factory
	}
}

// WithRateLimit caps outgoing requests at r per second with the given burst.
// Every attempt counts, including retries and redirect follows.
func WithRateLimit(r float64, burst int) Option {
	return func(c *clientConfig) {
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithMaxRetries sets how many times a GET answered with 504 is resent.
// Default: 1
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.getRetries = count
	}
}

// WithMaxLocationHops bounds how many 201 redirects a create or update
// follows. Default: 10
func WithMaxLocationHops(hops int) Option {
	return func(c *clientConfig) {
		c.maxLocationHops = hops
	}
}
