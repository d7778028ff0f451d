package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"

	"github.com/mendeley/client-go/internal/apierrors"
)

const (
	// DefaultTimeout is the timeout of the HTTP client used when Settings
	// does not provide one.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxLocationHops bounds how many 201 redirects one call follows.
	DefaultMaxLocationHops = 10
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthProvider supplies bearer tokens to the dispatcher.
type AuthProvider interface {
	// Token returns the current access token, or "" when there is none.
	// It must not have side effects.
	Token() string

	// Authenticate drops any stored credential and hands control to the
	// authorization step. It never yields a token to the caller.
	Authenticate()

	// RefreshToken renews the token without user interaction. It returns
	// apierrors.ErrRefreshUnsupported when the provider cannot refresh.
	RefreshToken(ctx context.Context) error
}

// Settings configures a Dispatcher.
type Settings struct {
	// Auth is required.
	Auth AuthProvider

	// MaxRetries is how many times a call answered with 504 is resent.
	MaxRetries int

	// FollowLocation makes a 201 response with a Location header resolve
	// with the result of a GET on that location.
	FollowLocation bool

	// FileUpload reports upload progress and parses the response as JSON.
	FileUpload bool

	// ExtractHeaders lists the response headers copied into
	// Response.Headers. Nil means DefaultExtractHeaders.
	ExtractHeaders []string

	// HTTPClient sends the requests. Nil means an *http.Client with
	// DefaultTimeout.
	HTTPClient Doer

	// RetryBackoff builds the delays between 504 retries. Nil resends
	// immediately.
	RetryBackoff BackoffFactory

	// Limiter, when set, is waited on before every attempt.
	Limiter *rate.Limiter

	// Logger defaults to a null logger.
	Logger hclog.Logger

	// MaxLocationHops bounds the 201 redirects one call follows. Zero means
	// DefaultMaxLocationHops.
	MaxLocationHops int
}

// Dispatcher executes logical API calls: it authorizes each request, retries
// gateway timeouts, refreshes expired tokens and follows creation redirects.
// A Dispatcher is safe for concurrent use; calls share no state other than
// the auth provider and the limiter.
type Dispatcher struct {
	settings Settings
	client   Doer
	logger   hclog.Logger
	extract  []string
}

// New validates settings and returns a Dispatcher.
func New(settings Settings) (*Dispatcher, error) {
	var result *multierror.Error
	if settings.Auth == nil {
		result = multierror.Append(result, fmt.Errorf("%w: an auth provider is required", apierrors.ErrConfiguration))
	}
	if settings.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: max retries must not be negative, got %d", apierrors.ErrConfiguration, settings.MaxRetries))
	}
	if settings.MaxLocationHops < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: max location hops must not be negative, got %d", apierrors.ErrConfiguration, settings.MaxLocationHops))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		settings: settings,
		client:   settings.HTTPClient,
		logger:   settings.Logger,
		extract:  settings.ExtractHeaders,
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: DefaultTimeout}
	}
	if d.logger == nil {
		d.logger = hclog.NewNullLogger()
	}
	if d.extract == nil {
		d.extract = DefaultExtractHeaders
	}
	if d.settings.MaxLocationHops == 0 {
		d.settings.MaxLocationHops = DefaultMaxLocationHops
	}
	return d, nil
}

// Settings returns a copy of the dispatcher's effective settings.
func (d *Dispatcher) Settings() Settings {
	return d.settings
}

// Send executes req and blocks until the call settles.
func (d *Dispatcher) Send(ctx context.Context, req *Request) (*Response, error) {
	return d.run(ctx, newCallState(req), nil)
}

// Go executes req on its own goroutine and returns immediately.
func (d *Dispatcher) Go(ctx context.Context, req *Request) *Call {
	state := newCallState(req)
	call := newCall(state.id)
	go func() {
		res, err := d.run(ctx, state, call.notify)
		call.settle(res, err)
	}()
	return call
}

// callState is the bookkeeping of one logical call. It is owned by the
// goroutine running the call and never shared.
type callState struct {
	id        string
	original  *Request
	attempts  int
	retries   int
	refreshes int
	hops      int
}

func newCallState(req *Request) *callState {
	return &callState{
		id:       uuid.NewString(),
		original: req.Clone(),
	}
}

// outcome is what one transmission produced. status is 0 when no HTTP
// response was received.
type outcome struct {
	status     int
	statusText string
	header     http.Header
	body       []byte
	err        error
	request    *Request
}

func (d *Dispatcher) run(ctx context.Context, st *callState, notify func(Progress)) (*Response, error) {
	logger := d.logger.With("call_id", st.id)
	retry := newRetryPolicy(d.settings.MaxRetries, d.settings.RetryBackoff)
	current := st.original

	for {
		if err := ctx.Err(); err != nil {
			return nil, d.requestError(apierrors.ErrRequestFailed, st, nil, err)
		}

		token := d.settings.Auth.Token()
		if token == "" {
			logger.Debug("no access token, authenticating", "method", current.RequestMethod(), "url", current.URL)
			d.settings.Auth.Authenticate()
			return nil, &apierrors.RequestError{Kind: apierrors.ErrAuthenticationRequired, Request: st.original}
		}

		if d.settings.Limiter != nil {
			if err := d.settings.Limiter.Wait(ctx); err != nil {
				return nil, d.requestError(apierrors.ErrRequestFailed, st, nil, err)
			}
		}

		st.attempts++
		out, err := d.attempt(ctx, current, token, notify)
		if err != nil {
			logger.Debug("call failed", "attempt", st.attempts, "error", err)
			return nil, err
		}
		logger.Trace("response received",
			"method", current.RequestMethod(), "url", current.URL,
			"status", out.status, "attempt", st.attempts)

		if out.status >= 200 && out.status < 300 {
			location := out.header.Get(HeaderLocation)
			if out.status == http.StatusCreated && location != "" && d.settings.FollowLocation {
				next, err := d.followTarget(current, location)
				if err != nil {
					return nil, d.requestError(apierrors.ErrRequestFailed, st, out, err)
				}
				st.hops++
				if st.hops > d.settings.MaxLocationHops {
					return nil, d.requestError(apierrors.ErrRequestFailed, st, out,
						fmt.Errorf("more than %d location redirects", d.settings.MaxLocationHops))
				}
				logger.Debug("following location", "url", next.URL, "hop", st.hops)
				current = next
				continue
			}
			return d.complete(st, out)
		}

		if out.status == 0 && ctx.Err() != nil {
			return nil, d.requestError(apierrors.ErrRequestFailed, st, out, ctx.Err())
		}

		switch {
		case out.status == http.StatusGatewayTimeout:
			if !retry.ShouldRetry(st.retries, out.status) {
				return nil, d.requestError(apierrors.ErrGatewayTimeout, st, out, nil)
			}
			st.retries++
			logger.Debug("gateway timeout, retrying", "retry", st.retries, "max_retries", d.settings.MaxRetries)
			ok, err := retry.Wait(ctx)
			if err != nil {
				return nil, d.requestError(apierrors.ErrRequestFailed, st, out, err)
			}
			if !ok {
				return nil, d.requestError(apierrors.ErrGatewayTimeout, st, out, nil)
			}
			current = st.original

		case out.status == http.StatusUnauthorized || out.status == 0:
			var refreshErr error
			if st.refreshes > 0 {
				refreshErr = errors.New("token rejected after refresh")
			} else {
				st.refreshes++
				logger.Debug("refreshing token", "status", out.status)
				refreshErr = d.settings.Auth.RefreshToken(ctx)
			}
			if refreshErr != nil {
				logger.Debug("token refresh failed, authenticating", "error", refreshErr)
				d.settings.Auth.Authenticate()
				return nil, d.requestError(apierrors.ErrAuthenticationRequired, st, out, refreshErr)
			}
			current = st.original

		default:
			return nil, d.requestError(apierrors.ErrRequestFailed, st, out, nil)
		}
	}
}

// attempt sends one authorized copy of req. A non-nil error is terminal and
// already typed; transport failures that feed the status classification are
// reported through outcome.err with status 0.
func (d *Dispatcher) attempt(ctx context.Context, req *Request, token string, notify func(Progress)) (*outcome, error) {
	working := req.Clone()
	working.Header.Set(HeaderAuthorization, "Bearer "+token)

	body, length, err := working.openBody()
	if err != nil {
		return nil, &apierrors.RequestError{
			Kind:    apierrors.ErrRequestFailed,
			Request: req,
			Err:     fmt.Errorf("failed to open request body: %w", err),
		}
	}

	var tracker *uploadTracker
	if body != nil && (d.settings.FileUpload || req.UploadProgress) {
		tracker = newUploadTracker(body, length, notify)
		body = tracker
	}

	httpReq, err := working.newHTTPRequest(ctx, body, length)
	if err != nil {
		if body != nil {
			body.Close()
		}
		return nil, &apierrors.RequestError{Kind: apierrors.ErrRequestFailed, Request: req, Err: err}
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		if tracker != nil {
			uploadErr := tracker.fail(ctx, req, httpReq, err)
			if d.settings.FileUpload {
				return nil, uploadErr
			}
		}
		return &outcome{err: err, request: req}, nil
	}
	defer resp.Body.Close()

	if tracker != nil {
		tracker.finish()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierrors.RequestError{
			Kind:       apierrors.ErrRequestFailed,
			Request:    req,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return &outcome{
		status:     resp.StatusCode,
		statusText: resp.Status,
		header:     resp.Header,
		body:       data,
		request:    req,
	}, nil
}

// followTarget builds the internal GET for a Location header. Relative
// locations are resolved against the URL of the request that produced them.
func (d *Dispatcher) followTarget(from *Request, location string) (*Request, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", location, err)
	}
	if !loc.IsAbs() {
		base, err := url.Parse(from.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid request url: %w", err)
		}
		loc = base.ResolveReference(loc)
	}
	next := NewRequest(http.MethodGet, loc.String())
	next.ResponseKind = ResponseJSON
	return next, nil
}

func (d *Dispatcher) complete(st *callState, out *outcome) (*Response, error) {
	res := &Response{
		StatusCode: out.status,
		Status:     out.statusText,
		Header:     out.header,
		Body:       out.body,
		Headers:    ExtractHeaders(out.header, d.extract),
		Request:    out.request,
	}
	if d.settings.FileUpload {
		var parsed any
		if err := json.Unmarshal(out.body, &parsed); err != nil {
			return nil, d.requestError(apierrors.ErrMalformedUploadResponse, st, out, err)
		}
		res.JSON = parsed
	}
	return res, nil
}

func (d *Dispatcher) requestError(kind error, st *callState, out *outcome, err error) *apierrors.RequestError {
	e := &apierrors.RequestError{Kind: kind, Request: st.original, Err: err}
	if out != nil {
		e.StatusCode = out.status
		e.Status = out.statusText
		e.Header = out.header
		e.Body = out.body
		if err == nil {
			e.Err = out.err
		} else if out.err != nil {
			e.Err = errors.Join(out.err, err)
		}
	}
	return e
}
