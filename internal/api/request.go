package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ResponseKind tells the dispatcher what the caller expects back.
type ResponseKind int

const (
	// ResponseJSON expects a JSON document. This is the default.
	ResponseJSON ResponseKind = iota
	// ResponseText expects plain text.
	ResponseText
	// ResponseBinary expects an opaque byte stream.
	ResponseBinary
)

func (k ResponseKind) accept() string {
	switch k {
	case ResponseText:
		return "text/plain, */*; q=0.01"
	case ResponseBinary:
		return "*/*"
	default:
		return "application/json, */*; q=0.01"
	}
}

// Request describes one logical API call. A Request is treated as an
// immutable template: the dispatcher sends a Clone for every attempt, so the
// Authorization header never leaks back into the caller's value.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values

	// Body is sent as-is. For large uploads set Open instead, which is
	// called once per attempt.
	Body []byte

	// Open returns a fresh reader over the body. ContentLength is the size
	// of that body, or -1 when unknown.
	Open          func() (io.ReadCloser, error)
	ContentLength int64

	ResponseKind ResponseKind

	// UploadProgress asks for progress notifications while the body is
	// being sent, even when the dispatcher is not in file-upload mode.
	UploadProgress bool
}

// NewRequest creates a body-less request.
func NewRequest(method, rawURL string) *Request {
	return &Request{
		Method: method,
		URL:    rawURL,
		Header: http.Header{},
	}
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
// A nil v produces a request without a body.
func NewJSONRequest(method, rawURL string, v any) (*Request, error) {
	req := NewRequest(method, rawURL)
	if v == nil {
		return req, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req.Body = data
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// RequestMethod returns the HTTP method.
func (r *Request) RequestMethod() string {
	return strings.ToUpper(r.Method)
}

// RequestURL returns the target URL without query parameters added by Query.
func (r *Request) RequestURL() string {
	return r.URL
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	if r.Query != nil {
		c.Query = make(url.Values, len(r.Query))
		for k, v := range r.Query {
			c.Query[k] = append([]string(nil), v...)
		}
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return &c
}

func (r *Request) hasBody() bool {
	return len(r.Body) > 0 || r.Open != nil
}

// openBody returns the body reader for one attempt along with its length.
func (r *Request) openBody() (io.ReadCloser, int64, error) {
	if r.Open != nil {
		rc, err := r.Open()
		if err != nil {
			return nil, 0, err
		}
		return rc, r.ContentLength, nil
	}
	if len(r.Body) == 0 {
		return nil, 0, nil
	}
	return io.NopCloser(bytes.NewReader(r.Body)), int64(len(r.Body)), nil
}

// fullURL merges Query into URL.
func (r *Request) fullURL() (string, error) {
	u, err := url.Parse(strings.TrimSpace(r.URL))
	if err != nil {
		return "", fmt.Errorf("invalid request url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("request url %q is not absolute", r.URL)
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, values := range r.Query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (r *Request) newHTTPRequest(ctx context.Context, body io.ReadCloser, length int64) (*http.Request, error) {
	target, err := r.fullURL()
	if err != nil {
		return nil, err
	}
	method := r.RequestMethod()
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = r.Header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", r.ResponseKind.accept())
	}
	if body != nil {
		req.Body = body
		req.ContentLength = length
		if length == 0 {
			req.ContentLength = -1
		}
	}
	return req, nil
}

// Response is the settled result of a successful call.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// Headers holds the values extracted from Header according to the
	// dispatcher's extraction list.
	Headers ExtractedHeaders

	// Request is the request that produced this response. After a
	// redirect-follow this is the internal GET, not the original call.
	Request *Request

	// JSON holds the parsed body of file uploads.
	JSON any
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}
