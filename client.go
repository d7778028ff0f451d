package mendeley

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/mendeley/client-go/internal/api"
)

// AuthProvider supplies bearer tokens. The auth package provides the
// implicit grant and authorization code implementations.
type AuthProvider = api.AuthProvider

// Response is the result of a successful call. Use Decode to read the
// resource it carries.
type Response = api.Response

// ExtractedHeaders holds the pagination headers of a response.
type ExtractedHeaders = api.ExtractedHeaders

// Progress is one upload progress notification.
type Progress = api.Progress

// Client talks to the Mendeley API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	auth    AuthProvider
	cfg     *clientConfig
	logger  hclog.Logger

	// Documents manages the user's library.
	Documents *DocumentsService
	// Folders manages folders and their contents.
	Folders *FoldersService
	// Files manages files attached to documents.
	Files *FilesService
	// Catalog searches the Mendeley catalog.
	Catalog *CatalogService
	// Trash manages trashed documents.
	Trash *TrashService
}

// New creates a client that authorizes every call through provider.
func New(provider AuthProvider, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		getRetries: defaultGetRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var result *multierror.Error
	if provider == nil {
		result = multierror.Append(result, fmt.Errorf("%w: an auth provider is required", ErrConfiguration))
	}
	base, err := url.Parse(strings.TrimRight(cfg.baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		result = multierror.Append(result, fmt.Errorf("%w: invalid base url %q", ErrConfiguration, cfg.baseURL))
	}
	if cfg.getRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: max retries must not be negative, got %d", ErrConfiguration, cfg.getRetries))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}
	logger := cfg.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	c := &Client{
		baseURL: base,
		auth:    provider,
		cfg:     cfg,
		logger:  logger,
	}
	c.Documents = &DocumentsService{collection: newCollection(c)}
	c.Folders = &FoldersService{collection: newCollection(c)}
	c.Files = &FilesService{client: c}
	c.Catalog = &CatalogService{client: c}
	c.Trash = &TrashService{collection: newCollection(c)}
	return c, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// dispatchOptions are the per-endpoint dispatch settings.
type dispatchOptions struct {
	maxRetries     int
	followLocation bool
	fileUpload     bool
}

func (c *Client) dispatcher(opts dispatchOptions) (*api.Dispatcher, error) {
	return api.New(api.Settings{
		Auth:            c.auth,
		MaxRetries:      opts.maxRetries,
		FollowLocation:  opts.followLocation,
		FileUpload:      opts.fileUpload,
		HTTPClient:      c.cfg.httpClient,
		RetryBackoff:    c.cfg.retryBackoff,
		Limiter:         c.cfg.limiter,
		Logger:          c.logger.Named("dispatch"),
		MaxLocationHops: c.cfg.maxLocationHops,
	})
}

func (c *Client) send(ctx context.Context, req *api.Request, opts dispatchOptions) (*Response, error) {
	d, err := c.dispatcher(opts)
	if err != nil {
		return nil, err
	}
	return d.Send(ctx, req)
}
