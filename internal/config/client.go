package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"

	mendeley "github.com/mendeley/client-go"
	"github.com/mendeley/client-go/auth"
	"github.com/mendeley/client-go/internal/apierrors"
)

// ClientOptions translates the transport settings into client options.
func (c *Config) ClientOptions(logger hclog.Logger) []mendeley.Option {
	var opts []mendeley.Option
	if c.BaseURL != "" {
		opts = append(opts, mendeley.WithBaseURL(c.BaseURL))
	}
	if c.Timeout != "" {
		opts = append(opts, mendeley.WithTimeout(parseDuration(c.Timeout, 0)))
	}
	if c.MaxRetries != nil {
		opts = append(opts, mendeley.WithMaxRetries(*c.MaxRetries))
	}
	if delay := parseDuration(c.RetryDelay, 0); delay > 0 {
		opts = append(opts, mendeley.WithRetryBackoff(mendeley.ConstantBackoff(delay)))
	}
	if c.RateLimit > 0 {
		burst := c.RateBurst
		if burst == 0 {
			burst = 1
		}
		opts = append(opts, mendeley.WithRateLimit(c.RateLimit, burst))
	}
	if logger != nil {
		opts = append(opts, mendeley.WithLogger(logger))
	}
	return opts
}

// Store returns the token store: a file store under TokenDir when set, a
// memory store otherwise.
func (c *Config) Store(fs afero.Fs) auth.Store {
	if c.TokenDir == "" {
		return auth.NewMemoryStore()
	}
	return auth.NewFileStore(fs, c.TokenDir)
}

// Provider builds the auth provider for the configured flow. The concrete
// type is *auth.ImplicitGrant, *auth.AuthCodeFlow or *auth.Static.
func (c *Config) Provider(store auth.Store, opener auth.Opener, logger hclog.Logger) (mendeley.AuthProvider, error) {
	ttl := c.TTL()
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	switch c.Flow {
	case FlowStatic:
		return auth.NewStatic(c.AccessToken), nil

	case FlowImplicit:
		grant, err := auth.NewImplicitGrant(auth.ImplicitConfig{
			ClientID:     c.ClientID,
			RedirectURL:  c.RedirectURL,
			AuthorizeURL: c.AuthorizeURL,
			Scope:        c.Scope,
			Store:        store,
			TTL:          ttl,
			Opener:       opener,
			Logger:       logger.Named("auth"),
		})
		if err != nil {
			return nil, err
		}
		return grant, nil

	case FlowAuthCode:
		flow, err := auth.NewAuthCodeFlow(auth.AuthCodeConfig{
			RefreshURL: c.RefreshURL,
			OAuth2:     c.OAuth2(),
			Store:      store,
			TTL:        ttl,
			Opener:     opener,
			Logger:     logger.Named("auth"),
		})
		if err != nil {
			return nil, err
		}
		return flow, nil
	}
	return nil, fmt.Errorf("%w: unknown flow %q", apierrors.ErrConfiguration, c.Flow)
}

// OAuth2 returns the code grant configuration.
func (c *Config) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       []string{orDefault(c.Scope, auth.DefaultScope)},
		Endpoint: oauth2.Endpoint{
			AuthURL:  orDefault(c.AuthorizeURL, auth.DefaultAuthorizeURL),
			TokenURL: orDefault(c.TokenURL, auth.DefaultTokenURL),
		},
	}
}

// TTL returns the configured token lifetime.
func (c *Config) TTL() time.Duration {
	return parseDuration(c.TokenTTL, auth.DefaultTTL)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
