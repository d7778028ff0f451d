// Package config loads client settings from a YAML or HCL file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mendeley/client-go/internal/apierrors"
)

// Authentication flows.
const (
	FlowImplicit = "implicit"
	FlowAuthCode = "authcode"
	FlowStatic   = "static"
)

// Environment variables that override the file.
const (
	EnvClientID     = "MENDELEY_CLIENT_ID"
	EnvClientSecret = "MENDELEY_CLIENT_SECRET"
	EnvAccessToken  = "MENDELEY_ACCESS_TOKEN"
)

// Config is the file representation of a client. Durations are strings in
// time.ParseDuration syntax.
type Config struct {
	BaseURL string `hcl:"base_url,optional" yaml:"base_url" json:"base_url"`

	// Flow is one of implicit, authcode or static. When empty it is static
	// if an access token is available and implicit otherwise.
	Flow string `hcl:"flow,optional" yaml:"flow" json:"flow"`

	ClientID     string `hcl:"client_id,optional" yaml:"client_id" json:"client_id"`
	ClientSecret string `hcl:"client_secret,optional" yaml:"client_secret" json:"client_secret"`
	RedirectURL  string `hcl:"redirect_url,optional" yaml:"redirect_url" json:"redirect_url"`
	Scope        string `hcl:"scope,optional" yaml:"scope" json:"scope"`
	AuthorizeURL string `hcl:"authorize_url,optional" yaml:"authorize_url" json:"authorize_url"`
	TokenURL     string `hcl:"token_url,optional" yaml:"token_url" json:"token_url"`
	RefreshURL   string `hcl:"refresh_url,optional" yaml:"refresh_url" json:"refresh_url"`
	AccessToken  string `hcl:"access_token,optional" yaml:"access_token" json:"access_token"`

	// TokenDir keeps tokens across runs. Empty means memory only.
	TokenDir string `hcl:"token_dir,optional" yaml:"token_dir" json:"token_dir"`
	TokenTTL string `hcl:"token_ttl,optional" yaml:"token_ttl" json:"token_ttl"`

	Timeout    string  `hcl:"timeout,optional" yaml:"timeout" json:"timeout"`
	MaxRetries *int    `hcl:"max_retries,optional" yaml:"max_retries" json:"max_retries"`
	RetryDelay string  `hcl:"retry_delay,optional" yaml:"retry_delay" json:"retry_delay"`
	RateLimit  float64 `hcl:"rate_limit,optional" yaml:"rate_limit" json:"rate_limit"`
	RateBurst  int     `hcl:"rate_burst,optional" yaml:"rate_burst" json:"rate_burst"`
}

// Load reads the file at path from fs, applies environment overrides and
// validates the result. A nil fs means the operating system filesystem.
func Load(fs afero.Fs, path string) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(path, src)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes src. The format follows the extension of filename: .yaml and
// .yml are YAML, .hcl and .json go through HCL.
func Parse(filename string, src []byte) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(src, cfg); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", filename, err)
		}
	case ".hcl", ".json":
		if err := hclsimple.Decode(filename, src, nil, cfg); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file extension %q", apierrors.ErrConfiguration, filepath.Ext(filename))
	}
	return cfg, nil
}

// FromEnv builds a configuration from the environment alone.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides credentials with the environment variables found by
// lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvClientID); ok && v != "" {
		c.ClientID = v
	}
	if v, ok := lookup(EnvClientSecret); ok && v != "" {
		c.ClientSecret = v
	}
	if v, ok := lookup(EnvAccessToken); ok && v != "" {
		c.AccessToken = v
	}
}

func (c *Config) applyDefaults() {
	if c.Flow == "" {
		if c.AccessToken != "" {
			c.Flow = FlowStatic
		} else {
			c.Flow = FlowImplicit
		}
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	needsClient := c.Flow == FlowImplicit || c.Flow == FlowAuthCode

	err := validation.ValidateStruct(c,
		validation.Field(&c.Flow, validation.Required, validation.In(FlowImplicit, FlowAuthCode, FlowStatic)),
		validation.Field(&c.ClientID, validation.When(needsClient, validation.Required)),
		validation.Field(&c.RedirectURL, validation.When(needsClient, validation.Required), validation.By(absoluteURL)),
		validation.Field(&c.AccessToken, validation.When(c.Flow == FlowStatic, validation.Required)),
		validation.Field(&c.BaseURL, validation.By(absoluteURL)),
		validation.Field(&c.AuthorizeURL, validation.By(absoluteURL)),
		validation.Field(&c.TokenURL, validation.By(absoluteURL)),
		validation.Field(&c.RefreshURL, validation.By(absoluteURL)),
		validation.Field(&c.TokenTTL, validation.By(duration)),
		validation.Field(&c.Timeout, validation.By(duration)),
		validation.Field(&c.RetryDelay, validation.By(duration)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
		validation.Field(&c.RateBurst, validation.Min(0)),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var result *multierror.Error
	for _, name := range names {
		result = multierror.Append(result, fmt.Errorf("%w: %s: %v", apierrors.ErrConfiguration, name, fieldErrs[name]))
	}
	return result.ErrorOrNil()
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute url")
	}
	return nil
}

func duration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 30s")
	}
	if d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// parseDuration returns the validated duration s, or def when s is empty.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
