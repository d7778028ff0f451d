package auth

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/mendeley/client-go/internal/apierrors"
)

// ImplicitConfig configures an ImplicitGrant.
type ImplicitConfig struct {
	// ClientID and RedirectURL are required.
	ClientID    string
	RedirectURL string

	// AuthorizeURL defaults to DefaultAuthorizeURL.
	AuthorizeURL string

	// Scope defaults to DefaultScope.
	Scope string

	Store  Store
	Slot   string
	TTL    time.Duration
	Opener Opener
	Logger hclog.Logger
}

// ImplicitGrant obtains tokens through the OAuth2 implicit grant. The token
// arrives in the fragment of the redirect URL, which the application hands
// over with CaptureRedirect. Tokens obtained this way cannot be refreshed.
type ImplicitGrant struct {
	store   Store
	slot    string
	ttl     time.Duration
	opener  Opener
	logger  hclog.Logger
	authURL string

	mu       sync.Mutex
	fragment string
}

// NewImplicitGrant builds the authorization URL and, when no token is
// available yet, starts authentication right away.
func NewImplicitGrant(cfg ImplicitConfig) (*ImplicitGrant, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: a client id is required for the implicit grant flow", apierrors.ErrConfiguration)
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%w: a redirect url is required for the implicit grant flow", apierrors.ErrConfiguration)
	}

	oc := &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURL,
		Scopes:      []string{orDefault(cfg.Scope, DefaultScope)},
		Endpoint: oauth2.Endpoint{
			AuthURL: orDefault(cfg.AuthorizeURL, DefaultAuthorizeURL),
		},
	}

	g := &ImplicitGrant{
		store:   cfg.Store,
		slot:    orDefault(cfg.Slot, DefaultSlot),
		ttl:     cfg.TTL,
		opener:  cfg.Opener,
		logger:  cfg.Logger,
		authURL: implicitAuthURL(oc),
	}
	if g.store == nil {
		g.store = NewMemoryStore()
	}
	if g.ttl == 0 {
		g.ttl = DefaultTTL
	}
	if g.opener == nil {
		g.opener = BrowserOpener
	}
	if g.logger == nil {
		g.logger = hclog.NewNullLogger()
	}

	if g.Token() == "" {
		g.Authenticate()
	}
	return g, nil
}

// implicitAuthURL reuses the code grant URL builder with the response type
// switched to token. An empty state is left out of the URL.
func implicitAuthURL(oc *oauth2.Config) string {
	return oc.AuthCodeURL("", oauth2.SetAuthURLParam("response_type", "token"))
}

// AuthURL returns the authorization URL users are sent to.
func (g *ImplicitGrant) AuthURL() string {
	return g.authURL
}

// CaptureRedirect records the token carried in the fragment of the URL the
// authorization server redirected to.
func (g *ImplicitGrant) CaptureRedirect(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid redirect url: %w", err)
	}
	token, ttl := parseFragment(u.Fragment)
	if token == "" {
		return fmt.Errorf("redirect url carries no access token")
	}

	g.mu.Lock()
	g.fragment = token
	g.mu.Unlock()

	if ttl > 0 {
		return g.store.Set(g.slot, token, ttl)
	}
	return g.store.Set(g.slot, token, g.ttl)
}

// Token returns the freshest known token. A fragment token wins over the
// stored one and is written back to the store when they differ.
func (g *ImplicitGrant) Token() string {
	g.mu.Lock()
	fragment := g.fragment
	g.mu.Unlock()

	stored, _ := g.store.Get(g.slot)
	switch {
	case fragment != "" && fragment != stored:
		if err := g.store.Set(g.slot, fragment, g.ttl); err != nil {
			g.logger.Warn("failed to store access token", "slot", g.slot, "error", err)
		}
		return fragment
	case stored != "":
		return stored
	default:
		return ""
	}
}

// Authenticate clears the stored token and opens the authorization URL.
func (g *ImplicitGrant) Authenticate() {
	g.mu.Lock()
	g.fragment = ""
	g.mu.Unlock()

	if err := g.store.Delete(g.slot); err != nil {
		g.logger.Warn("failed to clear access token", "slot", g.slot, "error", err)
	}
	g.logger.Debug("opening authorization url", "url", g.authURL)
	if err := g.opener(g.authURL); err != nil {
		g.logger.Error("failed to open authorization url", "url", g.authURL, "error", err)
	}
}

// RefreshToken always reports ErrRefreshUnsupported.
func (g *ImplicitGrant) RefreshToken(ctx context.Context) error {
	return apierrors.ErrRefreshUnsupported
}

// parseFragment reads access_token and expires_in from an implicit grant
// fragment. A fragment without named parameters is taken as the token after
// the first '='.
func parseFragment(fragment string) (string, time.Duration) {
	if fragment == "" {
		return "", 0
	}
	values, err := url.ParseQuery(fragment)
	if err == nil && values.Has("error") {
		return "", 0
	}
	if err == nil && values.Get("access_token") != "" {
		var ttl time.Duration
		if secs, err := strconv.Atoi(values.Get("expires_in")); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
		return values.Get("access_token"), ttl
	}
	if _, token, ok := strings.Cut(fragment, "="); ok {
		token, _, _ = strings.Cut(token, "&")
		return token, 0
	}
	return "", 0
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
