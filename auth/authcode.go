package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/mendeley/client-go/internal/apierrors"
)

// AuthCodeConfig configures an AuthCodeFlow.
type AuthCodeConfig struct {
	// AuthenticateURL is where users are sent to log in, usually an endpoint
	// of the application's own server that starts the code grant. When empty
	// it is built from OAuth2.
	AuthenticateURL string

	// RefreshURL, when set, is fetched with GET to renew the access token.
	// It must answer with an OAuth2 token document.
	RefreshURL string

	// OAuth2 enables Exchange and refresh-token renewal.
	OAuth2 *oauth2.Config
	State  string

	HTTPClient  *http.Client
	Store       Store
	Slot        string
	RefreshSlot string
	TTL         time.Duration
	Opener      Opener
	Logger      hclog.Logger
}

// AuthCodeFlow obtains tokens through the OAuth2 authorization code grant.
type AuthCodeFlow struct {
	authURL     string
	refreshURL  string
	oauth       *oauth2.Config
	client      *http.Client
	store       Store
	slot        string
	refreshSlot string
	ttl         time.Duration
	opener      Opener
	logger      hclog.Logger
}

// NewAuthCodeFlow validates cfg and, when no token is stored, starts
// authentication right away.
func NewAuthCodeFlow(cfg AuthCodeConfig) (*AuthCodeFlow, error) {
	authURL := cfg.AuthenticateURL
	if authURL == "" && cfg.OAuth2 != nil {
		authURL = cfg.OAuth2.AuthCodeURL(cfg.State, oauth2.AccessTypeOffline)
	}
	if authURL == "" {
		return nil, fmt.Errorf("%w: an authenticate url is required for the auth code flow", apierrors.ErrConfiguration)
	}

	f := &AuthCodeFlow{
		authURL:     authURL,
		refreshURL:  cfg.RefreshURL,
		oauth:       cfg.OAuth2,
		client:      cfg.HTTPClient,
		store:       cfg.Store,
		slot:        orDefault(cfg.Slot, DefaultSlot),
		refreshSlot: orDefault(cfg.RefreshSlot, DefaultRefreshSlot),
		ttl:         cfg.TTL,
		opener:      cfg.Opener,
		logger:      cfg.Logger,
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: 30 * time.Second}
	}
	if f.store == nil {
		f.store = NewMemoryStore()
	}
	if f.ttl == 0 {
		f.ttl = DefaultTTL
	}
	if f.opener == nil {
		f.opener = BrowserOpener
	}
	if f.logger == nil {
		f.logger = hclog.NewNullLogger()
	}

	if f.Token() == "" {
		f.Authenticate()
	}
	return f, nil
}

// AuthURL returns the URL users are sent to.
func (f *AuthCodeFlow) AuthURL() string {
	return f.authURL
}

// Token returns the stored access token.
func (f *AuthCodeFlow) Token() string {
	token, _ := f.store.Get(f.slot)
	return token
}

// Authenticate clears the stored access token and opens the authenticate URL.
func (f *AuthCodeFlow) Authenticate() {
	if err := f.store.Delete(f.slot); err != nil {
		f.logger.Warn("failed to clear access token", "slot", f.slot, "error", err)
	}
	f.logger.Debug("opening authenticate url", "url", f.authURL)
	if err := f.opener(f.authURL); err != nil {
		f.logger.Error("failed to open authenticate url", "url", f.authURL, "error", err)
	}
}

// RefreshToken renews the access token through the refresh URL, or through
// the OAuth2 token endpoint when a refresh token is stored.
func (f *AuthCodeFlow) RefreshToken(ctx context.Context) error {
	if f.refreshURL != "" {
		return f.refreshFromURL(ctx)
	}
	refresh, ok := f.store.Get(f.refreshSlot)
	if f.oauth == nil || !ok {
		return apierrors.ErrRefreshUnsupported
	}

	ts := f.oauth.TokenSource(f.oauthContext(ctx), &oauth2.Token{RefreshToken: refresh})
	tok, err := ts.Token()
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	f.logger.Debug("access token refreshed", "expiry", tok.Expiry)
	return f.save(tok)
}

// Exchange completes the code grant with the code the authorization server
// redirected back with.
func (f *AuthCodeFlow) Exchange(ctx context.Context, code string) error {
	if f.oauth == nil {
		return fmt.Errorf("%w: an oauth2 config is required to exchange codes", apierrors.ErrConfiguration)
	}
	tok, err := f.oauth.Exchange(f.oauthContext(ctx), code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}
	return f.save(tok)
}

func (f *AuthCodeFlow) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.client)
}

// tokenDocument is the OAuth2 token response served by the refresh URL.
type tokenDocument struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (f *AuthCodeFlow) refreshFromURL(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.refreshURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("refresh request failed with status %d", resp.StatusCode)
	}

	var doc tokenDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if doc.AccessToken == "" {
		return fmt.Errorf("refresh response carries no access token")
	}

	tok := &oauth2.Token{
		AccessToken:  doc.AccessToken,
		TokenType:    doc.TokenType,
		RefreshToken: doc.RefreshToken,
	}
	if doc.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(doc.ExpiresIn) * time.Second)
	}
	f.logger.Debug("access token refreshed from refresh url")
	return f.save(tok)
}

func (f *AuthCodeFlow) save(tok *oauth2.Token) error {
	ttl := f.ttl
	if d := time.Until(tok.Expiry); !tok.Expiry.IsZero() && d > 0 {
		ttl = d
	}
	if err := f.store.Set(f.slot, tok.AccessToken, ttl); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if tok.RefreshToken != "" {
		if err := f.store.Set(f.refreshSlot, tok.RefreshToken, 0); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}
	return nil
}
