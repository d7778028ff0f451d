package config

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mendeley "github.com/mendeley/client-go"
	"github.com/mendeley/client-go/auth"
	"github.com/mendeley/client-go/internal/apierrors"
)

func TestProvider_Flows(t *testing.T) {
	store := auth.NewMemoryStore()

	static, err := (&Config{Flow: FlowStatic, AccessToken: "tok"}).Provider(store, auth.NoopOpener, nil)
	require.NoError(t, err)
	assert.IsType(t, &auth.Static{}, static)
	assert.Equal(t, "tok", static.Token())

	implicit, err := (&Config{
		Flow:        FlowImplicit,
		ClientID:    "1234",
		RedirectURL: "http://localhost/cb",
	}).Provider(store, auth.NoopOpener, hclog.NewNullLogger())
	require.NoError(t, err)
	grant, ok := implicit.(*auth.ImplicitGrant)
	require.True(t, ok)
	assert.Contains(t, grant.AuthURL(), "client_id=1234")
	assert.Contains(t, grant.AuthURL(), "response_type=token")

	code, err := (&Config{
		Flow:         FlowAuthCode,
		ClientID:     "1234",
		ClientSecret: "s",
		RedirectURL:  "http://localhost/cb",
	}).Provider(store, auth.NoopOpener, nil)
	require.NoError(t, err)
	flow, ok := code.(*auth.AuthCodeFlow)
	require.True(t, ok)
	assert.Contains(t, flow.AuthURL(), auth.DefaultAuthorizeURL)

	_, err = (&Config{Flow: "password"}).Provider(store, auth.NoopOpener, nil)
	assert.ErrorIs(t, err, apierrors.ErrConfiguration)
}

func TestOAuth2_Defaults(t *testing.T) {
	oc := (&Config{ClientID: "1234"}).OAuth2()
	assert.Equal(t, auth.DefaultAuthorizeURL, oc.Endpoint.AuthURL)
	assert.Equal(t, auth.DefaultTokenURL, oc.Endpoint.TokenURL)
	assert.Equal(t, []string{auth.DefaultScope}, oc.Scopes)

	oc = (&Config{TokenURL: "https://id.example.test/token", Scope: "read"}).OAuth2()
	assert.Equal(t, "https://id.example.test/token", oc.Endpoint.TokenURL)
	assert.Equal(t, []string{"read"}, oc.Scopes)
}

func TestStore(t *testing.T) {
	assert.IsType(t, &auth.MemoryStore{}, (&Config{}).Store(nil))

	fs := afero.NewMemMapFs()
	store := (&Config{TokenDir: "/tokens"}).Store(fs)
	require.IsType(t, &auth.FileStore{}, store)
	require.NoError(t, store.Set(auth.DefaultSlot, "abc", 0))

	exists, err := afero.Exists(fs, "/tokens/"+auth.DefaultSlot+".json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClientOptions(t *testing.T) {
	retries := 3
	cfg := &Config{
		BaseURL:    "https://api.example.test/",
		Timeout:    "5s",
		MaxRetries: &retries,
		RetryDelay: "10ms",
		RateLimit:  4,
	}
	opts := cfg.ClientOptions(hclog.NewNullLogger())
	assert.Len(t, opts, 6)

	c, err := mendeley.New(auth.NewStatic("t"), opts...)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", c.BaseURL())

	assert.Empty(t, (&Config{}).ClientOptions(nil))
}
