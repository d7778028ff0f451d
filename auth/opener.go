package auth

import "github.com/pkg/browser"

// Default Mendeley OAuth2 settings.
const (
	DefaultAuthorizeURL = "https://api.mendeley.com/oauth/authorize"
	DefaultTokenURL     = "https://api.mendeley.com/oauth/token"
	DefaultScope        = "all"
)

// Opener hands an authorization URL to the user.
type Opener func(url string) error

// BrowserOpener opens url in the default web browser.
func BrowserOpener(url string) error {
	return browser.OpenURL(url)
}

// NoopOpener leaves navigation to the caller, for instance a CLI that prints
// the URL instead.
func NoopOpener(string) error {
	return nil
}
