// Package auth provides the OAuth2 token providers used by the Mendeley
// client.
//
// Two flows are supported. [ImplicitGrant] sends the user to the
// authorization page and reads the token from the fragment of the redirect
// URL; it cannot refresh tokens. [AuthCodeFlow] delegates the code grant to a
// server (or to golang.org/x/oauth2 directly) and can renew tokens through a
// refresh URL or a stored refresh token.
//
// Tokens are kept in a [Store]: [MemoryStore] for the lifetime of the
// process, or [FileStore] to survive restarts.
//
//	store := auth.NewFileStore(nil, filepath.Join(home, ".mendeley"))
//	provider, err := auth.NewImplicitGrant(auth.ImplicitConfig{
//	    ClientID:    "123",
//	    RedirectURL: "http://localhost:8111/callback",
//	    Store:       store,
//	})
package auth
