package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/mendeley/client-go/auth"
)

type loginCommand struct {
	*meta

	flagForce bool
}

func (c *loginCommand) Synopsis() string {
	return "Obtain an access token"
}

func (c *loginCommand) Help() string {
	return `Usage: mendeley login [options]

  Opens the authorization page in a browser and stores the resulting access
  token. With the implicit flow paste the URL the browser was redirected to,
  with the authcode flow paste the authorization code.` + flagHelp(c.flags())
}

func (c *loginCommand) flags() *flag.FlagSet {
	f := c.flagSet("login")
	f.BoolVar(&c.flagForce, "force", false, "Discard the stored token and log in again.")
	return f
}

func (c *loginCommand) Run(args []string) int {
	if !c.parse(c.flags(), args) {
		return 1
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return c.fail(err)
	}

	opener := func(url string) error {
		c.ui.Info("Open this URL to log in:\n\n  " + url + "\n")
		return c.opener(url)
	}
	provider, err := c.provider(cfg, opener)
	if err != nil {
		return c.fail(err)
	}

	ctx, cancel := c.context()
	defer cancel()

	switch p := provider.(type) {
	case *auth.Static:
		c.ui.Output("Using the configured access token.")
		return 0

	case *auth.ImplicitGrant:
		if p.Token() != "" {
			if !c.flagForce {
				c.ui.Output("Already logged in.")
				return 0
			}
			p.Authenticate()
		}
		answer, err := c.ui.Ask("Redirect URL:")
		if err != nil {
			return c.fail(err)
		}
		if err := p.CaptureRedirect(strings.TrimSpace(answer)); err != nil {
			return c.fail(err)
		}

	case *auth.AuthCodeFlow:
		if p.Token() != "" {
			if !c.flagForce {
				c.ui.Output("Already logged in.")
				return 0
			}
			p.Authenticate()
		}
		code, err := c.ui.Ask("Authorization code:")
		if err != nil {
			return c.fail(err)
		}
		if err := p.Exchange(ctx, strings.TrimSpace(code)); err != nil {
			return c.fail(err)
		}

	default:
		return c.fail(fmt.Errorf("unsupported auth provider %T", provider))
	}

	c.ui.Output("Logged in.")
	return 0
}

type tokenCommand struct {
	*meta
}

func (c *tokenCommand) Synopsis() string {
	return "Print the stored access token"
}

func (c *tokenCommand) Help() string {
	return `Usage: mendeley token [options]

  Prints the access token that API calls would use. Exits with 1 when there
  is none.` + flagHelp(c.flagSet("token"))
}

func (c *tokenCommand) Run(args []string) int {
	if !c.parse(c.flagSet("token"), args) {
		return 1
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return c.fail(err)
	}
	provider, err := c.provider(cfg, auth.NoopOpener)
	if err != nil {
		return c.fail(err)
	}
	token := provider.Token()
	if token == "" {
		c.ui.Error("No access token, run 'mendeley login' first.")
		return 1
	}
	c.ui.Output(token)
	return 0
}
