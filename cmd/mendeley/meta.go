package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	mendeley "github.com/mendeley/client-go"
	"github.com/mendeley/client-go/auth"
	"github.com/mendeley/client-go/internal/config"
)

// meta carries what every command shares: logger, UI, filesystem and the
// -config flag.
type meta struct {
	log    hclog.Logger
	ui     cli.Ui
	fs     afero.Fs
	opener auth.Opener

	flagConfig string
}

func (m *meta) clone() *meta {
	c := *m
	return &c
}

func (m *meta) flagSet(name string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.StringVar(&m.flagConfig, "config", os.Getenv("MENDELEY_CONFIG"),
		"Path to a YAML or HCL config file. Without it the configuration comes from the environment.")
	return f
}

// parse parses args and reports flag errors on the UI.
func (m *meta) parse(f *flag.FlagSet, args []string) bool {
	if err := f.Parse(args); err != nil {
		m.ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return false
	}
	return true
}

func (m *meta) loadConfig() (*config.Config, error) {
	if m.flagConfig == "" {
		return config.FromEnv()
	}
	return config.Load(m.fs, m.flagConfig)
}

func (m *meta) provider(cfg *config.Config, opener auth.Opener) (mendeley.AuthProvider, error) {
	return cfg.Provider(cfg.Store(m.fs), opener, m.log)
}

func (m *meta) client() (*mendeley.Client, error) {
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, err
	}
	provider, err := m.provider(cfg, m.opener)
	if err != nil {
		return nil, err
	}
	return mendeley.New(provider, cfg.ClientOptions(m.log.Named("client"))...)
}

// context is cancelled on interrupt.
func (m *meta) context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// output prints a response body, indented when it is JSON.
func (m *meta) output(res *mendeley.Response) {
	body := bytes.TrimSpace(res.Body)
	if len(body) == 0 {
		m.ui.Output(res.Status)
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		m.ui.Output(string(body))
		return
	}
	m.ui.Output(buf.String())
}

func (m *meta) fail(err error) int {
	if errors.Is(err, mendeley.ErrAuthenticationRequired) {
		m.ui.Error("Authentication required, run 'mendeley login' first.")
		return 1
	}
	m.ui.Error(err.Error())
	return 1
}

type pager interface {
	NextPage(ctx context.Context) (*mendeley.Response, error)
	Count() int
}

// walk prints first and, when all is set, every following page. It stops at
// the first page without a next link, since the collection keeps the links of
// earlier pages when a response carries none.
func (m *meta) walk(ctx context.Context, first *mendeley.Response, p pager, all bool) error {
	m.output(first)
	for next := all && hasNext(first); next; {
		res, err := p.NextPage(ctx)
		if errors.Is(err, mendeley.ErrNoPage) {
			break
		}
		if err != nil {
			return err
		}
		m.output(res)
		next = hasNext(res)
	}
	m.ui.Info(fmt.Sprintf("%d total", p.Count()))
	return nil
}

// hasNext reports whether res links to a page other than itself.
func hasNext(res *mendeley.Response) bool {
	link, ok := res.Headers.Link(mendeley.RelNext)
	if !ok {
		return false
	}
	return res.Request == nil || link != res.Request.URL
}

// flagHelp renders the flags of f for Help.
func flagHelp(f *flag.FlagSet) string {
	var lines []string
	f.VisitAll(func(fl *flag.Flag) {
		lines = append(lines, fmt.Sprintf("  -%s\n      %s", fl.Name, fl.Usage))
	})
	sort.Strings(lines)
	return "\n\nOptions:\n\n" + strings.Join(lines, "\n\n")
}
