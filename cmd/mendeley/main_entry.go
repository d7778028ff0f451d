//go:build !testcoverage

package main

import (
	"bufio"
	"os"

	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/mendeley/client-go/auth"
)

func main() {
	os.Exit(run(os.Args, environment{
		ui: &cli.BasicUi{
			Reader:      bufio.NewReader(os.Stdin),
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
		},
		fs:        afero.NewOsFs(),
		opener:    auth.BrowserOpener,
		logOutput: os.Stderr,
	}))
}
