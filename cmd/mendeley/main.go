// Command mendeley is a small command line front end for the Mendeley API.
package main

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/mendeley/client-go/auth"
)

const version = "0.1.0"

// environment is what the commands need from the outside world.
type environment struct {
	ui        cli.Ui
	fs        afero.Fs
	opener    auth.Opener
	logOutput io.Writer
}

// run executes the CLI with args and returns the exit code.
func run(args []string, env environment) int {
	cliName := "mendeley"
	if len(args) > 0 {
		cliName = args[0]
		args = args[1:]
	}

	level := hclog.LevelFromString(os.Getenv("MENDELEY_LOG_LEVEL"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	log := hclog.New(&hclog.LoggerOptions{
		Name:   cliName,
		Level:  level,
		Output: env.logOutput,
	})

	c := &cli.CLI{
		Name:     cliName,
		Args:     args,
		Version:  version,
		Commands: commands(&meta{log: log, ui: env.ui, fs: env.fs, opener: env.opener}),
	}

	exitCode, err := c.Run()
	if err != nil {
		env.ui.Error(err.Error())
		return 1
	}
	return exitCode
}

// commands is the command registry.
func commands(m *meta) map[string]cli.CommandFactory {
	factory := func(cmd cli.Command) cli.CommandFactory {
		return func() (cli.Command, error) { return cmd, nil }
	}
	return map[string]cli.CommandFactory{
		"login":            factory(&loginCommand{meta: m.clone()}),
		"token":            factory(&tokenCommand{meta: m.clone()}),
		"documents":        factory(&groupCommand{name: "documents", synopsis: "Manage documents in the library"}),
		"documents list":   factory(&documentsListCommand{meta: m.clone()}),
		"documents get":    factory(&documentsGetCommand{meta: m.clone()}),
		"documents create": factory(&documentsCreateCommand{meta: m.clone()}),
		"documents trash":  factory(&documentsTrashCommand{meta: m.clone()}),
		"folders":          factory(&groupCommand{name: "folders", synopsis: "Manage folders"}),
		"folders list":     factory(&foldersListCommand{meta: m.clone()}),
		"folders create":   factory(&foldersCreateCommand{meta: m.clone()}),
		"folders delete":   factory(&foldersDeleteCommand{meta: m.clone()}),
		"trash":            factory(&groupCommand{name: "trash", synopsis: "Inspect and restore trashed documents"}),
		"trash list":       factory(&trashListCommand{meta: m.clone()}),
		"trash restore":    factory(&trashRestoreCommand{meta: m.clone()}),
		"catalog":          factory(&catalogCommand{meta: m.clone()}),
		"upload":           factory(&uploadCommand{meta: m.clone()}),
	}
}

// groupCommand only prints help for its subcommands.
type groupCommand struct {
	name     string
	synopsis string
}

func (c *groupCommand) Synopsis() string { return c.synopsis }

func (c *groupCommand) Help() string {
	return "Usage: mendeley " + c.name + " <subcommand> [options] [args]\n\n  " + c.synopsis + "."
}

func (c *groupCommand) Run(args []string) int {
	return cli.RunResultHelp
}
