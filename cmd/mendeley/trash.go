package main

import (
	"flag"
	"fmt"
	"net/url"
	"strings"
)

type trashListCommand struct {
	*meta

	flagAll bool
}

func (c *trashListCommand) Synopsis() string {
	return "List trashed documents"
}

func (c *trashListCommand) Help() string {
	return `Usage: mendeley trash list [options]` + flagHelp(c.flags())
}

func (c *trashListCommand) flags() *flag.FlagSet {
	f := c.flagSet("trash list")
	f.BoolVar(&c.flagAll, "all", false, "Follow the next links until the last page.")
	return f
}

func (c *trashListCommand) Run(args []string) int {
	if !c.parse(c.flags(), args) {
		return 1
	}
	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	res, err := client.Trash.List(ctx, nil)
	if err != nil {
		return c.fail(err)
	}
	if err := c.walk(ctx, res, client.Trash, c.flagAll); err != nil {
		return c.fail(err)
	}
	return 0
}

type trashRestoreCommand struct {
	*meta
}

func (c *trashRestoreCommand) Synopsis() string {
	return "Restore a trashed document"
}

func (c *trashRestoreCommand) Help() string {
	return `Usage: mendeley trash restore [options] <id>` + flagHelp(c.flagSet("trash restore"))
}

func (c *trashRestoreCommand) Run(args []string) int {
	f := c.flagSet("trash restore")
	if !c.parse(f, args) {
		return 1
	}
	if f.NArg() != 1 {
		c.ui.Error("expected exactly one document id")
		return 1
	}
	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	res, err := client.Trash.Restore(ctx, f.Arg(0))
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}

type catalogCommand struct {
	*meta
}

func (c *catalogCommand) Synopsis() string {
	return "Look documents up in the catalog"
}

func (c *catalogCommand) Help() string {
	return `Usage: mendeley catalog [options] <key=value>...

  Searches the catalog by identifier, for example:

      mendeley catalog doi=10.1103/PhysRevA.20.1521` + flagHelp(c.flagSet("catalog"))
}

func (c *catalogCommand) Run(args []string) int {
	f := c.flagSet("catalog")
	if !c.parse(f, args) {
		return 1
	}
	if f.NArg() == 0 {
		c.ui.Error("expected at least one key=value identifier")
		return 1
	}
	params := url.Values{}
	for _, arg := range f.Args() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			c.ui.Error(fmt.Sprintf("invalid identifier %q, expected key=value", arg))
			return 1
		}
		params.Add(key, value)
	}

	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	res, err := client.Catalog.Search(ctx, params)
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}
