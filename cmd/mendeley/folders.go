package main

import (
	"flag"
	"net/url"
	"strconv"
)

type foldersListCommand struct {
	*meta

	flagLimit int
	flagAll   bool
}

func (c *foldersListCommand) Synopsis() string {
	return "List folders"
}

func (c *foldersListCommand) Help() string {
	return `Usage: mendeley folders list [options]` + flagHelp(c.flags())
}

func (c *foldersListCommand) flags() *flag.FlagSet {
	f := c.flagSet("folders list")
	f.IntVar(&c.flagLimit, "limit", 0, "Number of folders per page.")
	f.BoolVar(&c.flagAll, "all", false, "Follow the next links until the last page.")
	return f
}

func (c *foldersListCommand) Run(args []string) int {
	if !c.parse(c.flags(), args) {
		return 1
	}
	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	params := url.Values{}
	if c.flagLimit > 0 {
		params.Set("limit", strconv.Itoa(c.flagLimit))
	}
	res, err := client.Folders.List(ctx, params)
	if err != nil {
		return c.fail(err)
	}
	if err := c.walk(ctx, res, client.Folders, c.flagAll); err != nil {
		return c.fail(err)
	}
	return 0
}

type foldersCreateCommand struct {
	*meta

	flagName   string
	flagParent string
}

func (c *foldersCreateCommand) Synopsis() string {
	return "Create a folder"
}

func (c *foldersCreateCommand) Help() string {
	return `Usage: mendeley folders create [options]` + flagHelp(c.flags())
}

func (c *foldersCreateCommand) flags() *flag.FlagSet {
	f := c.flagSet("folders create")
	f.StringVar(&c.flagName, "name", "", "(Required) Name of the folder.")
	f.StringVar(&c.flagParent, "parent", "", "Id of the parent folder.")
	return f
}

func (c *foldersCreateCommand) Run(args []string) int {
	if !c.parse(c.flags(), args) {
		return 1
	}
	if c.flagName == "" {
		c.ui.Error("name flag is required")
		return 1
	}
	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	data := map[string]string{"name": c.flagName}
	if c.flagParent != "" {
		data["parent_id"] = c.flagParent
	}
	res, err := client.Folders.Create(ctx, data)
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}

type foldersDeleteCommand struct {
	*meta
}

func (c *foldersDeleteCommand) Synopsis() string {
	return "Delete a folder"
}

func (c *foldersDeleteCommand) Help() string {
	return `Usage: mendeley folders delete [options] <id>

  Deletes a folder. The documents in it stay in the library.` + flagHelp(c.flagSet("folders delete"))
}

func (c *foldersDeleteCommand) Run(args []string) int {
	f := c.flagSet("folders delete")
	if !c.parse(f, args) {
		return 1
	}
	if f.NArg() != 1 {
		c.ui.Error("expected exactly one folder id")
		return 1
	}
	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	res, err := client.Folders.Delete(ctx, f.Arg(0))
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}
