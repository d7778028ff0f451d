package main

import (
	"flag"
	"net/url"

	mendeley "github.com/mendeley/client-go"
)

type documentsListCommand struct {
	*meta

	flagFolder string
	flagLimit  int
	flagSort   string
	flagOrder  string
	flagAll    bool
}

func (c *documentsListCommand) Synopsis() string {
	return "List documents"
}

func (c *documentsListCommand) Help() string {
	return `Usage: mendeley documents list [options]

  Lists the documents of the library or of one folder.` + flagHelp(c.flags())
}

func (c *documentsListCommand) flags() *flag.FlagSet {
	f := c.flagSet("documents list")
	f.StringVar(&c.flagFolder, "folder", "", "Only list the documents in this folder.")
	f.IntVar(&c.flagLimit, "limit", 0, "Number of documents per page.")
	f.StringVar(&c.flagSort, "sort", "", "Sort field, such as created or title.")
	f.StringVar(&c.flagOrder, "order", "", "Sort order, asc or desc.")
	f.BoolVar(&c.flagAll, "all", false, "Follow the next links until the last page.")
	return f
}

func (c *documentsListCommand) Run(args []string) int {
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
	if c.flagSort != "" {
		params.Set("sort", c.flagSort)
	}
	if c.flagOrder != "" {
		params.Set("order", c.flagOrder)
	}
	res, err := client.Documents.List(ctx, &mendeley.DocumentListOptions{
		FolderID: c.flagFolder,
		Limit:    c.flagLimit,
		Params:   params,
	})
	if err != nil {
		return c.fail(err)
	}
	if err := c.walk(ctx, res, client.Documents, c.flagAll); err != nil {
		return c.fail(err)
	}
	return 0
}

type documentsGetCommand struct {
	*meta
}

func (c *documentsGetCommand) Synopsis() string {
	return "Show one document"
}

func (c *documentsGetCommand) Help() string {
	return `Usage: mendeley documents get [options] <id>` + flagHelp(c.flagSet("documents get"))
}

func (c *documentsGetCommand) Run(args []string) int {
	f := c.flagSet("documents get")
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

	res, err := client.Documents.Retrieve(ctx, f.Arg(0))
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}

type documentsCreateCommand struct {
	*meta

	flagTitle string
	flagType  string
}

func (c *documentsCreateCommand) Synopsis() string {
	return "Create a document"
}

func (c *documentsCreateCommand) Help() string {
	return `Usage: mendeley documents create [options]

  Creates a document and prints it as the API stored it.` + flagHelp(c.flags())
}

func (c *documentsCreateCommand) flags() *flag.FlagSet {
	f := c.flagSet("documents create")
	f.StringVar(&c.flagTitle, "title", "", "(Required) Title of the document.")
	f.StringVar(&c.flagType, "type", "journal", "Document type.")
	return f
}

func (c *documentsCreateCommand) Run(args []string) int {
	if !c.parse(c.flags(), args) {
		return 1
	}
	if c.flagTitle == "" {
		c.ui.Error("title flag is required")
		return 1
	}
	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	res, err := client.Documents.Create(ctx, map[string]string{
		"title": c.flagTitle,
		"type":  c.flagType,
	})
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}

type documentsTrashCommand struct {
	*meta
}

func (c *documentsTrashCommand) Synopsis() string {
	return "Move a document to the trash"
}

func (c *documentsTrashCommand) Help() string {
	return `Usage: mendeley documents trash [options] <id>` + flagHelp(c.flagSet("documents trash"))
}

func (c *documentsTrashCommand) Run(args []string) int {
	f := c.flagSet("documents trash")
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

	res, err := client.Documents.Trash(ctx, f.Arg(0))
	if err != nil {
		return c.fail(err)
	}
	c.output(res)
	return 0
}
