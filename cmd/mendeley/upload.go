package main

import (
	"encoding/json"
	"flag"
	"fmt"

	mendeley "github.com/mendeley/client-go"
)

type uploadCommand struct {
	*meta

	flagDocument string
}

func (c *uploadCommand) Synopsis() string {
	return "Upload a file"
}

func (c *uploadCommand) Help() string {
	return `Usage: mendeley upload [options] <path>

  Uploads a file. With -document the file is attached to that document,
  otherwise a new document is created from the file's metadata.` + flagHelp(c.flags())
}

func (c *uploadCommand) flags() *flag.FlagSet {
	f := c.flagSet("upload")
	f.StringVar(&c.flagDocument, "document", "", "Attach the file to this document.")
	return f
}

func (c *uploadCommand) Run(args []string) int {
	f := c.flags()
	if !c.parse(f, args) {
		return 1
	}
	if f.NArg() != 1 {
		c.ui.Error("expected exactly one file path")
		return 1
	}

	file, err := mendeley.OpenFile(c.fs, f.Arg(0))
	if err != nil {
		return c.fail(err)
	}
	last := -1
	file.OnProgress = func(p mendeley.Progress) {
		if p.LengthComputable && p.Percent != last {
			last = p.Percent
			c.ui.Info(fmt.Sprintf("%s %d%%", file.Name, p.Percent))
		}
	}

	client, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	ctx, cancel := c.context()
	defer cancel()

	var res *mendeley.Response
	if c.flagDocument != "" {
		res, err = client.Files.Create(ctx, file, c.flagDocument)
	} else {
		res, err = client.Documents.CreateFromFile(ctx, file)
	}
	if err != nil {
		return c.fail(err)
	}

	out, err := json.MarshalIndent(res.JSON, "", "  ")
	if err != nil {
		return c.fail(err)
	}
	c.ui.Output(string(out))
	return 0
}
