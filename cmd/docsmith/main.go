package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsmith/cmd/docsmith/commands"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsmith"),
		kong.Description("Generate HTML API reference and manual pages from a documentation feed."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := parser.Run(&commands.Global{}, cli)
	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err))
}
