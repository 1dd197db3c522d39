package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/linkcheck"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Dir string `arg:"" optional:"" help:"Output directory to check (defaults to output.directory)" type:"path"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	dir := c.Dir
	if dir == "" {
		cfg, err := root.LoadConfig()
		if err != nil {
			return err
		}
		dir = cfg.Output.Directory
	}
	return RunCheck(context.Background(), dir, os.Stdout)
}

// RunCheck link-checks the tree rooted at dir and prints every problem to w.
func RunCheck(ctx context.Context, dir string, w io.Writer) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.NewError(errors.CategoryNotFound, "output directory not found").
			WithContext(logfields.KeyPath, dir).
			Build()
	}
	report, err := linkcheck.New(os.DirFS(dir)).Check(ctx)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "link check failed").
			WithContext(logfields.KeyPath, dir).
			Build()
	}
	for _, p := range report.Problems {
		_, _ = fmt.Fprintln(w, p.String())
	}
	_, _ = fmt.Fprintf(w, "Checked %d page(s), %d link(s): %d problem(s)\n",
		report.Pages, report.Links, len(report.Problems))
	if !report.OK() {
		return errors.ValidationError(fmt.Sprintf("%d link problem(s) in %s", len(report.Problems), dir)).
			WithContext(logfields.KeyCount, len(report.Problems)).
			Build()
	}
	return nil
}
