// Command hgview inspects Mercurial repositories: history, graph lanes,
// branches, diffs, file contents and working copy status.
package main

import (
	"context"
	"io"
	"os"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/logze/v2"
)

func main() {
	var err error
	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()), contem.Exit(&err))
	defer ctx.Shutdown()
	err = execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs the command line in args and reports a failure on errOut.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := newApp(out, errOut)
	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		mode := "auto"
		if a.cfg != nil {
			mode = a.cfg.Output.Color
		}
		newTermStyle(errOut, mode).Error(err.Error())
	}
	return err
}
