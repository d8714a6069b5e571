package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// dryRunExecutor prints each command it is given and returns no output.
type dryRunExecutor struct {
	mu      sync.Mutex
	out     io.Writer
	program string
}

var _ vcs.Executor = (*dryRunExecutor)(nil)

func newDryRunExecutor(out io.Writer, program string) *dryRunExecutor {
	return &dryRunExecutor{out: out, program: program}
}

func (d *dryRunExecutor) Output(_ context.Context, _ string, cmd *vcs.Command) (string, error) {
	d.print(cmd)
	return "", nil
}

func (d *dryRunExecutor) Lines(_ context.Context, _ string, cmd *vcs.Command) ([]string, error) {
	d.print(cmd)
	return []string{}, nil
}

func (d *dryRunExecutor) Stream(_ context.Context, _ string, cmd *vcs.Command, _ io.Writer) error {
	d.print(cmd)
	return nil
}

func (d *dryRunExecutor) print(cmd *vcs.Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "%s %s\n", d.program, cmd.String())
}
