package hg

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// fakeResponse is the canned result of one command.
type fakeResponse struct {
	out string
	err error
}

// fakeExecutor replays responses in order and records every call.
type fakeExecutor struct {
	mu        sync.Mutex
	responses []fakeResponse
	// byVerb answers any call whose verb matches, ignoring the queue.
	byVerb map[string]fakeResponse
	calls  [][]string
	dirs   []string
}

var _ vcs.Executor = (*fakeExecutor)(nil)

func newFakeExecutor(outputs ...string) *fakeExecutor {
	f := &fakeExecutor{}
	for _, out := range outputs {
		f.responses = append(f.responses, fakeResponse{out: out})
	}
	return f
}

func (f *fakeExecutor) next(dir string, cmd *vcs.Command) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd.Argv())
	f.dirs = append(f.dirs, dir)
	if r, ok := f.byVerb[cmd.Verb()]; ok {
		return r.out, r.err
	}
	if len(f.responses) == 0 {
		return "", vcs.E(vcs.ToolError, "fake "+cmd.Verb(), nil)
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.out, r.err
}

func (f *fakeExecutor) Output(_ context.Context, dir string, cmd *vcs.Command) (string, error) {
	return f.next(dir, cmd)
}

func (f *fakeExecutor) Lines(_ context.Context, dir string, cmd *vcs.Command) ([]string, error) {
	out, err := f.next(dir, cmd)
	if err != nil {
		return nil, err
	}
	return vcs.SplitLines(out), nil
}

func (f *fakeExecutor) Stream(_ context.Context, dir string, cmd *vcs.Command, w io.Writer) error {
	out, err := f.next(dir, cmd)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// call returns the argv of the i-th call joined by spaces.
func (f *fakeExecutor) call(t *testing.T, i int) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.calls) {
		t.Fatalf("call %d not made, only %d calls", i, len(f.calls))
	}
	return strings.Join(f.calls[i], " ")
}

// record renders one commit in the record template format.
func record(rev, parents, name, email, date, msg string) string {
	return strings.Join([]string{rev, parents, name, email, date, msg, ""}, "\n") + "\n"
}
