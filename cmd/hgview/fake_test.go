package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// fakeRepository serves canned results and records diff queries.
type fakeRepository struct {
	commits  []vcs.Commit
	graph    vcs.Graph
	branches []vcs.Branch
	diffs    []vcs.Diff
	status   string
	// files maps "rev:path" to content.
	files   map[string]string
	changed map[string]vcs.ChangeKind

	mu        sync.Mutex
	diffCalls []string
}

var _ vcs.Repository = (*fakeRepository)(nil)

func (f *fakeRepository) ProjectPath() string { return "/repo" }

func (f *fakeRepository) History(_ context.Context, limit, skip int, _ string) ([]vcs.Commit, error) {
	if skip >= len(f.commits) {
		return []vcs.Commit{}, nil
	}
	page := f.commits[skip:]
	if len(page) > limit {
		page = page[:limit]
	}
	return append([]vcs.Commit(nil), page...), nil
}

func (f *fakeRepository) GraphHistory(context.Context, int, int, string) (vcs.Graph, error) {
	return f.graph, nil
}

func (f *fakeRepository) Commit(_ context.Context, id string) (vcs.Commit, error) {
	for _, c := range f.commits {
		if c.ID == id {
			c.ChangedFiles = f.changed
			return c, nil
		}
	}
	return vcs.Commit{}, vcs.E(vcs.NotFound, "commit", nil)
}

func (f *fakeRepository) ChangedFiles(context.Context, string) (map[string]vcs.ChangeKind, error) {
	return f.changed, nil
}

func (f *fakeRepository) Branches(context.Context) ([]vcs.Branch, error) {
	return f.branches, nil
}

func (f *fakeRepository) BranchHead(ctx context.Context, name string) (vcs.Commit, error) {
	for _, b := range f.branches {
		if b.ID == name {
			return f.Commit(ctx, b.HeadRevisionID)
		}
	}
	return vcs.Commit{}, vcs.E(vcs.NotFound, "branch head", nil)
}

func (f *fakeRepository) Diff(_ context.Context, kind vcs.DiffKind, args ...string) ([]vcs.Diff, error) {
	f.mu.Lock()
	f.diffCalls = append(f.diffCalls, strings.Join(append([]string{string(kind)}, args...), " "))
	f.mu.Unlock()
	return f.diffs, nil
}

func (f *fakeRepository) CheckStatus(context.Context) (string, error) {
	return f.status, nil
}

func (f *fakeRepository) RawFile(_ context.Context, rev, path string) (string, error) {
	content, ok := f.files[rev+":"+path]
	if !ok {
		return "", vcs.E(vcs.ToolError, "raw file", nil)
	}
	return content, nil
}

func (f *fakeRepository) PreviousRawFile(ctx context.Context, commit vcs.Commit, path string) (string, error) {
	if commit.IsRoot() {
		return "", nil
	}
	return f.RawFile(ctx, commit.ParentIDs[0], path)
}

func (f *fakeRepository) StreamRawFile(ctx context.Context, rev, path string, w io.Writer) error {
	content, err := f.RawFile(ctx, rev, path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

// runCLI executes the command line against repo with a config path that
// does not exist, so defaults apply. A nil repo uses the hg backend.
func runCLI(t *testing.T, repo vcs.Repository, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	if repo != nil {
		a.openRepo = func(context.Context) (vcs.Repository, error) { return repo, nil }
	}
	root := newRootCommand(a)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
