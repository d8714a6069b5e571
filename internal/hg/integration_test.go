package hg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

const testAuthor = "Jane Doe <jane@example.com>"

func requireHg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("hg"); err != nil {
		t.Skip("hg not installed")
	}
}

// runHg runs an hg command in dir and fails the test on error.
func runHg(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("hg", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HGPLAIN=1", "HGRCPATH=")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("hg %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func commitFile(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	writeFile(t, dir, name, content)
	runHg(t, dir, "add", name)
	runHg(t, dir, "commit", "-u", testAuthor, "-d", "2020-01-02 10:00 +0000", "-m", msg)
}

// setupHgRepo creates a working copy with two heads:
// 0 - 1 - 2 and 1 - 3.
func setupHgRepo(t *testing.T) string {
	t.Helper()
	requireHg(t)

	dir := realDir(t, t.TempDir())
	runHg(t, dir, "init")
	commitFile(t, dir, "README", "hello\n", "initial commit")
	commitFile(t, dir, "src/main.go", "package main\n", "add main\nlonger description")
	commitFile(t, dir, "src/main.go", "package main\n\nfunc main() {}\n", "fill main")
	runHg(t, dir, "update", "-r", "1")
	commitFile(t, dir, "docs/guide.md", "# guide\n", "add guide")
	return dir
}

func openTestRepo(t *testing.T, dir string) *Repository {
	t.Helper()
	executor := vcs.NewCommandExecutor("hg", 30*time.Second, "HGPLAIN=1", "HGRCPATH=")
	w, err := NewWrapper(executor, Options{MinVersion: "3.0"})
	if err != nil {
		t.Fatalf("NewWrapper() error = %v", err)
	}
	if _, err := w.CheckVersion(context.Background()); err != nil {
		t.Fatalf("CheckVersion() error = %v", err)
	}
	repo, err := w.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return repo
}

func TestIntegrationHistory(t *testing.T) {
	dir := setupHgRepo(t)
	repo := openTestRepo(t, dir)
	ctx := context.Background()

	commits, err := repo.History(ctx, 10, 0, "")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(commits) != 4 {
		t.Fatalf("got %d commits, want 4", len(commits))
	}
	if commits[0].ID != "3" || commits[3].ID != "0" {
		t.Errorf("order = %s..%s", commits[0].ID, commits[3].ID)
	}
	if commits[0].ContributorName != "Jane Doe" || commits[0].ContributorEmail != "jane@example.com" {
		t.Errorf("contributor = %q <%q>", commits[0].ContributorName, commits[0].ContributorEmail)
	}
	if commits[2].Message != "add main" {
		t.Errorf("message = %q, want first line only", commits[2].Message)
	}
	if !reflect.DeepEqual(commits[1].ParentIDs, []string{"1"}) {
		t.Errorf("rev 2 parents = %v, want [1]", commits[1].ParentIDs)
	}
	if !reflect.DeepEqual(commits[0].ParentIDs, []string{"1"}) {
		t.Errorf("rev 3 parents = %v, want [1]", commits[0].ParentIDs)
	}
	if !commits[3].IsRoot() {
		t.Errorf("root parents = %v", commits[3].ParentIDs)
	}

	page, err := repo.History(ctx, 2, 2, "")
	if err != nil {
		t.Fatalf("History(2, 2) error = %v", err)
	}
	if len(page) != 2 || page[0].ID != "1" {
		t.Errorf("page = %+v", page)
	}

	empty, err := repo.History(ctx, 5, 100, "")
	if err != nil || len(empty) != 0 {
		t.Errorf("History(5, 100) = %v, %v", empty, err)
	}

	filtered, err := repo.History(ctx, 10, 0, "src/main.go")
	if err != nil {
		t.Fatalf("History(path) error = %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("path history has %d commits, want 2", len(filtered))
	}
}

func TestIntegrationGraphHistory(t *testing.T) {
	dir := setupHgRepo(t)
	repo := openTestRepo(t, dir)

	g, err := repo.GraphHistory(context.Background(), 10, 0, "")
	if err != nil {
		t.Fatalf("GraphHistory() error = %v", err)
	}
	if len(g.Commits) != 4 {
		t.Fatalf("got %d commits, want 4", len(g.Commits))
	}
	want := []int{0, 1, 0, 0}
	for i, c := range g.Commits {
		if c.GraphLevel != want[i] {
			t.Errorf("rev %s level = %d, want %d", c.ID, c.GraphLevel, want[i])
		}
	}
	if g.Levels != 1 {
		t.Errorf("Levels = %d, want 1", g.Levels)
	}
}

func TestIntegrationCommitAndDiff(t *testing.T) {
	dir := setupHgRepo(t)
	repo := openTestRepo(t, dir)
	ctx := context.Background()

	c, err := repo.Commit(ctx, "2")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if kind, ok := c.FileStatus("src/main.go"); !ok || kind != vcs.Modified {
		t.Errorf("src/main.go = %q, %v", kind, ok)
	}

	diffs, err := repo.Diff(ctx, vcs.DiffByCommit, "2")
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if len(diffs) != 1 || diffs[0].NewPath != "src/main.go" {
		t.Fatalf("diffs = %+v", diffs)
	}
	added, _ := diffs[0].Stats()
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	ranged, err := repo.Diff(ctx, vcs.DiffCompareRange, "0", "2")
	if err != nil {
		t.Fatalf("Diff(range) error = %v", err)
	}
	if len(ranged) != 1 || ranged[0].PreviousPath != "src/main.go" {
		t.Errorf("range diffs = %+v", ranged)
	}

	if !reflect.DeepEqual(c.ParentIDs, []string{"1"}) {
		t.Errorf("ParentIDs = %v, want [1]", c.ParentIDs)
	}
	prev, err := repo.PreviousRawFile(ctx, c, "src/main.go")
	if err != nil || prev != "package main\n" {
		t.Errorf("PreviousRawFile() = %q, %v", prev, err)
	}

	if _, err := repo.Commit(ctx, "99"); err == nil {
		t.Error("Commit(99) succeeded")
	}
}

func TestIntegrationWorkingCopy(t *testing.T) {
	dir := setupHgRepo(t)
	repo := openTestRepo(t, dir)
	ctx := context.Background()

	writeFile(t, dir, "README", "changed\n")
	writeFile(t, dir, "untracked.txt", "x")

	status, err := repo.CheckStatus(ctx)
	if err != nil {
		t.Fatalf("CheckStatus() error = %v", err)
	}
	files := CollectStatus(ParseStatus(vcs.SplitLines(status)))
	if files["README"] != vcs.Modified || files["untracked.txt"] != vcs.Added {
		t.Errorf("status = %v", files)
	}

	diffs, err := repo.Diff(ctx, vcs.DiffWholeRepository)
	if err != nil {
		t.Fatalf("Diff(working) error = %v", err)
	}
	if len(diffs) != 1 || diffs[0].NewPath != "README" {
		t.Errorf("working diffs = %+v", diffs)
	}

	branches, err := repo.Branches(ctx)
	if err != nil {
		t.Fatalf("Branches() error = %v", err)
	}
	if len(branches) != 1 || branches[0].ID != "default" || !branches[0].IsCurrent {
		t.Errorf("branches = %+v", branches)
	}
}

func TestIntegrationOpenSubdirectory(t *testing.T) {
	dir := setupHgRepo(t)
	executor := vcs.NewCommandExecutor("hg", 30*time.Second, "HGPLAIN=1")
	w, err := NewWrapper(executor, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Open(context.Background(), filepath.Join(dir, "src"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Open(subdir) error = %v, want not found", err)
	}
}
