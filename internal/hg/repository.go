package hg

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// hexRevision matches a full or abbreviated changeset hash.
var hexRevision = regexp.MustCompile(`^[0-9a-fA-F]{6,40}$`)

// Repository answers read-only queries about one Mercurial working copy.
// It holds no state besides its configuration and is safe for concurrent use
// when its executor is.
type Repository struct {
	path string
	exec vcs.Executor
	cmds CommandBuilder
	log  logze.Logger
}

var _ vcs.Repository = (*Repository)(nil)

// NewRepository returns a Repository rooted at projectPath. It does not check
// that projectPath is a working copy; use Wrapper.Open for that.
func NewRepository(exec vcs.Executor, projectPath string, cmds CommandBuilder) *Repository {
	return &Repository{
		path: projectPath,
		exec: exec,
		cmds: cmds,
		log:  logze.With("component", "hg-repository", "path", projectPath),
	}
}

// ProjectPath returns the root directory of the working copy.
func (r *Repository) ProjectPath() string {
	return r.path
}

// History returns up to limit commits, newest first, after skipping the skip
// newest revisions. It returns an empty slice once skip reaches the head
// revision. A non-empty path restricts history to commits touching it.
func (r *Repository) History(ctx context.Context, limit, skip int, path string) ([]vcs.Commit, error) {
	commits, _, err := r.history(ctx, "history", limit, skip, path)
	return commits, err
}

func (r *Repository) history(ctx context.Context, op string, limit, skip int, path string) ([]vcs.Commit, string, error) {
	if limit <= 0 {
		return nil, "", vcs.E(vcs.InvalidArgument, op, errm.Errorf("limit must be positive, got %d", limit))
	}
	if skip < 0 {
		return nil, "", vcs.E(vcs.InvalidArgument, op, errm.Errorf("skip must not be negative, got %d", skip))
	}

	start := Tip
	if skip > 0 {
		head, err := r.headRevision(ctx, op)
		if err != nil {
			return nil, "", err
		}
		if head <= skip {
			r.log.Debug("history exhausted", "head", head, "skip", skip)
			return []vcs.Commit{}, "", nil
		}
		start = strconv.Itoa(head - skip)
	}

	lines, err := r.exec.Lines(ctx, r.path, r.cmds.Log(start, limit, path))
	if err != nil {
		return nil, "", fail(op, err)
	}
	commits, err := ParseCommits(lines)
	if err != nil {
		return nil, "", fail(op, err)
	}
	return commits, start, nil
}

func (r *Repository) headRevision(ctx context.Context, op string) (int, error) {
	out, err := r.exec.Output(ctx, r.path, r.cmds.TipRevision())
	if err != nil {
		return 0, fail(op, err)
	}
	head, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, vcs.E(vcs.MalformedOutput, op, errm.Wrap(err, "parse tip revision", "output", out))
	}
	return head, nil
}

// GraphHistory returns the same page as History with a lane assigned to every
// commit.
func (r *Repository) GraphHistory(ctx context.Context, limit, skip int, path string) (vcs.Graph, error) {
	const op = "graph history"

	commits, start, err := r.history(ctx, op, limit, skip, path)
	if err != nil {
		return vcs.Graph{}, err
	}
	if len(commits) == 0 {
		return vcs.Graph{Commits: []vcs.Commit{}}, nil
	}

	rows, err := r.exec.Lines(ctx, r.path, r.cmds.GraphLog(start, limit, path))
	if err != nil {
		return vcs.Graph{}, fail(op, err)
	}
	if n := CountCommitRows(rows); n != len(commits) {
		return vcs.Graph{}, vcs.E(vcs.MalformedOutput, op,
			errm.Errorf("graph has %d commit rows, history has %d commits", n, len(commits)))
	}
	g, err := ReconstructGraph(commits, rows)
	if err != nil {
		return vcs.Graph{}, fail(op, err)
	}
	return g, nil
}

// Commit returns the commit id with its changed files attached.
func (r *Repository) Commit(ctx context.Context, id string) (vcs.Commit, error) {
	const op = "commit"
	if strings.TrimSpace(id) == "" {
		return vcs.Commit{}, vcs.E(vcs.InvalidArgument, op, errm.New("empty revision"))
	}

	lines, err := r.exec.Lines(ctx, r.path, r.cmds.Record(id))
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return vcs.Commit{}, ctx.Err()
	case vcs.IsExitError(err):
		// hg exits non-zero for an unknown revision
		return vcs.Commit{}, vcs.E(vcs.NotFound, op, errm.Wrap(err, "unknown revision", "id", id))
	default:
		return vcs.Commit{}, fail(op, err)
	}
	commits, err := ParseCommits(lines)
	if err != nil {
		return vcs.Commit{}, fail(op, err)
	}
	if len(commits) == 0 {
		return vcs.Commit{}, vcs.E(vcs.NotFound, op, errm.Errorf("revision %q not found", id))
	}
	c := commits[0]

	files, err := r.ChangedFiles(ctx, id)
	if err != nil {
		return vcs.Commit{}, err
	}
	c.ChangedFiles = files
	return c, nil
}

// ChangedFiles returns the files touched by revision id and how.
func (r *Repository) ChangedFiles(ctx context.Context, id string) (map[string]vcs.ChangeKind, error) {
	lines, err := r.exec.Lines(ctx, r.path, r.cmds.ChangedFiles(id))
	if err != nil {
		return nil, fail("changed files", err)
	}
	return CollectStatus(ParseStatus(lines)), nil
}

// Branches lists the open branches and marks the working copy branch.
func (r *Repository) Branches(ctx context.Context) ([]vcs.Branch, error) {
	const op = "branches"

	current, err := r.exec.Output(ctx, r.path, r.cmds.Branch())
	if err != nil {
		return nil, fail(op, err)
	}
	lines, err := r.exec.Lines(ctx, r.path, r.cmds.Branches())
	if err != nil {
		return nil, fail(op, err)
	}
	return ParseBranches(lines, current), nil
}

// BranchHead returns the head commit of the named branch.
func (r *Repository) BranchHead(ctx context.Context, name string) (vcs.Commit, error) {
	const op = "branch head"

	branches, err := r.Branches(ctx)
	if err != nil {
		return vcs.Commit{}, err
	}
	for _, b := range branches {
		if b.ID == name {
			return r.Commit(ctx, b.HeadRevisionID)
		}
	}
	return vcs.Commit{}, vcs.E(vcs.NotFound, op, errm.Errorf("branch %q not found", name))
}

// Diff returns the per-file diffs selected by kind. Arguments are, by kind:
// DiffByCommit rev; DiffCompareRange from, to; DiffByPath path, rev;
// DiffWholeRepository none.
func (r *Repository) Diff(ctx context.Context, kind vcs.DiffKind, args ...string) ([]vcs.Diff, error) {
	const op = "diff"

	arity := kind.Arity()
	if arity < 0 {
		return nil, vcs.E(vcs.InvalidArgument, op, errm.Errorf("unknown diff kind %q", kind))
	}
	if len(args) != arity {
		return nil, vcs.E(vcs.InvalidArgument, op,
			errm.Errorf("%s diff takes %d arguments, got %d", kind, arity, len(args)))
	}

	normalized := make([]string, len(args))
	for i, arg := range args {
		if kind == vcs.DiffByPath && i == 0 {
			if arg == "" {
				return nil, vcs.E(vcs.InvalidArgument, op, errm.New("empty path"))
			}
			normalized[i] = arg
			continue
		}
		rev, err := NormalizeRevision(arg)
		if err != nil {
			return nil, vcs.E(vcs.InvalidArgument, op, err)
		}
		normalized[i] = rev
	}

	out, err := r.exec.Output(ctx, r.path, r.cmds.Diff(kind, normalized...))
	if err != nil {
		return nil, fail(op, err)
	}
	// hunk lines keep their carriage returns
	diffs, err := ParseDiffs(vcs.SplitRawLines(out))
	if err != nil {
		return nil, fail(op, err)
	}
	return diffs, nil
}

// CheckStatus returns the raw working copy status.
func (r *Repository) CheckStatus(ctx context.Context) (string, error) {
	out, err := r.exec.Output(ctx, r.path, r.cmds.Status())
	if err != nil {
		return "", fail("status", err)
	}
	return out, nil
}

// RawFile returns the text of path at rev.
func (r *Repository) RawFile(ctx context.Context, rev, path string) (string, error) {
	const op = "raw file"
	if err := checkFileArgs(rev, path); err != nil {
		return "", vcs.E(vcs.InvalidArgument, op, err)
	}
	out, err := r.exec.Output(ctx, r.path, r.cmds.Cat(rev, path))
	if err != nil {
		return "", fail(op, err)
	}
	return out, nil
}

// PreviousRawFile returns path as it was in the first parent of commit, or an
// empty string for a root commit.
func (r *Repository) PreviousRawFile(ctx context.Context, commit vcs.Commit, path string) (string, error) {
	if commit.IsRoot() {
		return "", nil
	}
	return r.RawFile(ctx, commit.ParentIDs[0], path)
}

// StreamRawFile copies the undecoded content of path at rev into w.
func (r *Repository) StreamRawFile(ctx context.Context, rev, path string, w io.Writer) error {
	const op = "stream raw file"
	if err := checkFileArgs(rev, path); err != nil {
		return vcs.E(vcs.InvalidArgument, op, err)
	}
	if err := r.exec.Stream(ctx, r.path, r.cmds.CatRaw(rev, path), w); err != nil {
		return fail(op, err)
	}
	return nil
}

// NormalizeRevision validates a revision argument: "tip" and changeset
// hashes pass as they are, decimal revision numbers are reduced to their
// integer form.
func NormalizeRevision(rev string) (string, error) {
	switch {
	case rev == Tip:
		return rev, nil
	case isDecimal(rev):
		n, err := strconv.Atoi(rev)
		if err != nil {
			return "", errm.Wrap(err, "revision number", "rev", rev)
		}
		return strconv.Itoa(n), nil
	case hexRevision.MatchString(rev):
		return rev, nil
	default:
		return "", errm.Errorf("invalid revision %q", rev)
	}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func checkFileArgs(rev, path string) error {
	if strings.TrimSpace(rev) == "" {
		return errm.New("empty revision")
	}
	if path == "" {
		return errm.New("empty path")
	}
	return nil
}

// fail attributes err to op and keeps its kind. Errors without a kind are
// treated as tool failures.
func fail(op string, err error) error {
	kind := vcs.KindOf(err)
	if kind == "" {
		kind = vcs.ToolError
	}
	return vcs.E(kind, op, err)
}
