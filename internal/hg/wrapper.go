package hg

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// versionBanner matches "(version 6.5.2)" in the "hg version" banner.
var versionBanner = regexp.MustCompile(`version\s+(\d+(?:\.\d+){0,2})`)

// Options configures a Wrapper.
type Options struct {
	// MinVersion is the lowest accepted tool version; empty accepts any.
	MinVersion string
	// Encoding is passed to text-producing commands.
	Encoding string
}

// Wrapper checks the hg installation and opens working copies.
type Wrapper struct {
	exec       vcs.Executor
	cmds       CommandBuilder
	minVersion *semver.Version
	log        logze.Logger
}

// NewWrapper returns a Wrapper running commands through exec.
func NewWrapper(exec vcs.Executor, opts Options) (*Wrapper, error) {
	w := &Wrapper{
		exec: exec,
		cmds: CommandBuilder{Encoding: opts.Encoding},
		log:  logze.With("component", "hg-wrapper"),
	}
	if opts.MinVersion != "" {
		v, err := semver.NewVersion(opts.MinVersion)
		if err != nil {
			return nil, vcs.E(vcs.InvalidArgument, "new wrapper", errm.Wrap(err, "parse minimum version", "value", opts.MinVersion))
		}
		w.minVersion = v
	}
	return w, nil
}

// Version returns the version of the installed tool.
func (w *Wrapper) Version(ctx context.Context) (*semver.Version, error) {
	const op = "version"

	out, err := w.exec.Output(ctx, "", w.cmds.Version())
	if err != nil {
		return nil, fail(op, err)
	}
	m := versionBanner.FindStringSubmatch(out)
	if m == nil {
		return nil, vcs.E(vcs.ToolError, op, errm.Errorf("hg command not found: unexpected version output %q", firstLine(out)))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, vcs.E(vcs.ToolError, op, errm.Wrap(err, "parse version", "value", m[1]))
	}
	return v, nil
}

// CheckVersion returns the installed version, failing when it is older than
// the configured minimum.
func (w *Wrapper) CheckVersion(ctx context.Context) (*semver.Version, error) {
	v, err := w.Version(ctx)
	if err != nil {
		return nil, err
	}
	if w.minVersion != nil && v.LessThan(w.minVersion) {
		return nil, vcs.E(vcs.ToolError, "check version",
			errm.Errorf("hg %s is older than the required %s", v, w.minVersion))
	}
	w.log.Debug("hg version accepted", "version", v.String())
	return v, nil
}

// Open returns the Repository rooted at dir. dir must be the root of a
// working copy, not a directory inside one.
func (w *Wrapper) Open(ctx context.Context, dir string) (*Repository, error) {
	const op = "open"

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, vcs.E(vcs.InvalidArgument, op, errm.Wrap(err, "resolve path", "dir", dir))
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	fi, err := os.Stat(filepath.Join(abs, ".hg"))
	if err != nil || !fi.IsDir() {
		return nil, vcs.E(vcs.NotFound, op, errm.Errorf("%s is not a mercurial working copy", abs))
	}

	out, err := w.exec.Output(ctx, abs, w.cmds.Root(abs))
	if err != nil {
		return nil, vcs.E(vcs.NotFound, op, errm.Wrap(err, "query root", "dir", abs))
	}
	root := strings.TrimRight(out, "\r\n")
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if root != abs {
		return nil, vcs.E(vcs.NotFound, op, errm.Errorf("%s is inside the working copy %s", abs, root))
	}

	w.log.Debug("opened repository", "path", abs)
	return NewRepository(w.exec, abs, w.cmds), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
