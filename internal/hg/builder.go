package hg

import (
	"github.com/sergeknystautas/hgview/internal/vcs"
)

const (
	// Tip is the symbolic name of the newest revision.
	Tip = "tip"

	defaultEncoding = "utf-8"

	// recordTemplate prints the six commit fields, one per line, followed by
	// a blank separator line. Parents are spelled out as p1 and p2: the
	// parents keyword prints nothing when the only parent is rev-1.
	recordTemplate = `'{rev}\n{p1rev}:{p1node|short} {p2rev}:{p2node|short}\n{author|person}\n{author|email}\n{date|isodate}\n{desc|firstline}\n\n'`

	// graphTemplate prints one "o" per node; the node itself is drawn as "*".
	graphTemplate = `'o\n'`
	graphNode     = "*"

	revTemplate = `'{rev}'`
)

// CommandBuilder builds the hg invocations used by Repository and Wrapper.
type CommandBuilder struct {
	// Encoding is passed to commands whose output is decoded as text.
	Encoding string
}

func (b CommandBuilder) encoding() string {
	if b.Encoding == "" {
		return defaultEncoding
	}
	return b.Encoding
}

// Version prints the tool version banner.
func (b CommandBuilder) Version() *vcs.Command {
	return vcs.NewCommand("version")
}

// Root prints the root of the working copy containing dir.
func (b CommandBuilder) Root(dir string) *vcs.Command {
	return vcs.NewCommand("root").Global("--cwd", dir)
}

// TipRevision prints the revision number of tip.
func (b CommandBuilder) TipRevision() *vcs.Command {
	return vcs.NewCommand("log").
		Value("-r", Tip).
		LiteralValue("--template", revTemplate)
}

// Log prints limit commit records from start down to revision 0.
func (b CommandBuilder) Log(start string, limit int, path string) *vcs.Command {
	cmd := vcs.NewCommand("log").
		Value("--encoding", b.encoding()).
		Value("-r", start+":0").
		Value("--limit", limit).
		LiteralValue("--template", recordTemplate)
	if path != "" {
		cmd.Path(path)
	}
	return cmd
}

// Record prints the commit record of a single revision.
func (b CommandBuilder) Record(id string) *vcs.Command {
	return vcs.NewCommand("log").
		Value("--encoding", b.encoding()).
		Value("-r", id).
		Value("--limit", 1).
		LiteralValue("--template", recordTemplate)
}

// GraphLog prints the ASCII graph of the same page Log(start, limit, path) prints.
func (b CommandBuilder) GraphLog(start string, limit int, path string) *vcs.Command {
	cmd := vcs.NewCommand("log").
		Global("--config", "ui.graphnodetemplate="+graphNode).
		Global("--config", "command-templates.graphnode="+graphNode).
		Flag("--graph").
		Value("-r", start+":0").
		Value("--limit", limit).
		LiteralValue("--template", graphTemplate)
	if path != "" {
		cmd.Path(path)
	}
	return cmd
}

// Status prints the working copy status.
func (b CommandBuilder) Status() *vcs.Command {
	return vcs.NewCommand("status")
}

// ChangedFiles prints the status lines of the files changed by rev.
func (b CommandBuilder) ChangedFiles(rev string) *vcs.Command {
	return vcs.NewCommand("status").
		Value("--encoding", b.encoding()).
		Value("--change", rev)
}

// Branch prints the name of the working copy branch.
func (b CommandBuilder) Branch() *vcs.Command {
	return vcs.NewCommand("branch")
}

// Branches lists the open branches.
func (b CommandBuilder) Branches() *vcs.Command {
	return vcs.NewCommand("branches")
}

// Diff builds a git-style diff for kind. Arguments must already be validated.
func (b CommandBuilder) Diff(kind vcs.DiffKind, args ...string) *vcs.Command {
	cmd := vcs.NewCommand("diff").Flag("--git")
	switch kind {
	case vcs.DiffByCommit:
		cmd.Value("--change", args[0])
	case vcs.DiffCompareRange:
		cmd.Value("-r", args[0]).Value("-r", args[1])
	case vcs.DiffByPath:
		cmd.Value("--change", args[1]).Path(args[0])
	}
	return cmd
}

// Cat prints path at rev as text.
func (b CommandBuilder) Cat(rev, path string) *vcs.Command {
	return vcs.NewCommand("cat").
		Value("--encoding", b.encoding()).
		Value("--rev", rev).
		Path(path)
}

// CatRaw prints path at rev without any decoding.
func (b CommandBuilder) CatRaw(rev, path string) *vcs.Command {
	return vcs.NewCommand("cat").
		Value("--rev", rev).
		Path(path)
}
