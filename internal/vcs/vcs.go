// Package vcs holds the version-control agnostic pieces of hgview: the data
// types produced by a repository backend, the error taxonomy, the command
// builder and the executor that runs a built command.
//
// A backend (see package hg) turns each query into a Command, hands it to an
// Executor and parses the text that comes back. The same Repository contract
// could be implemented for another tool by swapping the backend.
package vcs

import (
	"context"
	"io"
)

// DiffKind selects what a Diff query compares.
type DiffKind string

const (
	// DiffByCommit compares a revision with its first parent. Args: rev.
	DiffByCommit DiffKind = "bycommit"
	// DiffCompareRange compares two revisions. Args: from, to.
	DiffCompareRange DiffKind = "range"
	// DiffByPath limits a single revision's diff to one path. Args: path, rev.
	DiffByPath DiffKind = "path"
	// DiffWholeRepository compares the working copy with its parent. No args.
	DiffWholeRepository DiffKind = "working"
)

// Arity returns the number of positional arguments the kind requires,
// or -1 for an unknown kind.
func (k DiffKind) Arity() int {
	switch k {
	case DiffByCommit:
		return 1
	case DiffCompareRange, DiffByPath:
		return 2
	case DiffWholeRepository:
		return 0
	default:
		return -1
	}
}

// Repository is the read-only query surface of a working copy.
// Every method issues one or more sequential tool invocations.
type Repository interface {
	// ProjectPath returns the absolute path of the working copy root.
	ProjectPath() string

	// History returns at most limit commits, newest first, skipping the
	// skip most recent revisions. A non-empty path limits the history to
	// commits touching it.
	History(ctx context.Context, limit, skip int, path string) ([]Commit, error)
	// GraphHistory is History with a graph level assigned to every commit.
	GraphHistory(ctx context.Context, limit, skip int, path string) (Graph, error)
	// Commit returns a single commit with its changed files attached.
	Commit(ctx context.Context, id string) (Commit, error)
	// ChangedFiles returns the file status map of a revision.
	ChangedFiles(ctx context.Context, id string) (map[string]ChangeKind, error)

	// Branches returns all open branches, marking the current one.
	Branches(ctx context.Context) ([]Branch, error)
	// BranchHead returns the head commit of the named branch.
	BranchHead(ctx context.Context, name string) (Commit, error)

	// Diff runs a diff query of the given kind; see DiffKind for arity.
	Diff(ctx context.Context, kind DiffKind, args ...string) ([]Diff, error)

	// CheckStatus returns the raw working copy status text.
	CheckStatus(ctx context.Context) (string, error)

	// RawFile returns the content of path at rev.
	RawFile(ctx context.Context, rev, path string) (string, error)
	// PreviousRawFile returns the content of path at the commit's first
	// parent, or an empty string for a root commit.
	PreviousRawFile(ctx context.Context, commit Commit, path string) (string, error)
	// StreamRawFile copies the content of path at rev into w unchanged.
	StreamRawFile(ctx context.Context, rev, path string, w io.Writer) error
}
