package vcs

import (
	"fmt"
	"time"
)

// ChangeKind is the status of a file touched by a commit.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
	Unknown  ChangeKind = "unknown"
)

// FileChange is one entry of a commit's change set.
type FileChange struct {
	Path string     `json:"path" yaml:"path"`
	Kind ChangeKind `json:"kind" yaml:"kind"`
}

// Commit identifies one revision.
type Commit struct {
	// ID is the revision identifier, a local revision number or a symbolic
	// name such as tip. It is treated as an opaque string.
	ID               string    `json:"id" yaml:"id"`
	ParentIDs        []string  `json:"parent_ids" yaml:"parent_ids"`
	ContributorName  string    `json:"contributor_name" yaml:"contributor_name"`
	ContributorEmail string    `json:"contributor_email,omitempty" yaml:"contributor_email,omitempty"`
	Date             time.Time `json:"date" yaml:"date"`
	// Message is the first line of the commit description.
	Message string `json:"message" yaml:"message"`

	// ChangedFiles is filled by a separate status query, never by the log parser.
	ChangedFiles map[string]ChangeKind `json:"changed_files,omitempty" yaml:"changed_files,omitempty"`
	// GraphLevel is only meaningful for commits returned by GraphHistory.
	GraphLevel int `json:"graph_level" yaml:"graph_level"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.ParentIDs) > 1
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool {
	return len(c.ParentIDs) == 0
}

// FileStatus returns the change kind recorded for path.
func (c Commit) FileStatus(path string) (ChangeKind, bool) {
	kind, ok := c.ChangedFiles[path]
	return kind, ok
}

// Files returns the change set as FileChange values in no particular order.
func (c Commit) Files() []FileChange {
	files := make([]FileChange, 0, len(c.ChangedFiles))
	for path, kind := range c.ChangedFiles {
		files = append(files, FileChange{Path: path, Kind: kind})
	}
	return files
}

// Branch is a named branch and the revision at its head.
type Branch struct {
	ID             string `json:"id" yaml:"id"`
	HeadRevisionID string `json:"head_revision_id" yaml:"head_revision_id"`
	// Node is the short changeset hash printed next to the head revision.
	Node      string `json:"node,omitempty" yaml:"node,omitempty"`
	IsCurrent bool   `json:"is_current" yaml:"is_current"`
}

// HunkKey identifies a hunk within one file's diff.
type HunkKey struct {
	BeginA int
	BeginB int
}

func (k HunkKey) String() string {
	return fmt.Sprintf("-%d +%d", k.BeginA, k.BeginB)
}

// Hunk is a contiguous block of a unified diff.
type Hunk struct {
	// Header is the verbatim "@@ -a,b +c,d @@" line.
	Header string `json:"header" yaml:"header"`
	BeginA int    `json:"begin_a" yaml:"begin_a"`
	CountA int    `json:"count_a" yaml:"count_a"`
	BeginB int    `json:"begin_b" yaml:"begin_b"`
	CountB int    `json:"count_b" yaml:"count_b"`
	// Lines are the raw body lines, each starting with ' ', '+', '-' or '\'.
	Lines []string `json:"lines" yaml:"lines"`
}

// Key returns the struct key of the hunk.
func (h Hunk) Key() HunkKey {
	return HunkKey{BeginA: h.BeginA, BeginB: h.BeginB}
}

// Diff is the change of one file within a larger diff response.
type Diff struct {
	PreviousPath string `json:"previous_path" yaml:"previous_path"`
	NewPath      string `json:"new_path" yaml:"new_path"`
	// Description holds the raw header lines that precede the first hunk.
	Description string `json:"description" yaml:"description"`
	Hunks       []Hunk `json:"hunks" yaml:"hunks"`
}

// Hunk looks a hunk up by its verbatim header.
func (d Diff) Hunk(header string) (Hunk, bool) {
	for _, h := range d.Hunks {
		if h.Header == header {
			return h, true
		}
	}
	return Hunk{}, false
}

// HunkByKey looks a hunk up by its start lines.
func (d Diff) HunkByKey(key HunkKey) (Hunk, bool) {
	for _, h := range d.Hunks {
		if h.Key() == key {
			return h, true
		}
	}
	return Hunk{}, false
}

// IsRename reports whether the file moved.
func (d Diff) IsRename() bool {
	return d.PreviousPath != d.NewPath
}

// Stats counts added and removed lines over all hunks.
func (d Diff) Stats() (added, removed int) {
	for _, h := range d.Hunks {
		for _, line := range h.Lines {
			switch {
			case len(line) == 0:
			case line[0] == '+':
				added++
			case line[0] == '-':
				removed++
			}
		}
	}
	return added, removed
}

// Graph is a page of history with a lane assigned to every commit.
type Graph struct {
	// Commits are in chronological order, newest first.
	Commits []Commit `json:"commits" yaml:"commits"`
	// Levels is the highest GraphLevel among Commits.
	Levels int `json:"levels" yaml:"levels"`
}
