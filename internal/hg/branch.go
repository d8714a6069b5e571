package hg

import (
	"regexp"
	"strings"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// branchLine matches "default      42:9f3a2b1c4d5e" and the "(inactive)" variant.
var branchLine = regexp.MustCompile(`^(\S+)\s+(\d+):([0-9a-f]+)`)

// ParseBranches parses "hg branches" output. current is the output of
// "hg branch" and marks the working copy branch. Lines that do not match
// are skipped.
func ParseBranches(lines []string, current string) []vcs.Branch {
	current = strings.TrimSpace(current)
	branches := make([]vcs.Branch, 0, len(lines))
	for _, line := range lines {
		m := branchLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		branches = append(branches, vcs.Branch{
			ID:             m[1],
			HeadRevisionID: m[2],
			Node:           m[3],
			IsCurrent:      m[1] == current,
		})
	}
	return branches
}
