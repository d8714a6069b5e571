package hg

import (
	"iter"
	"regexp"
	"strings"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

var statusSeparator = regexp.MustCompile(`\s+`)

// StatusKind maps an hg status code to a change kind.
func StatusKind(code string) vcs.ChangeKind {
	switch code {
	case "M":
		return vcs.Modified
	case "A", "?":
		return vcs.Added
	case "R", "!":
		return vcs.Deleted
	default:
		return vcs.Unknown
	}
}

// ParseStatus yields (path, kind) for every "<code> <path>" line. Lines that do
// not split into a code and a path are skipped. The sequence can be ranged
// over any number of times.
func ParseStatus(lines []string) iter.Seq2[string, vcs.ChangeKind] {
	return func(yield func(string, vcs.ChangeKind) bool) {
		for _, line := range lines {
			pieces := statusSeparator.Split(strings.TrimSpace(line), 2)
			if len(pieces) != 2 {
				continue
			}
			if !yield(pieces[1], StatusKind(pieces[0])) {
				return
			}
		}
	}
}

// CollectStatus drains seq into a map. A path seen twice keeps its last kind.
func CollectStatus(seq iter.Seq2[string, vcs.ChangeKind]) map[string]vcs.ChangeKind {
	files := make(map[string]vcs.ChangeKind)
	for path, kind := range seq {
		files[path] = kind
	}
	return files
}
