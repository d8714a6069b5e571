package hg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/maxbolgarin/errm"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

const devNull = "/dev/null"

type diffState int

const (
	inDescription diffState = iota
	inHunk
)

// ParseDiffs splits a multi-file diff on its "diff" header lines and parses
// every file block.
func ParseDiffs(lines []string) ([]vcs.Diff, error) {
	blocks := splitFileBlocks(lines)
	diffs := make([]vcs.Diff, 0, len(blocks))
	for _, block := range blocks {
		d, err := ParseDiff(block)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

func splitFileBlocks(lines []string) [][]string {
	var blocks [][]string
	var current []string
	flush := func() {
		if !isBlank(current) {
			blocks = append(blocks, current)
		}
		current = nil
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "diff") {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// ParseDiff parses the block of a single file: header lines followed by
// zero or more hunks.
func ParseDiff(block []string) (vcs.Diff, error) {
	block = trimTrailingBlank(block)

	var (
		d     vcs.Diff
		desc  []string
		hunk  *vcs.Hunk
		state = inDescription
	)
	for _, line := range block {
		if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
			if hunk != nil {
				d.Hunks = append(d.Hunks, *hunk)
			}
			h, err := newHunk(line, m)
			if err != nil {
				return vcs.Diff{}, err
			}
			hunk = &h
			state = inHunk
			continue
		}

		switch state {
		case inDescription:
			desc = append(desc, line)
		case inHunk:
			if !isHunkLine(line) {
				return vcs.Diff{}, vcs.E(vcs.MalformedOutput, "parse diff",
					errm.Errorf("unexpected line %q in hunk %q", line, hunk.Header))
			}
			hunk.Lines = append(hunk.Lines, line)
		}
	}
	if hunk != nil {
		d.Hunks = append(d.Hunks, *hunk)
	}
	if d.Hunks == nil {
		d.Hunks = []vcs.Hunk{}
	}

	prev, next := extractPaths(desc)
	if prev == "" || next == "" {
		return vcs.Diff{}, vcs.E(vcs.MalformedOutput, "parse diff",
			errm.Errorf("cannot determine file paths from header %q", strings.Join(desc, "\n")))
	}
	d.PreviousPath = prev
	d.NewPath = next
	d.Description = strings.Join(desc, "\n")
	return d, nil
}

func newHunk(header string, m []string) (vcs.Hunk, error) {
	nums := make([]int, 4)
	for i, s := range m[1:] {
		if s == "" {
			nums[i] = 1
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return vcs.Hunk{}, vcs.E(vcs.MalformedOutput, "parse diff", errm.Wrap(err, "hunk header", "header", header))
		}
		nums[i] = n
	}
	return vcs.Hunk{
		Header: header,
		BeginA: nums[0],
		CountA: nums[1],
		BeginB: nums[2],
		CountB: nums[3],
		Lines:  []string{},
	}, nil
}

func isHunkLine(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '+', '-', '\\':
		return true
	}
	return false
}

// extractPaths finds the old and new path of a file block. Rename and copy
// lines win over ---/+++ lines, which win over the diff header.
func extractPaths(desc []string) (prev, next string) {
	for _, line := range desc {
		switch {
		case strings.HasPrefix(line, "rename from "):
			prev = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "copy from "):
			prev = strings.TrimPrefix(line, "copy from ")
		case strings.HasPrefix(line, "rename to "):
			next = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "copy to "):
			next = strings.TrimPrefix(line, "copy to ")
		}
	}

	for _, line := range desc {
		switch {
		case prev == "" && strings.HasPrefix(line, "--- "):
			prev = markerPath(line[4:], "a/")
		case next == "" && strings.HasPrefix(line, "+++ "):
			next = markerPath(line[4:], "b/")
		}
	}
	if prev != "" && next != "" {
		return prev, next
	}

	for _, line := range desc {
		if !strings.HasPrefix(line, "diff") {
			continue
		}
		a, b := headerPaths(line)
		if prev == "" {
			prev = a
		}
		if next == "" {
			next = b
		}
		break
	}
	return prev, next
}

// markerPath returns the path of a ---/+++ line, or "" for /dev/null.
func markerPath(s, prefix string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	if s == devNull {
		return ""
	}
	return strings.TrimPrefix(s, prefix)
}

// headerPaths reads the paths of "diff --git a/x b/y" or "diff -r rev [-r rev] x".
func headerPaths(line string) (a, b string) {
	if rest, ok := strings.CutPrefix(line, "diff --git "); ok {
		return gitHeaderPaths(rest)
	}

	fields := strings.Fields(line)
	i := 1
	for i < len(fields) && strings.HasPrefix(fields[i], "-") {
		i += 2
	}
	if i >= len(fields) {
		return "", ""
	}
	p := strings.Join(fields[i:], " ")
	return p, p
}

// gitHeaderPaths splits "a/x b/y". Paths may contain spaces, so every " b/"
// is tried and a split with equal sides is preferred.
func gitHeaderPaths(rest string) (a, b string) {
	if !strings.HasPrefix(rest, "a/") {
		return "", ""
	}
	for i := 2; i < len(rest); i++ {
		j := strings.Index(rest[i:], " b/")
		if j < 0 {
			break
		}
		i += j
		left, right := rest[2:i], rest[i+3:]
		if a == "" {
			a, b = left, right
		}
		if left == right {
			return left, right
		}
	}
	return a, b
}

// trimTrailingBlank drops empty trailing lines. A lone " " is a context
// line for an empty source line and is kept.
func trimTrailingBlank(block []string) []string {
	end := len(block)
	for end > 0 && block[end-1] == "" {
		end--
	}
	return block[:end]
}

func isBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
