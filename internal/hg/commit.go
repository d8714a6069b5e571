package hg

import (
	"strings"
	"time"

	"github.com/maxbolgarin/errm"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// recordFields is the number of lines of one commit record.
const recordFields = 6

// DateLayout is the layout of {date|isodate}.
const DateLayout = "2006-01-02 15:04 -0700"

// nullRevision is printed for the missing parent of a root commit.
const nullRevision = "-1"

// commitFold is the accumulator of ParseCommits.
type commitFold struct {
	record  []string
	commits []vcs.Commit
}

func (f *commitFold) step(line string) error {
	if len(f.record) == 0 && strings.TrimSpace(line) == "" {
		return nil
	}
	f.record = append(f.record, line)
	if len(f.record) < recordFields {
		return nil
	}
	c, err := ParseCommit(f.record)
	if err != nil {
		return err
	}
	f.commits = append(f.commits, c)
	f.record = f.record[:0]
	return nil
}

// ParseCommits parses the output of the record template into commits, in
// output order. Blank separator lines between records are skipped; a record
// cut short by the end of the output is an error.
func ParseCommits(lines []string) ([]vcs.Commit, error) {
	f := commitFold{
		record:  make([]string, 0, recordFields),
		commits: make([]vcs.Commit, 0, len(lines)/(recordFields+1)),
	}
	for _, line := range lines {
		if err := f.step(line); err != nil {
			return nil, err
		}
	}
	if len(f.record) > 0 {
		return nil, vcs.E(vcs.MalformedOutput, "parse commits",
			errm.Errorf("incomplete record of %d lines at end of output", len(f.record)))
	}
	return f.commits, nil
}

// ParseCommit parses one record from the first six lines. Extra lines are ignored.
func ParseCommit(lines []string) (vcs.Commit, error) {
	if len(lines) < recordFields {
		return vcs.Commit{}, vcs.E(vcs.MalformedOutput, "parse commit",
			errm.Errorf("record has %d lines, want %d", len(lines), recordFields))
	}

	date, err := ParseDate(lines[4])
	if err != nil {
		return vcs.Commit{}, err
	}

	name := lines[2]
	email := lines[3]
	if email == name {
		// {author|email} echoes the whole author string when it holds no address.
		email = ""
	}

	return vcs.Commit{
		ID:               lines[0],
		ParentIDs:        ParseParents(lines[1]),
		ContributorName:  name,
		ContributorEmail: email,
		Date:             date,
		Message:          lines[5],
	}, nil
}

// ParseParents turns "41:9f3a2b 40:77c1d0 " into ["41", "40"].
func ParseParents(line string) []string {
	fields := strings.Fields(line)
	parents := make([]string, 0, len(fields))
	for _, f := range fields {
		rev, _, _ := strings.Cut(f, ":")
		if rev == "" || rev == nullRevision {
			continue
		}
		parents = append(parents, rev)
	}
	return parents
}

// ParseDate parses an {date|isodate} value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, vcs.E(vcs.MalformedDate, "parse date", errm.Wrap(err, "unexpected date format", "value", s))
	}
	return t, nil
}
