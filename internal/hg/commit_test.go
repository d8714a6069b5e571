package hg

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

func TestParseCommit(t *testing.T) {
	lines := []string{"42", "41:aaa 40:bbb", "Jane", "jane@example.com", "2020-01-02 10:00 +0000", "Fix bug", ""}

	c, err := ParseCommit(lines)
	if err != nil {
		t.Fatalf("ParseCommit() error = %v", err)
	}
	if c.ID != "42" {
		t.Errorf("ID = %q, want 42", c.ID)
	}
	if !reflect.DeepEqual(c.ParentIDs, []string{"41", "40"}) {
		t.Errorf("ParentIDs = %v, want [41 40]", c.ParentIDs)
	}
	if c.ContributorName != "Jane" || c.ContributorEmail != "jane@example.com" {
		t.Errorf("contributor = %q <%q>", c.ContributorName, c.ContributorEmail)
	}
	if c.Message != "Fix bug" {
		t.Errorf("Message = %q, want %q", c.Message, "Fix bug")
	}
	want := time.Date(2020, 1, 2, 10, 0, 0, 0, time.UTC)
	if !c.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", c.Date, want)
	}
	if !c.IsMerge() {
		t.Error("IsMerge() = false for two parents")
	}
	if c.ChangedFiles != nil {
		t.Errorf("ChangedFiles = %v, want nil before enrichment", c.ChangedFiles)
	}

	again, err := ParseCommit(lines)
	if err != nil {
		t.Fatalf("second ParseCommit() error = %v", err)
	}
	if !reflect.DeepEqual(c, again) {
		t.Errorf("parsing twice differs: %+v vs %+v", c, again)
	}
}

func TestParseCommitEmailEqualToName(t *testing.T) {
	c, err := ParseCommit([]string{"0", "", "builder", "builder", "2021-06-30 08:15 +0200", "init"})
	if err != nil {
		t.Fatalf("ParseCommit() error = %v", err)
	}
	if c.ContributorEmail != "" {
		t.Errorf("ContributorEmail = %q, want empty", c.ContributorEmail)
	}
	if !c.IsRoot() {
		t.Errorf("IsRoot() = false, parents %v", c.ParentIDs)
	}
	_, offset := c.Date.Zone()
	if offset != 2*60*60 {
		t.Errorf("zone offset = %d, want 7200", offset)
	}
}

func TestParseCommitErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		kind  vcs.Kind
	}{
		{"too short", []string{"1", "0:abc", "Jane"}, vcs.MalformedOutput},
		{"bad date", []string{"1", "0:abc", "Jane", "jane@x", "yesterday", "msg"}, vcs.MalformedDate},
		{"rfc date", []string{"1", "0:abc", "Jane", "jane@x", "Thu Jan 02 10:00:00 2020 +0000", "msg"}, vcs.MalformedDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommit(tt.lines)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("ParseCommit() error = %v, want %v", err, tt.kind)
			}
			if !errors.Is(err, vcs.MalformedOutput) {
				t.Errorf("error %v does not match MalformedOutput", err)
			}
		})
	}
}

func TestParseParents(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"1:abc 2:def", []string{"1", "2"}},
		{"41:9f3a2b ", []string{"41"}},
		{"", []string{}},
		{"  ", []string{}},
		{"-1:000000000000 ", []string{}},
		{"7:abc -1:000000000000", []string{"7"}},
		{"-1:000000000000 -1:000000000000", []string{}},
		{"12", []string{"12"}},
	}
	for _, tt := range tests {
		got := ParseParents(tt.line)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseParents(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseCommits(t *testing.T) {
	out := record("2", "1:bbb -1:000000000000", "Jane", "jane@example.com", "2020-01-03 10:00 +0000", "third") +
		record("1", "0:aaa -1:000000000000", "Bob", "Bob", "2020-01-02 10:00 +0000", "") +
		record("0", "-1:000000000000 -1:000000000000", "Jane", "jane@example.com", "2020-01-01 10:00 +0000", "first")

	commits, err := ParseCommits(vcs.SplitLines(out))
	if err != nil {
		t.Fatalf("ParseCommits() error = %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(commits))
	}
	for i, id := range []string{"2", "1", "0"} {
		if commits[i].ID != id {
			t.Errorf("commits[%d].ID = %q, want %q", i, commits[i].ID, id)
		}
	}
	if commits[1].Message != "" {
		t.Errorf("empty message became %q", commits[1].Message)
	}
	if commits[1].ContributorEmail != "" {
		t.Errorf("email equal to name kept: %q", commits[1].ContributorEmail)
	}
}

func TestParseCommitsSkipsLeadingBlankLines(t *testing.T) {
	lines := append([]string{"", ""}, vcs.SplitLines(record("5", "4:abc -1:000000000000", "Jane", "j@x", "2020-01-02 10:00 +0000", "msg"))...)
	commits, err := ParseCommits(lines)
	if err != nil {
		t.Fatalf("ParseCommits() error = %v", err)
	}
	if len(commits) != 1 || commits[0].ID != "5" {
		t.Fatalf("commits = %+v", commits)
	}
}

func TestParseCommitsEmpty(t *testing.T) {
	commits, err := ParseCommits(nil)
	if err != nil {
		t.Fatalf("ParseCommits(nil) error = %v", err)
	}
	if commits == nil || len(commits) != 0 {
		t.Errorf("ParseCommits(nil) = %v, want empty non-nil slice", commits)
	}
}

func TestParseCommitsTrailingPartialRecord(t *testing.T) {
	lines := vcs.SplitLines(record("1", "0:aaa -1:000000000000", "Jane", "j@x", "2020-01-02 10:00 +0000", "msg"))
	lines = append(lines, "0", "", "Jane")

	_, err := ParseCommits(lines)
	if !errors.Is(err, vcs.MalformedOutput) {
		t.Fatalf("ParseCommits() error = %v, want MalformedOutput", err)
	}
}
