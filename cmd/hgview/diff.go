package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

func newDiffCommand(a *app) *cobra.Command {
	var stat bool
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show changes as parsed per-file diffs",
	}
	cmd.PersistentFlags().BoolVar(&stat, "stat", false, "only print per-file line counts")

	sub := func(kind vcs.DiffKind, use, short string) *cobra.Command {
		return &cobra.Command{
			Use:         use,
			Short:       short,
			Args:        cobra.ExactArgs(kind.Arity()),
			Annotations: dryRunSupported,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				repo, err := a.repository(ctx)
				if err != nil {
					return err
				}
				diffs, err := repo.Diff(ctx, kind, args...)
				if err != nil {
					return err
				}
				return a.emit(diffs, func() { a.printDiffs(diffs, stat) })
			},
		}
	}
	cmd.AddCommand(
		sub(vcs.DiffByCommit, "bycommit <rev>", "Changes a revision made to its first parent"),
		sub(vcs.DiffCompareRange, "range <from> <to>", "Changes between two revisions"),
		sub(vcs.DiffByPath, "path <path> <rev>", "Changes a revision made to one path"),
		sub(vcs.DiffWholeRepository, "working", "Uncommitted changes in the working copy"),
	)
	return cmd
}

func (a *app) printDiffs(diffs []vcs.Diff, stat bool) {
	if len(diffs) == 0 {
		a.style.Info("No changes")
		return
	}
	if stat {
		rows := make([][]string, 0, len(diffs))
		for _, d := range diffs {
			added, removed := d.Stats()
			rows = append(rows, []string{diffName(d), "+" + strconv.Itoa(added), "-" + strconv.Itoa(removed)})
		}
		a.style.Printf("%s", renderTable([]string{"FILE", "ADDED", "REMOVED"}, rows))
		return
	}

	for i, d := range diffs {
		if i > 0 {
			a.style.Blank()
		}
		added, removed := d.Stats()
		a.style.Printf("%s %s\n", a.style.Bold(diffName(d)),
			a.style.Dim(fmt.Sprintf("(+%d -%d)", added, removed)))
		for _, h := range d.Hunks {
			a.style.Println(a.style.Cyan(h.Header))
			for _, line := range h.Lines {
				a.style.Println(a.colorDiffLine(line))
			}
		}
	}
}

func (a *app) colorDiffLine(line string) string {
	switch {
	case line == "":
		return line
	case line[0] == '+':
		return a.style.Green(line)
	case line[0] == '-':
		return a.style.Red(line)
	case line[0] == '\\':
		return a.style.Dim(line)
	default:
		return line
	}
}

func diffName(d vcs.Diff) string {
	switch {
	case d.PreviousPath == "":
		return d.NewPath
	case d.NewPath == "":
		return d.PreviousPath
	case d.IsRename():
		return d.PreviousPath + " → " + d.NewPath
	default:
		return d.NewPath
	}
}
