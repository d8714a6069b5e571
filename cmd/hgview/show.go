package main

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <rev>",
		Short: "Show a commit and the files it changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			commit, err := repo.Commit(ctx, args[0])
			if err != nil {
				return err
			}
			return a.emit(commit, func() { a.printCommit(commit) })
		},
	}
}

func newBranchesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "branches",
		Short:       "List open branches",
		Args:        cobra.NoArgs,
		Annotations: dryRunSupported,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			branches, err := repo.Branches(ctx)
			if err != nil {
				return err
			}
			return a.emit(branches, func() { a.printBranches(branches) })
		},
	}
}

func newBranchHeadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "branch-head <name>",
		Short: "Show the head commit of a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			commit, err := repo.BranchHead(ctx, args[0])
			if err != nil {
				return err
			}
			return a.emit(commit, func() { a.printCommit(commit) })
		},
	}
}

func (a *app) printCommit(c vcs.Commit) {
	a.style.KeyValue("Revision", a.style.Cyan(c.ID))
	if c.IsRoot() {
		a.style.KeyValue("Parents", a.style.Dim("none"))
	} else {
		a.style.KeyValue("Parents", strings.Join(c.ParentIDs, " "))
	}
	author := c.ContributorName
	if c.ContributorEmail != "" {
		author += " <" + c.ContributorEmail + ">"
	}
	a.style.KeyValue("Author", author)
	a.style.KeyValue("Date", formatDate(c.Date))
	a.style.KeyValue("Message", c.Message)

	files := c.Files()
	if len(files) == 0 {
		return
	}
	slices.SortFunc(files, func(x, y vcs.FileChange) int { return strings.Compare(x.Path, y.Path) })
	a.style.Blank()
	for _, f := range files {
		a.style.Bullet(a.changeMarker(f.Kind) + " " + f.Path)
	}
}

// changeMarker returns the one-letter status code hg uses for kind.
func (a *app) changeMarker(kind vcs.ChangeKind) string {
	switch kind {
	case vcs.Added:
		return a.style.Green("A")
	case vcs.Modified:
		return a.style.Yellow("M")
	case vcs.Deleted:
		return a.style.Red("R")
	default:
		return a.style.Dim("?")
	}
}

func (a *app) printBranches(branches []vcs.Branch) {
	if len(branches) == 0 {
		a.style.Info("No open branches")
		return
	}
	rows := make([][]string, 0, len(branches))
	for _, b := range branches {
		current := ""
		if b.IsCurrent {
			current = "*"
		}
		rows = append(rows, []string{current, b.ID, b.HeadRevisionID, b.Node})
	}
	a.style.Printf("%s", renderTable([]string{"", "BRANCH", "HEAD", "NODE"}, rows))
}
