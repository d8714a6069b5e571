package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/hg"
	"github.com/sergeknystautas/hgview/internal/vcs"
)

const dateFormat = "2006-01-02 15:04"

type historyFlags struct {
	limit int
	skip  int
	path  string
}

func (f *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.limit, "limit", "l", 0, "maximum number of commits (default from config)")
	cmd.Flags().IntVar(&f.skip, "skip", 0, "number of most recent revisions to skip")
	cmd.Flags().StringVarP(&f.path, "path", "p", "", "only commits touching this path")
}

func (f *historyFlags) resolvedLimit(a *app) int {
	if f.limit == 0 {
		return a.cfg.History.DefaultLimit
	}
	return f.limit
}

func newLogCommand(a *app) *cobra.Command {
	var (
		hf    historyFlags
		files bool
	)
	cmd := &cobra.Command{
		Use:         "log",
		Short:       "Show commit history, newest first",
		Args:        cobra.NoArgs,
		Annotations: dryRunSupported,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.dryRun && hf.skip > 0 {
				return errm.New("--skip needs the current tip and cannot be used with --dry-run")
			}
			if a.dryRun && files {
				return errm.New("--files cannot be used with --dry-run")
			}

			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			commits, err := repo.History(ctx, hf.resolvedLimit(a), hf.skip, hf.path)
			if err != nil {
				return err
			}

			if files {
				enricher, err := hg.NewEnricher(a.cfg.Workers)
				if err != nil {
					return err
				}
				defer enricher.Release()
				if err := enricher.AttachChangedFiles(ctx, repo, commits); err != nil {
					return err
				}
			}

			return a.emit(commits, func() { a.printCommits(commits, files) })
		},
	}
	hf.register(cmd)
	cmd.Flags().BoolVar(&files, "files", false, "attach the changed files of every commit")
	return cmd
}

func newGraphCommand(a *app) *cobra.Command {
	var hf historyFlags
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show commit history with graph lanes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			graph, err := repo.GraphHistory(ctx, hf.resolvedLimit(a), hf.skip, hf.path)
			if err != nil {
				return err
			}
			return a.emit(graph, func() { a.printGraph(graph) })
		},
	}
	hf.register(cmd)
	return cmd
}

func (a *app) printCommits(commits []vcs.Commit, files bool) {
	if len(commits) == 0 {
		a.style.Info("No commits")
		return
	}
	headers := []string{"REV", "PARENTS", "AUTHOR", "DATE", "MESSAGE"}
	if files {
		headers = append(headers, "FILES")
	}
	rows := make([][]string, 0, len(commits))
	for _, c := range commits {
		row := commitRow(c)
		if files {
			row = append(row, strconv.Itoa(len(c.ChangedFiles)))
		}
		rows = append(rows, row)
	}
	a.style.Printf("%s", renderTable(headers, rows))
}

func (a *app) printGraph(graph vcs.Graph) {
	if len(graph.Commits) == 0 {
		a.style.Info("No commits")
		return
	}
	rows := make([][]string, 0, len(graph.Commits))
	for _, c := range graph.Commits {
		rows = append(rows, append([]string{lane(c.GraphLevel)}, commitRow(c)...))
	}
	a.style.Printf("%s", renderTable([]string{"GRAPH", "REV", "PARENTS", "AUTHOR", "DATE", "MESSAGE"}, rows))
}

func commitRow(c vcs.Commit) []string {
	return []string{
		c.ID,
		strings.Join(c.ParentIDs, " "),
		c.ContributorName,
		formatDate(c.Date),
		c.Message,
	}
}

// lane draws the node of a commit at the given graph level.
func lane(level int) string {
	return strings.Repeat("| ", level) + "o"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}
