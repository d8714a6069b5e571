package main

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/hg"
	"github.com/sergeknystautas/hgview/internal/vcs"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "status",
		Short:       "Show uncommitted changes in the working copy",
		Args:        cobra.NoArgs,
		Annotations: dryRunSupported,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			out, err := repo.CheckStatus(ctx)
			if err != nil {
				return err
			}

			files := make([]vcs.FileChange, 0)
			for path, kind := range hg.CollectStatus(hg.ParseStatus(vcs.SplitLines(out))) {
				files = append(files, vcs.FileChange{Path: path, Kind: kind})
			}
			slices.SortFunc(files, func(x, y vcs.FileChange) int { return strings.Compare(x.Path, y.Path) })

			return a.emit(files, func() { a.printStatus(files) })
		},
	}
}

func (a *app) printStatus(files []vcs.FileChange) {
	if len(files) == 0 {
		a.style.Success("Working copy clean")
		return
	}
	for _, f := range files {
		a.style.Printf("%s %s\n", a.changeMarker(f.Kind), f.Path)
	}
}
