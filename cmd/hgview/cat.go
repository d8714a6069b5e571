package main

import (
	"github.com/maxbolgarin/errm"
	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

type fileContent struct {
	Rev     string `json:"rev" yaml:"rev"`
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

func newCatCommand(a *app) *cobra.Command {
	var previous, raw bool
	cmd := &cobra.Command{
		Use:         "cat <rev> <path>",
		Short:       "Print a file as of a revision",
		Args:        cobra.ExactArgs(2),
		Annotations: dryRunSupported,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rev, path := args[0], args[1]
			if a.dryRun && previous {
				return errm.New("--previous needs the commit parents and cannot be used with --dry-run")
			}

			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}

			if previous {
				commit, err := repo.Commit(ctx, rev)
				if err != nil {
					return err
				}
				if commit.IsRoot() {
					if raw {
						return nil
					}
					return a.emitFile("", path, "")
				}
				if !raw {
					content, err := repo.PreviousRawFile(ctx, commit, path)
					if err != nil {
						return err
					}
					return a.emitFile(commit.ParentIDs[0], path, content)
				}
				rev = commit.ParentIDs[0]
			}

			if raw {
				return repo.StreamRawFile(ctx, rev, path, a.out)
			}
			content, err := repo.RawFile(ctx, rev, path)
			if err != nil {
				return err
			}
			return a.emitFile(rev, path, content)
		},
	}
	cmd.Flags().BoolVar(&previous, "previous", false, "print the file as of the first parent of <rev>")
	cmd.Flags().BoolVar(&raw, "raw", false, "copy the file bytes unchanged, binary files included")
	return cmd
}

func (a *app) emitFile(rev, path, content string) error {
	if vcs.IsBinary([]byte(content)) {
		return errm.Errorf("%s is a binary file, use --raw", path)
	}
	return a.emit(fileContent{Rev: rev, Path: path, Content: content}, func() {
		a.style.Printf("%s", content)
	})
}
