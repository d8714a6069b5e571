package main

import (
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint recent history whenever the repository changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			root := repo.ProjectPath()
			if limit <= 0 {
				limit = a.cfg.History.DefaultLimit
			}

			var mu sync.Mutex
			show := func() {
				mu.Lock()
				defer mu.Unlock()
				commits, err := repo.History(ctx, limit, 0, "")
				if err != nil {
					a.style.Error(err.Error())
					return
				}
				if err := a.emit(commits, func() {
					a.style.Header(root + "  " + time.Now().Format(time.TimeOnly))
					a.printCommits(commits, false)
				}); err != nil {
					a.style.Error(err.Error())
				}
			}

			w, err := watch.New(a.cfg.Watch.Debounce, func(string) { show() })
			if err != nil {
				return err
			}
			w.Start()
			defer w.Stop()
			if err := w.Add(root); err != nil {
				return err
			}

			show()
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "number of commits to show (default from config)")
	return cmd
}
