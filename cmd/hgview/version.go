package main

import (
	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/version"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print hgview and Mercurial versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.style.KeyValue("hgview", version.String())

			w, err := a.wrapper()
			if err != nil {
				return err
			}
			v, err := w.CheckVersion(cmd.Context())
			if err != nil {
				a.style.Warn(err.Error())
				return nil
			}
			a.style.KeyValue("hg", v.String())
			return nil
		},
	}
}
