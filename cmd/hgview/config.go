package main

import (
	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the hgview config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := a.cfg.Path()
			if force {
				if err := config.CreateDefault(path).Save(); err != nil {
					return err
				}
				a.style.Success("Wrote " + path)
				return nil
			}

			if config.Exists(path) {
				a.style.Info("Config already exists at " + path)
				return nil
			}
			created, err := config.EnsureExists(path, config.PromptConfirm)
			if err != nil {
				return err
			}
			if !created {
				a.style.Warn("No config created")
				return nil
			}
			a.style.Success("Created " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "write defaults without asking, replacing any existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			format := a.cfg.Output.Format
			if format == formatTable {
				format = formatYAML
			}
			_, err := writeStructured(a.out, format, a.cfg)
			return err
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.style.Println(a.cfg.Path())
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}
