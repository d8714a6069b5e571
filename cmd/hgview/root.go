package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/spf13/cobra"

	"github.com/sergeknystautas/hgview/internal/config"
	"github.com/sergeknystautas/hgview/internal/hg"
	"github.com/sergeknystautas/hgview/internal/vcs"
)

// dryRunAnnotation marks commands that can print their hg invocation
// instead of running it.
const dryRunAnnotation = "hgview/dry-run"

var dryRunSupported = map[string]string{dryRunAnnotation: "true"}

// app carries the global flags and the state shared by every command.
type app struct {
	configPath string
	repoPath   string
	output     string
	logLevel   string
	dryRun     bool

	out    io.Writer
	errOut io.Writer

	cfg   *config.Config
	style *termStyle

	// openRepo replaces the hg backend when set.
	openRepo func(ctx context.Context) (vcs.Repository, error)
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "hgview",
		Short: "Read-only inspection of Mercurial repositories",
		Long: `hgview reads history, branches, diffs, file contents and working copy
status of a Mercurial repository by running the hg command line tool.

Examples:
  hgview log --limit 10
  hgview graph -R ~/src/project
  hgview diff bycommit 42
  hgview cat tip README --raw > README.copy`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.hgview/config.yaml)")
	flags.StringVarP(&a.repoPath, "repo", "R", ".", "repository root")
	flags.StringVarP(&a.output, "output", "o", "", "output format: table, json or yaml")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	flags.BoolVar(&a.dryRun, "dry-run", false, "print hg commands instead of running them")

	root.AddCommand(
		newLogCommand(a),
		newGraphCommand(a),
		newShowCommand(a),
		newBranchesCommand(a),
		newBranchHeadCommand(a),
		newDiffCommand(a),
		newCatCommand(a),
		newStatusCommand(a),
		newWatchCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	if a.output != "" {
		cfg.Output.Format = a.output
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	initLogger(cfg.Log.Level)
	a.style = newTermStyle(a.out, cfg.Output.Color)

	if a.dryRun && cmd.Annotations[dryRunAnnotation] == "" {
		return errm.Errorf("%s does not support --dry-run", cmd.CommandPath())
	}
	return nil
}

func initLogger(level string) {
	c := logze.C().WithConsole()
	switch level {
	case "trace":
		c = c.WithLevel(logze.LevelTrace)
	case "debug":
		c = c.WithLevel(logze.LevelDebug)
	case "warn":
		c = c.WithLevel(logze.LevelWarn)
	case "error":
		c = c.WithLevel(logze.LevelError)
	default:
		c = c.WithLevel(logze.LevelInfo)
	}
	logze.Init(c)
}

func (a *app) executor() vcs.Executor {
	if a.dryRun {
		return newDryRunExecutor(a.out, a.cfg.Hg.Program)
	}
	return vcs.NewCommandExecutor(a.cfg.Hg.Program, a.cfg.Hg.Timeout, "HGPLAIN=1")
}

func (a *app) commands() hg.CommandBuilder {
	return hg.CommandBuilder{Encoding: a.cfg.Hg.Encoding}
}

// repository opens the working copy named by --repo.
func (a *app) repository(ctx context.Context) (vcs.Repository, error) {
	if a.openRepo != nil {
		return a.openRepo(ctx)
	}
	if a.dryRun {
		// nothing runs, so the root cannot be verified
		abs, err := filepath.Abs(a.repoPath)
		if err != nil {
			return nil, errm.Wrap(err, "resolve repository path")
		}
		return hg.NewRepository(a.executor(), abs, a.commands()), nil
	}

	w, err := a.wrapper()
	if err != nil {
		return nil, err
	}
	if a.cfg.Hg.MinVersion != "" {
		if _, err := w.CheckVersion(ctx); err != nil {
			return nil, err
		}
	}
	return w.Open(ctx, a.repoPath)
}

func (a *app) wrapper() (*hg.Wrapper, error) {
	return hg.NewWrapper(a.executor(), hg.Options{
		MinVersion: a.cfg.Hg.MinVersion,
		Encoding:   a.cfg.Hg.Encoding,
	})
}

// emit writes v in the configured structured format, or calls table.
// Nothing is printed in dry-run mode.
func (a *app) emit(v any, table func()) error {
	if a.dryRun {
		return nil
	}
	done, err := writeStructured(a.out, a.cfg.Output.Format, v)
	if err != nil || done {
		return err
	}
	table()
	return nil
}
