package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"extsort/internal/app"
	"extsort/internal/config"
	"extsort/internal/domain"
	appErrors "extsort/internal/errors"
	"extsort/internal/infra/exif"
	"extsort/internal/infra/fs"
	"extsort/internal/infra/lock"
	"extsort/internal/logging"
	"extsort/internal/presentation"
	"extsort/internal/tui"
)

// Version is injected at build time via -ldflags
var Version = "dev"

func newRootCommand() *cobra.Command {
	var flags config.Config
	var configPath string

	cmd := &cobra.Command{
		Use:   "extsort [flags] <source> <destination>",
		Short: "Copy a directory tree into per-extension folders",
		Long: `extsort walks the source directory recursively and copies every regular
file to <destination>/<extension>/<name>. Files without an extension go to
<destination>/no_extension. Copies run concurrently; a file that fails to copy
is reported and does not stop the others.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(config.Input{
				Args:       args,
				Flags:      flags,
				Changed:    cmd.Flags().Changed,
				ConfigPath: configPath,
			})
			if err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.Jobs, config.FlagJobs, "j", config.Default().Jobs, "maximum number of files copied at once")
	f.BoolVarP(&flags.DryRun, config.FlagDryRun, "d", false, "list what would be copied without copying")
	f.BoolVarP(&flags.Verbose, config.FlagVerbose, "v", false, "verbose output")
	f.DurationVar(&flags.FileTimeout, config.FlagFileTimeout, 0, "abort a single copy after this long (0 disables)")
	f.BoolVar(&flags.ExifTimes, config.FlagExifTimes, false, "set copied images' modification time from EXIF capture time")
	f.BoolVar(&flags.TUI, config.FlagTUI, false, "show an interactive progress view")
	f.BoolVar(&flags.NoLock, config.FlagNoLock, false, "do not guard the destination against concurrent runs")
	f.StringVarP(&configPath, config.FlagConfig, "c", "", "config file (.toml or .yaml)")

	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger := logging.New(os.Stderr, cfg.Verbose)
	printer := presentation.Printer{
		Writer:  os.Stdout,
		Verbose: cfg.Verbose,
	}

	dispatcher := &app.Dispatcher{
		FS:          fs.OSFS{},
		Logger:      logger,
		Jobs:        cfg.Jobs,
		FileTimeout: cfg.FileTimeout,
	}
	if cfg.ExifTimes {
		dispatcher.Exif = exif.Reader{}
	}

	if cfg.DryRun {
		plan, err := dispatcher.Plan(ctx, cfg.SourceDir, cfg.TargetDir)
		if err != nil {
			return err
		}
		printer.PrintDryRun(plan)
		return nil
	}

	if err := dispatcher.Validate(cfg.SourceDir, cfg.TargetDir); err != nil {
		return err
	}
	if !cfg.NoLock {
		held, err := lock.Acquire(cfg.TargetDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := held.Release(); err != nil {
				logger.Warnf("%v", err)
			}
		}()
	}

	var summary domain.RunSummary
	var err error
	if cfg.TUI {
		summary, err = runTUI(ctx, dispatcher, cfg)
	} else {
		dispatcher.Observer = logging.Observer{Logger: logger}
		summary, err = dispatcher.Run(ctx, cfg.SourceDir, cfg.TargetDir)
	}
	if err != nil {
		return err
	}

	printer.PrintSummary(summary)
	if summary.Failed() > 0 {
		return fmt.Errorf("%d of %d files: %w", summary.Failed(), summary.Discovered(), errRunFailures)
	}
	return nil
}

func runTUI(ctx context.Context, dispatcher *app.Dispatcher, cfg config.Config) (domain.RunSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(tui.Config{
		SourceDir: cfg.SourceDir,
		TargetDir: cfg.TargetDir,
		Verbose:   cfg.Verbose,
		Cancel:    cancel,
	})
	program := tea.NewProgram(model)

	// Log lines would interleave with the progress view.
	dispatcher.Logger = logging.Logger{}
	dispatcher.Observer = tui.Observer{Send: program.Send}

	type result struct {
		summary domain.RunSummary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := dispatcher.Run(ctx, cfg.SourceDir, cfg.TargetDir)
		program.Send(tui.RunDoneMsg{Summary: summary, Err: err})
		done <- result{summary: summary, err: err}
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return domain.RunSummary{}, appErrors.Wrap(appErrors.Internal, "tui", "", err)
	}
	res := <-done
	return res.summary, res.err
}
