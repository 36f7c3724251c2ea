package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Qendolin/rfid-scan-logger/pkg/app"
	"github.com/Qendolin/rfid-scan-logger/pkg/core/scanlog"
	"github.com/Qendolin/rfid-scan-logger/pkg/logging"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

// confirm asks a yes/no question on the terminal. Replaced in tests.
var confirm = confirmWithDialog

func newRootCmd() *cobra.Command {
	var flags *app.Flags

	rootCmd := &cobra.Command{
		Use:   "scan-logger",
		Short: "Log RFID tag scans from a keyboard-wedge reader",
		Long: "scan-logger keeps a focused input for a keyboard-wedge RFID reader, " +
			"timestamps every scan and saves the log to a file or local storage.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}
	flags = app.RegisterFlags(rootCmd.PersistentFlags())

	// command for printing the saved log
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the saved log, oldest entry first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, cfg *app.Config, s *scanlog.Session) error {
				if s.Len() == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), scanlog.Describe(scanlog.ErrNothingToExport))
					return nil
				}
				if err := s.Export(cmd.OutOrStdout()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}

	// command for writing the saved log to an export file
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved log to a new file in the export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, cfg *app.Config, s *scanlog.Session) error {
				path, err := s.ExportToDir(cfg.ExportDir, time.Now())
				if err != nil {
					return fmt.Errorf("%s: %w", scanlog.Describe(err), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d entries to %s\n", s.Len(), path)
				return nil
			})
		},
	}

	// command for deleting the saved log
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, cfg *app.Config, s *scanlog.Session) error {
				if _, ok := s.Store().(scanlog.Clearer); !ok {
					return fmt.Errorf("%s cannot be cleared", s.Store().Name())
				}
				if !yes {
					ok, err := confirm(fmt.Sprintf("Delete all %d entries from %s?", s.Len(), s.Store().Name()))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Nothing was deleted.")
						return nil
					}
				}
				n := s.Len()
				if err := s.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries.\n", n)
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")

	// add commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)

	return rootCmd
}

// withSession opens the configured store for a headless command and restores
// the saved log into a session. Diagnostic output goes to stderr with --verbose.
func withSession(cmd *cobra.Command, flags *app.Flags, fn func(ctx context.Context, cfg *app.Config, s *scanlog.Session) error) error {
	cfg, err := flags.Resolve()
	if err != nil {
		return err
	}
	logger := logging.NewLogger()
	if cfg.Verbose {
		logger.SetWriter(cmd.ErrOrStderr())
		logger.SetDebug(true)
	} else {
		logger.SetWriter(io.Discard)
	}
	logging.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := app.OpenBackend(ctx, cfg)
	if backend != nil {
		defer backend.Close()
	}
	if err != nil {
		return err
	}

	if _, ok := backend.Store.(scanlog.Loader); !ok {
		return fmt.Errorf("the %s store keeps no saved log; use --store kv", cfg.Store)
	}
	session := scanlog.NewSession(backend.Store, cfg.Format())
	if _, err := session.Restore(ctx); err != nil {
		return err
	}
	return fn(ctx, cfg, session)
}

// confirmWithDialog shows a small Yes/No dialog and reports the choice.
func confirmWithDialog(question string) (bool, error) {
	answer := false
	dialog := tview.NewApplication()
	modal := tview.NewModal().
		SetText(question).
		AddButtons([]string{"No", "Yes"}).
		SetDoneFunc(func(_ int, label string) {
			answer = label == "Yes"
			dialog.Stop()
		})
	if err := dialog.SetRoot(modal, false).EnableMouse(true).Run(); err != nil {
		return false, fmt.Errorf("asking for confirmation: %w", err)
	}
	return answer, nil
}
