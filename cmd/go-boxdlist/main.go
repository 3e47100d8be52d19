package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-boxdlist/internal/config"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (like closing
// the log file) run before the process terminates.
func main() {
	os.Exit(runMain())
}

// rootOptions carries the persistent flags and the log closer set up before any command runs.
type rootOptions struct {
	debug     bool
	version   bool
	logCloser io.Closer
}

// runMain manages the application lifecycle, argument parsing and exit codes.
func runMain() int {
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := &rootOptions{}
	cmd := newRootCmd(opts)

	err := cmd.ExecuteContext(ctx)
	if opts.logCloser != nil {
		defer func() {
			_ = opts.logCloser.Close() // Best effort close
		}()
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// newRootCmd builds the command tree. Without a subcommand the desktop window opens.
func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CommandName,
		Short:         config.CmdShortRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.version {
				return
			}
			opts.logCloser = setupLogging(opts.debug, cmd.ErrOrStderr())
			logStartupInfo()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return runGUI(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.Flags().BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(newExportCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newGUICmd())
	return root
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
