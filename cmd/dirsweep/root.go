package dirsweep

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON          bool
	flagNoColor       bool
	flagVerbose       bool
	flagNoAudit       bool
	flagNoUpdateCheck bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the dirsweep CLI.
var rootCmd = &cobra.Command{
	Use:           "dirsweep",
	Short:         "Find and remove build output and dependency folders",
	Long:          "dirsweep walks a directory tree, lists dependency and build folders (node_modules, Pods, dist, ...) or files with chosen extensions, and lets you reveal or delete them.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code for failures that were already
// reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the dirsweep CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoAudit, "no-audit", false, "do not append to the audit log")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}

// logger returns the diagnostics logger. Without --verbose only warnings are
// shown.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
