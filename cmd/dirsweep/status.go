package dirsweep

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/config"
	"github.com/dirsweep/dirsweep/internal/git"
	"github.com/dirsweep/dirsweep/internal/report"
)

var (
	flagBackend    string
	flagGitBinary  string
	flagGitTimeout time.Duration
)

func init() {
	cmd := &cobra.Command{
		Use:   "status <dir>",
		Short: "Report whether a directory is a clean or dirty git repository and where it is hosted",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
	cmd.Flags().StringVar(&flagBackend, "backend", "", "exec | gogit (default exec, or git_backend from config)")
	cmd.Flags().StringVar(&flagGitBinary, "git", "", "git binary for the exec backend")
	cmd.Flags().DurationVar(&flagGitTimeout, "timeout", 0, "per-command timeout (default 10s)")
	rootCmd.AddCommand(cmd)
}

// newProber builds a prober from flags over config defaults.
func newProber(cfg config.FileConfig) (*git.Prober, error) {
	backend := flagBackend
	if backend == "" {
		backend = cfg.GetGitBackend()
	}
	timeout := flagGitTimeout
	if timeout <= 0 {
		timeout = cfg.GetGitTimeout(git.DefaultTimeout)
	}
	binary := flagGitBinary
	if binary == "" {
		binary = cfg.GetGitBinary()
	}
	runner, err := git.RunnerFor(backend, git.ExecRunner{Binary: binary, Timeout: timeout})
	if err != nil {
		return nil, err
	}
	return git.NewProber(runner), nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	prober, err := newProber(cfg)
	if err != nil {
		return err
	}
	st := prober.Status(context.Background(), dir)
	if flagJSON {
		return report.WriteJSON(cmd.OutOrStdout(), st)
	}
	report.PrintStatus(cmd.OutOrStdout(), dir, st, printOptions(cmd, cfg))
	return nil
}
