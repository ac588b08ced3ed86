package dirsweep

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/config"
	"github.com/dirsweep/dirsweep/internal/report"
)

var flagDeleteYes bool

func init() {
	cmd := &cobra.Command{
		Use:   "delete <path>...",
		Short: "Permanently delete directories or files",
		Long:  "Deletes each path: a directory with all of its contents, or a single file. Every path is attempted; the command exits non-zero if any of them failed.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDelete,
	}
	cmd.Flags().BoolVarP(&flagDeleteYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(cmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	paths := make([]string, 0, len(args))
	for _, a := range args {
		if strings.TrimSpace(a) == "" {
			paths = append(paths, a)
			continue
		}
		abs, err := filepath.Abs(a)
		if err != nil {
			return err
		}
		paths = append(paths, abs)
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if !flagDeleteYes {
		ok, err := confirm(cmd, fmt.Sprintf("Permanently delete %d path(s)?", len(paths)), paths)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
	}

	results := newDeleter(openAudit(cmd, cfg)).DeleteAll(paths)
	if flagJSON {
		if err := report.WriteJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		report.PrintDeleteResults(cmd.OutOrStdout(), results, printOptions(cmd, cfg))
	}
	if anyFailed(results) {
		return &exitError{code: 1}
	}
	return nil
}

// confirm lists items and reads a y/N answer from the command's input.
func confirm(cmd *cobra.Command, question string, items []string) (bool, error) {
	w := cmd.ErrOrStderr()
	for _, it := range items {
		fmt.Fprintln(w, "  "+it)
	}
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
