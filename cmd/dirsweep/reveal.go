package dirsweep

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/actions"
	"github.com/dirsweep/dirsweep/internal/report"
)

// revealer is swapped out in tests.
var revealer interface {
	Reveal(path string) (bool, error)
} = actions.NewRevealer()

func init() {
	cmd := &cobra.Command{
		Use:   "reveal <path>",
		Short: "Show a path in the system file manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := args[0]
			if p != "" {
				if abs, err := filepath.Abs(p); err == nil {
					p = abs
				}
			}
			if _, err := revealer.Reveal(p); err != nil {
				return err
			}
			if !flagJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "Revealed", p)
				return nil
			}
			return report.WriteJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "path": p})
		},
	}
	rootCmd.AddCommand(cmd)
}
