package dirsweep

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/update"
)

var flagSelfUpdate bool

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if flagSelfUpdate {
				v, err := update.SelfUpdate(version)
				if err != nil {
					return fmt.Errorf("self-update failed: %w", err)
				}
				fmt.Fprintf(out, "Updated to v%s\n", v)
				return nil
			}
			latest, newer, err := update.Check(version, false)
			if err != nil {
				return err
			}
			switch {
			case latest == "":
				fmt.Fprintln(out, "Could not determine the latest release")
			case newer:
				fmt.Fprintf(out, "v%s is available (current v%s); run 'dirsweep update --self-update'\n", latest, version)
			default:
				fmt.Fprintf(out, "dirsweep v%s is up to date\n", version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagSelfUpdate, "self-update", false, "download and install the latest release")
	rootCmd.AddCommand(cmd)
}
