package dirsweep

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/cache"
)

func init() {
	cacheCmd := &cobra.Command{Use: "cache", Short: "Manage stored scan results"}
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every stored scan result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := cache.Open()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared cached results in", store.Dir)
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := cache.DefaultDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	})
}
