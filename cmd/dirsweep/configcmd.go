package dirsweep

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dirsweep/dirsweep/internal/config"
	"github.com/dirsweep/dirsweep/internal/git"
	"github.com/dirsweep/dirsweep/internal/types"
)

var (
	cfgOutput  string
	cfgGlobal  bool
	cfgForce   bool
	cfgNoColor bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .dirsweep.yml with the default settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".dirsweep.yml", "output file path")
	initCmd.Flags().BoolVar(&cfgGlobal, "global", false, "write the global config instead ($XDG_CONFIG_HOME/dirsweep/config.yml)")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the global config location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.GlobalPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cfgCmd.AddCommand(pathCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	out := cfgOutput
	if cfgGlobal {
		p, err := config.GlobalPath()
		if err != nil {
			return err
		}
		out = p
	}
	if _, err := os.Stat(out); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", out)
	}

	fc := config.FileConfig{
		Mode:       strPtr(string(types.ModeDirs)),
		Targets:    types.DefaultNames,
		NoColor:    boolPtr(cfgNoColor),
		GitBackend: strPtr("exec"),
		GitTimeout: strPtr(git.DefaultTimeout.String()),
		Audit:      boolPtr(true),
	}
	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(v bool) *bool    { return &v }
