package dirsweep

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/prefs"
	"github.com/dirsweep/dirsweep/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prefs <targets|extensions> <list|add|remove|reset> [values...]",
		Short: "Manage the saved target names and file extensions",
		Long:  "Saved lists are used whenever --target or --ext is not given and no config file sets them. They are stored in ~/.dirsweep/prefs.json.",
		Example: `  dirsweep prefs targets add target .venv
  dirsweep prefs extensions add zip dmg
  dirsweep prefs targets reset`,
		Args: cobra.MinimumNArgs(2),
		RunE: runPrefs,
	}
	rootCmd.AddCommand(cmd)
}

func runPrefs(cmd *cobra.Command, args []string) error {
	key, err := prefs.ParseKey(args[0])
	if err != nil {
		return err
	}
	store, err := prefs.Open()
	if err != nil {
		return err
	}
	values := args[2:]

	var list []string
	switch strings.ToLower(args[1]) {
	case "list", "ls":
		list = store.Load().List(key)
	case "add":
		if len(values) == 0 {
			return fmt.Errorf("add needs at least one value")
		}
		list, err = store.Add(key, values...)
	case "remove", "rm":
		if len(values) == 0 {
			return fmt.Errorf("remove needs at least one value")
		}
		list, err = store.Remove(key, values...)
	case "reset":
		list, err = store.Reset(key)
	default:
		return fmt.Errorf("unknown prefs action %q (want list|add|remove|reset)", args[1])
	}
	if err != nil {
		return err
	}

	if flagJSON {
		if list == nil {
			list = []string{}
		}
		return report.WriteJSON(cmd.OutOrStdout(), map[string][]string{string(key): list})
	}
	if len(list) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s saved\n", key)
		return nil
	}
	for _, v := range list {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
