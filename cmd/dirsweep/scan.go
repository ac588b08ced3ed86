package dirsweep

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/cache"
	"github.com/dirsweep/dirsweep/internal/engine"
	"github.com/dirsweep/dirsweep/internal/report"
	"github.com/dirsweep/dirsweep/internal/types"
)

var (
	flagText    bool
	flagTable   bool
	flagSort    string
	flagGroup   string
	flagFilter  string
	flagCopy    bool
	flagStats   bool
	flagDelete  bool
	flagYes     bool
	flagNoCache bool
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List matching directories or files under a root",
		Example: `  dirsweep scan -p ~/code
  dirsweep scan -p ~/code -t node_modules -t target --group top
  dirsweep scan -p ~/Downloads -m files -e zip -e dmg --sort lenDesc
  dirsweep scan -p ~/code -t node_modules --delete --yes`,
		Args: cobra.NoArgs,
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	addRequestFlags(cmd)
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders")
	cmd.Flags().BoolVar(&flagText, "text", false, "output grouped plain text (default)")
	cmd.Flags().StringVar(&flagSort, "sort", "", "az | za | lenAsc | lenDesc (default: traversal order)")
	cmd.Flags().StringVar(&flagGroup, "group", "none", "none | target | parent | top")
	cmd.Flags().StringVar(&flagFilter, "filter", "", "only show paths containing this text (case-insensitive)")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the listed paths to the clipboard")
	cmd.Flags().BoolVar(&flagStats, "stats", false, "print walk statistics")
	cmd.Flags().BoolVar(&flagDelete, "delete", false, "delete every listed path (requires --yes)")
	cmd.Flags().BoolVar(&flagYes, "yes", false, "confirm destructive actions")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "do not store results for 'browse --cached'")
}

func runScan(cmd *cobra.Command, _ []string) error {
	order, err := report.ParseSort(flagSort)
	if err != nil {
		return err
	}
	group, err := report.ParseGroup(flagGroup)
	if err != nil {
		return err
	}
	if flagDelete && !flagYes {
		return errors.New("refusing to delete without --yes")
	}
	req, cfg, err := resolveRequest(cmd)
	if err != nil {
		return err
	}
	log := logger(cmd)
	checkForUpdate(cmd)

	res, err := engine.ScanWithStats(req, engine.Options{Logger: log})
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if !flagNoCache {
		if store, err := cache.Open(); err == nil {
			if err := store.Save(req, res.Output, res.Stats); err != nil {
				log.Warn("cache write failed", "error", err)
			}
		}
	}
	auditLog := openAudit(cmd, cfg)
	if auditLog != nil {
		if err := auditLog.LogScan(req, res.Output, res.Stats, res.Duration); err != nil {
			log.Warn("audit write failed", "error", err)
		}
	}

	view := report.Build(req.Root, res.Output.Results, flagFilter, order, group)
	paths := visiblePaths(view)
	out := cmd.OutOrStdout()
	opts := printOptions(cmd, cfg)
	opts.Duration = res.Duration
	if flagStats {
		opts.Stats = &res.Stats
	}

	var deleted []types.DeleteResult
	if flagDelete {
		deleted = newDeleter(auditLog).DeleteAll(paths)
	}

	switch {
	case flagJSON:
		doc := scanJSON{ScanOutput: types.ScanOutput{Count: len(paths), Results: paths}, Deleted: deleted}
		if err := report.WriteJSON(out, doc); err != nil {
			return err
		}
	case flagTable:
		if err := report.PrintTable(out, view, opts); err != nil {
			return err
		}
	default:
		report.PrintText(out, view, opts)
	}

	if flagCopy {
		if err := copyToClipboard(strings.Join(view.Flat, "\n")); err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "clipboard warning:", err)
		} else if !flagJSON {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d paths to clipboard\n", len(view.Flat))
		}
	}

	if flagDelete {
		if !flagJSON {
			fmt.Fprintln(out)
			report.PrintDeleteResults(out, deleted, opts)
		}
		if anyFailed(deleted) {
			return &exitError{code: 1}
		}
	}
	return nil
}

// scanJSON is the --json document; deleted is present only with --delete.
type scanJSON struct {
	types.ScanOutput
	Deleted []types.DeleteResult `json:"deleted,omitempty"`
}

func anyFailed(results []types.DeleteResult) bool {
	for _, r := range results {
		if !r.OK {
			return true
		}
	}
	return false
}

func outFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}
