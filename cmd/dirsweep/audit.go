package dirsweep

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/audit"
	"github.com/dirsweep/dirsweep/internal/report"
)

var (
	flagAuditLimit int
	flagAuditPrune int
	flagAuditPath  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent scans and deletions",
		Args:  cobra.NoArgs,
		RunE:  runAudit,
	}
	cmd.Flags().IntVarP(&flagAuditLimit, "limit", "n", 20, "number of records to show (0 = all)")
	cmd.Flags().IntVar(&flagAuditPrune, "prune", -1, "keep only the newest N records")
	cmd.Flags().BoolVar(&flagAuditPath, "path", false, "print the audit log location and exit")
	rootCmd.AddCommand(cmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	p, err := audit.DefaultPath()
	if err != nil {
		return err
	}
	log := audit.NewAuditLog(p, logger(cmd))
	if flagAuditPath {
		fmt.Fprintln(cmd.OutOrStdout(), log.Path())
		return nil
	}
	if flagAuditPrune >= 0 {
		if err := log.Prune(flagAuditPrune); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	records, err := log.LoadHistory()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			records = nil
		} else {
			return err
		}
	}
	if flagAuditLimit > 0 && len(records) > flagAuditLimit {
		records = records[:flagAuditLimit]
	}

	if flagJSON {
		if records == nil {
			records = []audit.Record{}
		}
		return report.WriteJSON(cmd.OutOrStdout(), records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit records")
		return nil
	}
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Time", "Kind", "Target", "Result")
	for _, r := range records {
		if err := table.Append(auditRow(r)); err != nil {
			return err
		}
	}
	return table.Render()
}

func auditRow(r audit.Record) []string {
	ts := r.Timestamp.Local().Format("2006-01-02 15:04:05")
	switch r.Kind {
	case audit.KindDelete:
		result := "ok"
		if !r.OK {
			result = "failed: " + r.Error
		}
		return []string{ts, string(r.Kind), r.Path, result}
	default:
		result := strconv.Itoa(r.Count) + " matches in " + r.Duration
		if r.Unreadable > 0 {
			result += fmt.Sprintf(", %d unreadable", r.Unreadable)
		}
		return []string{ts, string(r.Kind) + " " + string(r.Mode), r.Root, result}
	}
}
