package dirsweep

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dirsweep/dirsweep/internal/actions"
	"github.com/dirsweep/dirsweep/internal/audit"
	"github.com/dirsweep/dirsweep/internal/config"
	"github.com/dirsweep/dirsweep/internal/engine"
	"github.com/dirsweep/dirsweep/internal/prefs"
	"github.com/dirsweep/dirsweep/internal/report"
	"github.com/dirsweep/dirsweep/internal/types"
	"github.com/dirsweep/dirsweep/internal/update"
)

// request flags shared by scan and browse
var (
	flagPath         string
	flagMode         string
	flagTargets      []string
	flagExts         []string
	flagExcludes     []string
	flagExcludeGlobs []string
)

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "root directory to scan")
	cmd.Flags().StringVarP(&flagMode, "mode", "m", "", "dirs | files (default dirs)")
	cmd.Flags().StringSliceVarP(&flagTargets, "target", "t", nil, "directory names to find (repeatable, default node_modules,Pods,.git,dist,build)")
	cmd.Flags().StringSliceVarP(&flagExts, "ext", "e", nil, "file extensions to find in files mode (repeatable)")
	cmd.Flags().StringSliceVar(&flagExcludes, "exclude", nil, "directory names never entered in files mode (repeatable)")
	cmd.Flags().StringSliceVar(&flagExcludeGlobs, "exclude-glob", nil, "glob patterns of paths to skip (repeatable)")
}

// resolveRequest builds a scan request from flags, config files and saved
// preferences, in that order of precedence.
func resolveRequest(cmd *cobra.Command) (types.ScanRequest, config.FileConfig, error) {
	var req types.ScanRequest
	if strings.TrimSpace(flagPath) == "" {
		return req, config.FileConfig{}, fmt.Errorf("%w: root path is empty", engine.ErrInvalidInput)
	}
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return req, config.FileConfig{}, fmt.Errorf("%w: %v", engine.ErrInvalidInput, err)
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return req, cfg, fmt.Errorf("config error: %w", err)
	}
	p := loadPrefs()

	mode, err := engine.ParseMode(pickString(flagMode, cfg.Mode, nil))
	if err != nil {
		return req, cfg, err
	}
	req = types.ScanRequest{
		Root:         abs,
		Mode:         mode,
		Targets:      pickList(cmd, "target", flagTargets, cfg.Targets, p.Targets),
		Extensions:   pickList(cmd, "ext", flagExts, cfg.Extensions, p.Extensions),
		Excludes:     pickList(cmd, "exclude", flagExcludes, cfg.Excludes, nil),
		ExcludeGlobs: pickList(cmd, "exclude-glob", flagExcludeGlobs, cfg.ExcludeGlobs, nil),
	}
	return req, cfg, nil
}

func loadPrefs() prefs.Prefs {
	s, err := prefs.Open()
	if err != nil {
		return prefs.DefaultPrefs()
	}
	return s.Load()
}

// openAudit returns the audit log, or nil when auditing is switched off.
func openAudit(cmd *cobra.Command, cfg config.FileConfig) *audit.AuditLog {
	if flagNoAudit || !cfg.IsAuditEnabled() {
		return nil
	}
	p, err := audit.DefaultPath()
	if err != nil {
		return nil
	}
	return audit.NewAuditLog(p, logger(cmd))
}

// newDeleter returns a Deleter that records to log when it is non-nil.
func newDeleter(log *audit.AuditLog) *actions.Deleter {
	if log == nil {
		return &actions.Deleter{}
	}
	return &actions.Deleter{Recorder: log}
}

func printOptions(cmd *cobra.Command, cfg config.FileConfig) report.PrintOptions {
	noColor := pickBool(flagNoColor, cfg.NoColor, nil)
	return report.PrintOptions{NoColor: noColor || !report.ColorEnabled(false, outFile(cmd))}
}

// visiblePaths flattens a view back into absolute paths in display order.
func visiblePaths(v report.View) []string {
	out := make([]string, 0, v.Count)
	for _, g := range v.Groups {
		out = append(out, g.Paths...)
	}
	return out
}

func checkForUpdate(cmd *cobra.Command) {
	if flagNoUpdateCheck || flagJSON {
		return
	}
	if latest, newer, _ := update.Check(version, false); newer && latest != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "(new version available: v%s)  run 'dirsweep update' to upgrade\n", latest)
	}
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickList prefers an explicitly set flag, then config, then fallback.
func pickList(cmd *cobra.Command, name string, cli, cfg, fallback []string) []string {
	if cmd.Flags().Changed(name) {
		return cli
	}
	if len(cfg) > 0 {
		return cfg
	}
	return fallback
}
