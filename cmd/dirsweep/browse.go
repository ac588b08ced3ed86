package dirsweep

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dirsweep/dirsweep/internal/cache"
	"github.com/dirsweep/dirsweep/internal/engine"
	"github.com/dirsweep/dirsweep/internal/git"
	"github.com/dirsweep/dirsweep/internal/tui"
	"github.com/dirsweep/dirsweep/internal/types"
)

var flagCached bool

const probeCacheSize = 256

func init() {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse scan results interactively",
		Long:  "Opens a full-screen list of matches with filtering, sorting, grouping, reveal, delete (with confirmation), clipboard copy and git status of the selected directory.",
		Args:  cobra.NoArgs,
		RunE:  runBrowse,
	}
	addRequestFlags(cmd)
	cmd.Flags().BoolVar(&flagCached, "cached", false, "open the last stored results for this request instead of scanning")
	rootCmd.AddCommand(cmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	f := outFile(cmd)
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return errors.New("browse needs an interactive terminal; use 'dirsweep scan' instead")
	}
	req, cfg, err := resolveRequest(cmd)
	if err != nil {
		return err
	}
	log := logger(cmd)
	store, storeErr := cache.Open()
	auditLog := openAudit(cmd, cfg)

	scan := func() ([]string, error) {
		res, err := engine.ScanWithStats(req, engine.Options{Logger: log})
		if err != nil {
			return nil, err
		}
		if storeErr == nil {
			if err := store.Save(req, res.Output, res.Stats); err != nil {
				log.Warn("cache write failed", "error", err)
			}
		}
		if auditLog != nil {
			if err := auditLog.LogScan(req, res.Output, res.Stats, res.Duration); err != nil {
				log.Warn("audit write failed", "error", err)
			}
		}
		return res.Output.Results, nil
	}

	opts := tui.Options{
		Root:     req.Root,
		Rescan:   scan,
		Revealer: revealer,
		Deleter:  newDeleter(auditLog),
	}

	prober, err := newProber(cfg)
	if err != nil {
		return err
	}
	if cached, err := git.NewCachedProber(prober, probeCacheSize); err == nil {
		opts.Prober = cached
	} else {
		opts.Prober = prober
	}

	if flagCached && storeErr == nil {
		snap, err := store.Load(req)
		switch {
		case err == nil:
			opts.Results = snap.Output.Results
			opts.CachedAt = snap.Timestamp
		case errors.Is(err, cache.ErrMiss):
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "no cached results for this request; scanning")
		default:
			log.Warn("cache read failed", "error", err)
		}
	}
	if opts.CachedAt.IsZero() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %s for %s...\n", req.Root, describe(req))
		results, err := scan()
		if err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		opts.Results = results
	}
	return tui.Run(opts)
}

func describe(req types.ScanRequest) string {
	if req.Mode == types.ModeFiles {
		return fmt.Sprintf("files %v", engine.NormalizeExtensions(req.Extensions))
	}
	if len(req.Targets) == 0 {
		return fmt.Sprintf("directories %v", types.DefaultNames)
	}
	return fmt.Sprintf("directories %v", req.Targets)
}
