package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/dirsweep/dirsweep/internal/types"
)

type PrintOptions struct {
	NoColor  bool
	Duration time.Duration
	Stats    *types.ScanStats
}

// ColorEnabled reports whether output to f should be colored.
func ColorEnabled(noColor bool, f *os.File) bool {
	if noColor || os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func paint(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// WriteJSON writes v as indented JSON. A ScanOutput without results is
// written with an empty results array.
func WriteJSON(w io.Writer, v any) error {
	if out, ok := v.(types.ScanOutput); ok && out.Results == nil {
		out.Results = []string{}
		v = out
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintText writes each group with a header followed by its paths relative to
// the view root.
func PrintText(w io.Writer, v View, opts PrintOptions) {
	if v.Count == 0 {
		fmt.Fprintln(w, "No matches found")
	} else {
		head := paint(opts.NoColor, color.FgCyan, color.Bold)
		for _, g := range v.Groups {
			fmt.Fprintln(w, head.Sprintf("%s (%d)", g.Label, len(g.Paths)))
			for _, p := range g.Paths {
				fmt.Fprintf(w, "  %s\n", Relative(v.Root, p))
			}
		}
	}
	printFooter(w, v, opts)
}

// PrintTable renders the view as a bordered table.
func PrintTable(w io.Writer, v View, opts PrintOptions) error {
	if v.Count == 0 {
		fmt.Fprintln(w, "No matches found")
		printFooter(w, v, opts)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Path")
	for _, g := range v.Groups {
		for _, p := range g.Paths {
			if err := table.Append([]string{g.Label, Relative(v.Root, p)}); err != nil {
				return err
			}
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	printFooter(w, v, opts)
	return nil
}

func printFooter(w io.Writer, v View, opts PrintOptions) {
	if opts.Duration <= 0 && opts.Stats == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Matches: %d\n", v.Count)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.Stats != nil {
		fmt.Fprintf(w, "Directories visited: %d\n", opts.Stats.DirsVisited)
		if opts.Stats.Unreadable > 0 {
			warn := paint(opts.NoColor, color.FgYellow)
			fmt.Fprintln(w, warn.Sprintf("Unreadable entries skipped: %d", opts.Stats.Unreadable))
		}
	}
}

// PrintDeleteResults writes one status line per deletion and a summary.
func PrintDeleteResults(w io.Writer, results []types.DeleteResult, opts PrintOptions) {
	green := paint(opts.NoColor, color.FgGreen)
	red := paint(opts.NoColor, color.FgRed)
	failed := 0
	for _, r := range results {
		if r.OK {
			fmt.Fprintf(w, "%s %s\n", green.Sprint("deleted"), r.Path)
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s: %s\n", red.Sprint("failed "), r.Path, r.Error)
	}
	fmt.Fprintf(w, "Deleted %d of %d\n", len(results)-failed, len(results))
}

// PrintStatus writes a one-line summary of a repository probe.
func PrintStatus(w io.Writer, dir string, st types.RepoStatus, opts PrintOptions) {
	if !st.OK {
		red := paint(opts.NoColor, color.FgRed)
		fmt.Fprintf(w, "%s %s: %s\n", red.Sprint("error"), dir, st.Error)
		return
	}
	state := paint(opts.NoColor, color.FgGreen).Sprint("clean")
	if st.Dirty {
		state = paint(opts.NoColor, color.FgYellow).Sprint("dirty")
	}
	remote := "no remote"
	if st.HasRemote {
		remote = "remote: " + string(st.RemoteHost)
	}
	fmt.Fprintf(w, "%s %s (%s)\n", state, dir, remote)
}
