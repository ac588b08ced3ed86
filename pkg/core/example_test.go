package core_test

import (
	"fmt"
	"os"

	"github.com/dirsweep/dirsweep/pkg/core"
)

// ExampleScan demonstrates finding dependency folders under a directory.
func ExampleScan() {
	out, err := core.Scan(core.ScanRequest{
		Root:    ".",
		Mode:    core.ModeDirs,
		Targets: []string{"node_modules", "target"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		return
	}
	_ = core.MarshalOutput(os.Stdout, out)
}

// ExampleScan_files shows an extension scan that skips vendored trees.
func ExampleScan_files() {
	out, err := core.Scan(core.ScanRequest{
		Root:       ".",
		Mode:       core.ModeFiles,
		Extensions: []string{"zip", ".DMG"},
		Excludes:   []string{"node_modules", ".git"},
	})
	if err != nil {
		return
	}
	for _, p := range out.Results {
		fmt.Println(p)
	}
}
