// Package core provides a small, stable facade over dirsweep's internal
// packages for programs that embed the traversal engine. It re-exports a
// narrow API surface so callers can depend on a stable import path without
// importing internal implementation packages.
//
// Example:
//
//	out, err := core.Scan(core.ScanRequest{Root: ".", Mode: core.ModeDirs})
//	if err != nil { /* handle */ }
//	_ = core.MarshalOutput(os.Stdout, out)
package core
