// Package dirsweep provides the command-line interface for the dirsweep tool.
// It configures subcommands (scan, browse, delete, status, etc.), resolves
// flags against config files and saved preferences, and executes the selected
// command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/dirsweep/dirsweep/cmd/dirsweep"
//	func main() { dirsweep.Execute() }
package dirsweep
