// Package config loads dirsweep configuration from root-local and global YAML
// files with precedence rules. CLI code maps flags and files into scan
// requests; the traversal core never reads configuration itself.
package config
