// Package git probes a directory for repository status: whether the working
// tree has uncommitted changes and which hosting provider its first remote
// points at. Version-control access goes through the Runner interface so the
// probe works with the git binary, with go-git, or with a test fake.
package git
