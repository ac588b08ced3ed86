package engine

import "github.com/dirsweep/dirsweep/internal/types"

// FindTargetDirs returns every directory below root whose name is in targets.
// Matched directories are not entered, so nested matches inside them are never
// reported. Empty targets fall back to types.DefaultNames.
func FindTargetDirs(root string, targets []string) []string {
	found, _ := Walk(root, targetDecider(targets), WalkOptions{})
	return found
}

// FindFilesByExtensions returns every regular file below root whose name ends
// with one of exts, skipping directories named in excludes. An empty extension
// list matches nothing. Empty excludes fall back to types.DefaultNames.
func FindFilesByExtensions(root string, exts, excludes []string) []string {
	found, _ := findFiles(root, exts, excludes, WalkOptions{})
	return found
}

func findFiles(root string, exts, excludes []string, opts WalkOptions) ([]string, types.ScanStats) {
	norm := NormalizeExtensions(exts)
	if len(norm) == 0 {
		return []string{}, types.ScanStats{}
	}
	return Walk(root, extensionDecider(norm, excludes), opts)
}

func targetDecider(targets []string) Decider {
	set := nameSet(targets)
	return func(e types.Entry) Decision {
		if !e.IsDir {
			return Prune
		}
		if set[e.Name] {
			return Collect
		}
		return Continue
	}
}

// extensionDecider expects already normalized extensions.
func extensionDecider(exts, excludes []string) Decider {
	skip := nameSet(excludes)
	return func(e types.Entry) Decision {
		switch {
		case e.IsDir:
			if skip[e.Name] {
				return Prune
			}
			return Continue
		case e.IsRegular:
			if matchExtension(e.Name, exts) {
				return Collect
			}
		}
		return Prune
	}
}
