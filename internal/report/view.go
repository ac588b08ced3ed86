package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortOrder selects how result paths are ordered for display.
type SortOrder string

const (
	SortNone    SortOrder = ""
	SortAZ      SortOrder = "az"
	SortZA      SortOrder = "za"
	SortLenAsc  SortOrder = "lenAsc"
	SortLenDesc SortOrder = "lenDesc"
)

// SortOrders lists the orders in the sequence the browser cycles through them.
var SortOrders = []SortOrder{SortNone, SortAZ, SortZA, SortLenAsc, SortLenDesc}

// GroupBy selects how result paths are bucketed for display.
type GroupBy string

const (
	GroupNone   GroupBy = "none"
	GroupTarget GroupBy = "target"
	GroupParent GroupBy = "parent"
	GroupTop    GroupBy = "top"
)

// GroupModes lists the groupings in cycle order.
var GroupModes = []GroupBy{GroupNone, GroupTarget, GroupParent, GroupTop}

const (
	allResultsLabel = "All results"
	rootLabel       = "(root)"
	unknownLabel    = "(unknown)"
)

// ParseSort validates a sort order name.
func ParseSort(s string) (SortOrder, error) {
	for _, o := range SortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q (want az, za, lenAsc or lenDesc)", s)
}

// ParseGroup validates a grouping name. Empty means none.
func ParseGroup(s string) (GroupBy, error) {
	if s == "" {
		return GroupNone, nil
	}
	for _, g := range GroupModes {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid group %q (want none, target, parent or top)", s)
}

// Filter keeps paths containing term, case-insensitively. A blank term keeps
// everything. The input is not modified.
func Filter(paths []string, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if term == "" || strings.Contains(strings.ToLower(p), term) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy of paths. SortNone keeps the traversal order.
func Sort(paths []string, order SortOrder) []string {
	out := slices.Clone(paths)
	if out == nil {
		out = []string{}
	}
	switch order {
	case SortAZ:
		slices.SortStableFunc(out, strings.Compare)
	case SortZA:
		slices.SortStableFunc(out, func(a, b string) int { return strings.Compare(b, a) })
	case SortLenAsc:
		slices.SortStableFunc(out, func(a, b string) int { return cmp.Compare(len(a), len(b)) })
	case SortLenDesc:
		slices.SortStableFunc(out, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	}
	return out
}

// Relative strips root and any leading separator from p. Paths outside root,
// including siblings that merely share its prefix, are returned unchanged.
func Relative(root, p string) string {
	if root == "" || !strings.HasPrefix(p, root) {
		return p
	}
	rest := p[len(root):]
	if !isSep(root[len(root)-1]) && (rest == "" || !isSep(rest[0])) {
		return p
	}
	r := strings.TrimLeft(rest, `/\`)
	if r == "" {
		return p
	}
	return r
}

func isSep(c byte) bool { return c == '/' || c == '\\' }

// Group is one labelled bucket of results.
type Group struct {
	Label string   `json:"label"`
	Paths []string `json:"paths"`
}

// GroupPaths buckets paths by the given mode. Groups appear in order of their
// first member and members keep their input order.
func GroupPaths(paths []string, root string, by GroupBy) []Group {
	if by == GroupNone || by == "" {
		return []Group{{Label: allResultsLabel, Paths: slices.Clone(nonNil(paths))}}
	}
	var groups []Group
	index := map[string]int{}
	for _, p := range paths {
		var key string
		switch by {
		case GroupTarget:
			key = lastSegment(p)
		case GroupParent:
			key = parentOf(Relative(root, p))
		case GroupTop:
			key = topLevel(Relative(root, p))
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Label: key})
		}
		groups[i].Paths = append(groups[i].Paths, p)
	}
	if groups == nil {
		groups = []Group{}
	}
	return groups
}

func splitSegments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
}

func lastSegment(p string) string {
	parts := splitSegments(p)
	if len(parts) == 0 {
		return unknownLabel
	}
	return parts[len(parts)-1]
}

func parentOf(rel string) string {
	parts := splitSegments(rel)
	if len(parts) <= 1 {
		return rootLabel
	}
	sep := "/"
	if strings.Contains(rel, `\`) && !strings.Contains(rel, "/") {
		sep = `\`
	}
	return strings.Join(parts[:len(parts)-1], sep)
}

func topLevel(rel string) string {
	parts := splitSegments(rel)
	if len(parts) == 0 {
		return rootLabel
	}
	return parts[0]
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}

// View is the filtered, sorted and grouped presentation of a result list.
type View struct {
	Root   string
	Term   string
	Order  SortOrder
	By     GroupBy
	Groups []Group
	// Flat lists the displayed paths relative to Root, in display order.
	Flat  []string
	Count int
}

// Build applies Filter, Sort and GroupPaths in that order.
func Build(root string, paths []string, term string, order SortOrder, by GroupBy) View {
	shown := Sort(Filter(paths, term), order)
	groups := GroupPaths(shown, root, by)
	flat := make([]string, 0, len(shown))
	for _, g := range groups {
		for _, p := range g.Paths {
			flat = append(flat, Relative(root, p))
		}
	}
	return View{Root: root, Term: term, Order: order, By: by, Groups: groups, Flat: flat, Count: len(shown)}
}
