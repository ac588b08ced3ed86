// Package engine contains the traversal core of dirsweep: one depth-first
// walker parameterized by a per-entry decision, and the two matchers built on
// it (target directories and files by extension). It holds no state between
// calls; every scan receives its configuration explicitly.
package engine
