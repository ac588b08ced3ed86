// Package actions implements the per-path operations offered on scan results:
// revealing a path in the platform file manager and deleting it. Each call is
// self-contained and touches only the path it is given.
package actions
