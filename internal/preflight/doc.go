// Package preflight provides readiness checks for the directories, external
// programs and playlist feed that leximi depends on.
//
// The doctor command runs every check and renders the results; nothing in the
// sync or audio path calls into this package.
package preflight
