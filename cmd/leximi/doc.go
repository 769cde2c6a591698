// Package main hosts the leximi CLI entrypoint and command graph.
//
// sync and audio are the scheduled batch jobs; both take an advisory lock in
// the state directory so overlapping invocations fail fast. status, history
// and doctor are read-only views. Configuration is resolved once per
// invocation by commandContext; the heavy lifting lives in internal/pipeline
// and internal/audio.
package main
