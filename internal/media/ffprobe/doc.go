// Package ffprobe wraps ffprobe JSON output for verifying downloaded audio.
//
// Prober.VerifyAudio is the entry point used by the audio backfill: a file
// that ffprobe can read but that carries no audio stream yields ErrNoAudio.
package ffprobe
