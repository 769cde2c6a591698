// Package audio backfills local audio files for dataset entries.
//
// Files are named <period>-<day>.<ext> inside the audio directory. An entry
// gains an audioFile once and keeps it; the pass never removes or renames a
// recorded file.
package audio
