// Package ytdlp mediates access to the yt-dlp CLI.
//
// It builds the argument lists for chapter lookups and audio extraction,
// paces invocations with a rate limiter, bounds each one with a timeout and
// tags failures with the services error markers. The binary path is always
// supplied by configuration; the package never searches for it.
package ytdlp
