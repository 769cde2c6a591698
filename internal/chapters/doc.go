// Package chapters converts the chapter listing yt-dlp reports for a video
// into the ordered readings stored for a day.
//
// The listing is untrusted text. Parsing never fails: records that cannot be
// understood are dropped and an unavailable listing yields no readings.
package chapters
