// Package title extracts the day number and period label that the reading
// plan encodes at the end of each published video title.
package title
