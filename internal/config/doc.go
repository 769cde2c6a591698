// Package config loads, normalizes, and validates leximi configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LEXIMI_YTDLP and COOKIES_FILE. The Config type centralizes every knob the
// sync and audio commands need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
