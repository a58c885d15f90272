// Package utils provides small shared helpers used across the marketdata
// internals: rune-safe excerpting of response bodies for error records,
// log-friendly truncation, and deferred close-with-log for HTTP bodies.
package utils
