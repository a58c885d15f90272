// Package slogobs implements [observability.Tracer] on top of log/slog and
// builds the process logger from MARKETDATA_LOG_LEVEL / MARKETDATA_LOG_FORMAT.
package slogobs
