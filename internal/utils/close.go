package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes c and logs a warning if Close fails. It is intended for
// deferred cleanup of response bodies, where a close error must not override
// the error the surrounding function is about to return.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}
