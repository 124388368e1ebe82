package util

import (
	"io"
	"log/slog"
)

// CloseLogged closes c and logs a failure. For error paths, where the close
// error would only hide the error already being returned.
func CloseLogged(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("util: close failed", "name", name, "err", err)
	}
}
