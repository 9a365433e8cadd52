// Package besteffort expresses the contain-and-continue policy applied at
// platform call boundaries: the call is attempted, a failure is logged and
// then ignored so the remaining steps of an operation can proceed.
package besteffort

import (
	"log/slog"

	"github.com/wardenbot/warden/pkg/logging"
)

// Do runs fn and swallows its error. The error is logged against op so the
// failure is still visible in diagnostics.
func Do(l *slog.Logger, op string, fn func() error) {
	if err := fn(); err != nil {
		l.Warn("Best-effort operation failed",
			slog.String("op", op),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
