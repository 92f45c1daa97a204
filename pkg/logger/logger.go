package logger

import (
	"log"
	"log/slog"
)

// New returns a stdlib logger that forwards every line to l at level, tagged with component.
// It serves APIs that still want a *log.Logger, such as http.Server.ErrorLog.
func New(l *slog.Logger, component string, level slog.Level) *log.Logger {
	if l == nil {
		l = slog.Default()
	}
	return slog.NewLogLogger(l.With("component", component).Handler(), level)
}
