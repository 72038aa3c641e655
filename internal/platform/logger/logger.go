package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output keeps log lines machine-parseable
// in aggregation; handlers attach request-scoped attrs on top.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
