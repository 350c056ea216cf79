// Package obs sets up structured logging.
package obs

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a slog.Logger writing to stderr. In the dev
// environment output is colorized text; everywhere else it is JSON.
func NewLogger(env string) *slog.Logger {
	var h slog.Handler
	if env == "dev" {
		h = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return slog.New(h)
}
