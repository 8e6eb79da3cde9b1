package observability

import (
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/o3as/ensemble-service/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and sets
// it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}
