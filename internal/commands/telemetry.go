package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to the telemetry callback after every execution.
// Code is the text code of the wrapped error and empty on success.
type TelemetryInfo struct {
	Command   string
	Operation string
	Status    TelemetryStatus
	Code      string
	Duration  time.Duration
	Error     error
	Logger    interfaces.Logger
}

type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// LogTelemetry reports outcomes on info.Logger, or on fallback when the
// handler did not attach one.
func LogTelemetry[T command.Message](fallback interfaces.Logger) Telemetry[T] {
	fallback = logging.Ensure(fallback)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logger := info.Logger
		if logger == nil {
			logger = logging.WithFields(fallback, map[string]any{"command": info.Command})
		}
		if info.Status == TelemetryStatusSuccess {
			logger.Info("command.completed", "duration_ms", info.Duration.Milliseconds())
			return
		}
		logger.Error("command."+string(info.Status),
			"duration_ms", info.Duration.Milliseconds(),
			"code", info.Code,
			"error", info.Error,
		)
	}
}
