package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single command execution.
const DefaultCommandTimeout = 30 * time.Second

type HandlerOption[T command.Message] func(*Handler[T])

// Handler adapts a CommandFunc to command.Commander[T]. Messages are
// validated first, then run under the timeout; failures come back wrapped
// by go-errors with one of the Code* text codes.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	telemetry Telemetry[T]
}

func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: nil command func")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.telemetry == nil {
		h.telemetry = LogTelemetry[T](h.logger)
	}
	return h
}

func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	name := command.GetMessageType(msg)
	fields := map[string]any{"command": name}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	logger := logging.WithFields(h.logger, fields)

	var err error
	started := time.Now()
	if err = ctx.Err(); err == nil {
		logger.Debug("command.started")
		if err = h.exec(ctx, msg); err == nil {
			err = ctx.Err()
		}
	}
	result := classify(err)
	h.telemetry(ctx, msg, TelemetryInfo{
		Command:   name,
		Operation: h.operation,
		Status:    result.status,
		Code:      result.code,
		Duration:  time.Since(started),
		Error:     err,
		Logger:    logger,
	})
	return result.wrap(err)
}

// WithTimeout sets the per-execution deadline; zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation tags every log entry with operation.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		if telemetry != nil {
			h.telemetry = telemetry
		}
	}
}
