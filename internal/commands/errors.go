package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

// Text codes attached to wrapped command errors.
const (
	CodeValidation    = "COMMAND_VALIDATION_FAILED"
	CodeCanceled      = "COMMAND_CONTEXT_CANCELED"
	CodeTimeout       = "COMMAND_CONTEXT_TIMEOUT"
	CodeFailed        = "COMMAND_EXECUTION_FAILED"
	CodeSlugExhausted = "SLUG_EXHAUSTED"
	CodeSlugLookup    = "SLUG_LOOKUP_FAILED"
	CodeSlugTaken     = "SLUG_TAKEN"
)

// outcome is the classification of a finished execution.
type outcome struct {
	status  TelemetryStatus
	code    string
	message string
}

func classify(err error) outcome {
	var exhausted *slugs.ExhaustedError
	var lookup *slugs.LookupError
	switch {
	case err == nil:
		return outcome{status: TelemetryStatusSuccess}
	case errors.Is(err, context.Canceled):
		return outcome{TelemetryStatusContextError, CodeCanceled, "command execution cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return outcome{TelemetryStatusContextError, CodeTimeout, "command execution deadline exceeded"}
	case errors.As(err, &exhausted):
		return outcome{TelemetryStatusFailed, CodeSlugExhausted, "slug candidates exhausted"}
	case errors.As(err, &lookup):
		return outcome{TelemetryStatusFailed, CodeSlugLookup, "slug lookup failed"}
	case errors.Is(err, slugs.ErrConflict):
		return outcome{TelemetryStatusFailed, CodeSlugTaken, "slug already taken"}
	default:
		return outcome{TelemetryStatusFailed, CodeFailed, "command execution failed"}
	}
}

// wrap categorises err once; errors already wrapped by go-errors pass through.
func (o outcome) wrap(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, o.message).WithTextCode(o.code)
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(CodeValidation)
}
