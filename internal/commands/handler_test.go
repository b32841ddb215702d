package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

type previewMessage struct {
	Text string
}

func (previewMessage) Type() string { return "deepwood.test.preview" }

func (m previewMessage) Validate() error {
	if m.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

func recordTelemetry(got *TelemetryInfo) HandlerOption[previewMessage] {
	return WithTelemetry[previewMessage](func(_ context.Context, _ previewMessage, info TelemetryInfo) {
		*got = info
	})
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg previewMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), previewMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("handler must not run for an invalid message")
	}
}

func TestHandlerClassifiesOutcomes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status TelemetryStatus
		code   string
	}{
		{"success", nil, TelemetryStatusSuccess, ""},
		{"plain failure", errors.New("boom"), TelemetryStatusFailed, CodeFailed},
		{"exhausted", &slugs.ExhaustedError{Base: "oak-table", Attempts: 3}, TelemetryStatusFailed, CodeSlugExhausted},
		{"lookup", &slugs.LookupError{Slug: "oak-table", Err: errors.New("db down")}, TelemetryStatusFailed, CodeSlugLookup},
		{"conflict", fmt.Errorf("persist: %w", slugs.ErrConflict), TelemetryStatusFailed, CodeSlugTaken},
		{"deadline", context.DeadlineExceeded, TelemetryStatusContextError, CodeTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var info TelemetryInfo
			h := NewHandler(func(ctx context.Context, msg previewMessage) error {
				return tc.err
			}, WithOperation[previewMessage]("slug.preview"), recordTelemetry(&info))

			err := h.Execute(context.Background(), previewMessage{Text: "Oak Table"})
			if info.Status != tc.status || info.Code != tc.code {
				t.Fatalf("expected %s/%q, got %s/%q", tc.status, tc.code, info.Status, info.Code)
			}
			if info.Command != "deepwood.test.preview" || info.Operation != "slug.preview" {
				t.Fatalf("unexpected telemetry identity %+v", info)
			}
			if tc.err == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
				t.Fatalf("expected command category, got %v", err)
			}
		})
	}
}

func TestHandlerSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var info TelemetryInfo
	called := false
	h := NewHandler(func(ctx context.Context, msg previewMessage) error {
		called = true
		return nil
	}, recordTelemetry(&info))

	err := h.Execute(ctx, previewMessage{Text: "Oak"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("handler must not run on a cancelled context")
	}
	if info.Code != CodeCanceled {
		t.Fatalf("expected %s, got %q", CodeCanceled, info.Code)
	}
}

func TestHandlerTimeout(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg previewMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[previewMessage](10*time.Millisecond), recordTelemetry(&info))

	if err := h.Execute(context.Background(), previewMessage{Text: "Oak"}); err == nil {
		t.Fatal("expected timeout error")
	}
	if info.Status != TelemetryStatusContextError || info.Code != CodeTimeout {
		t.Fatalf("unexpected telemetry %+v", info)
	}
}

func TestHandlerKeepsWrappedErrors(t *testing.T) {
	wrapped := goerrors.Wrap(errors.New("bad input"), goerrors.CategoryValidation, "rejected")
	h := NewHandler(func(ctx context.Context, msg previewMessage) error {
		return wrapped
	})

	err := h.Execute(context.Background(), previewMessage{Text: "Oak"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected the handler error to pass through, got %v", err)
	}
}
