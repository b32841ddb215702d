package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, SlugsModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("dropped")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, CatalogModule)

	if len(provider.requested) != 1 || provider.requested[0] != CatalogModule {
		t.Fatalf("expected %s request, got %v", CatalogModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != CatalogModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRoot(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "  ")
	if provider.requested[0] != RootModule {
		t.Fatalf("expected root module, got %v", provider.requested)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("unexpected fields %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatal("expected copy of context fields")
	}
}
