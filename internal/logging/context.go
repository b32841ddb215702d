package logging

import (
	"context"
	"maps"
)

type contextKey struct{}

// ContextWithFields stores fields on ctx so the console logger merges them
// into entries logged through WithContext. Fields already on ctx are kept
// unless overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextKey{}).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
