package gologger

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// Config mirrors the logging section of the runtime config.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Provider adapts go-logger to interfaces.LoggerProvider.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds a go-logger backed provider. Format is one of json
// (default), console or pretty.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option

	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	focus := make([]string, 0, len(cfg.Focus))
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// GetLogger returns a named child logger.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return &adapter{inner: p.root}
	}
	return &adapter{inner: p.root.GetLogger(name)}
}

type adapter struct {
	inner glog.Logger
}

var _ interfaces.FieldsLogger = (*adapter)(nil)

func (a *adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a *adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a *adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	if fl, ok := a.inner.(glog.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		return &adapter{inner: fl.WithFields(copied)}
	}
	return a
}

func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	return &adapter{inner: a.inner.WithContext(ctx)}
}
