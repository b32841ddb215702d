package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-deepwood/internal/logging"
	"github.com/goliatone/go-deepwood/pkg/interfaces"
)

// Level is the severity attached to an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a config level name to a Level. Unknown names fall back to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Options configures the provider. Zero values write every level to stdout.
type Options struct {
	Writer   io.Writer
	Clock    func() time.Time
	MinLevel Level
}

type provider struct {
	mu       sync.Mutex
	writer   io.Writer
	clock    func() time.Time
	minLevel Level
}

// NewProvider builds a logfmt-style console logger provider.
func NewProvider(opts Options) interfaces.LoggerProvider {
	p := &provider{
		writer:   opts.Writer,
		clock:    opts.Clock,
		minLevel: opts.MinLevel,
	}
	if p.writer == nil {
		p.writer = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	return p
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	return &logger{provider: p, fields: map[string]any{"logger": name}}
}

type logger struct {
	provider *provider
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.write(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return &logger{provider: l.provider, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{provider: l.provider, fields: maps.Clone(l.fields), ctx: ctx}
}

func (l *logger) write(level Level, msg string, args []any) {
	if l.provider == nil || level < l.provider.minLevel {
		return
	}

	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = map[string]any{}
	}
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		fields[key] = args[i+1]
	}

	var b strings.Builder
	b.WriteString(l.provider.clock().UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	keys := slices.Sorted(maps.Keys(fields))
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(render(fields[key]))
	}
	b.WriteByte('\n')

	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	_, _ = io.WriteString(l.provider.writer, b.String())
}

func render(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = v
	case error:
		s = v.Error()
	case time.Time:
		s = v.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
