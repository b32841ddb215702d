// Package interfaces holds the contracts storefront services accept from the
// host application.
package interfaces

import "context"

// Logger is the leveled logger every service writes to. Arguments after msg
// are key/value pairs. The method set matches glog.Logger from
// github.com/goliatone/go-logger, minus the fields helper.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by dotted module name, e.g.
// "deepwood.catalog".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can bind structured fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
