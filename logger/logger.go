package logger

import "sync/atomic"

var current atomic.Value

func init() {
	current.Store(holder{NewGlogLogger()})
}

// holder keeps atomic.Value happy when loggers of different concrete types are swapped in.
type holder struct {
	Logger
}

func get() Logger {
	return current.Load().(holder).Logger
}

// SetLogger replaces the process logger and returns a function restoring the previous one.
func SetLogger(l Logger) (restore func()) {
	prev := get()
	current.Store(holder{l})
	return func() { current.Store(holder{prev}) }
}

// Debug level logging
func Debugf(msg string, args ...any) {
	get().Debugf(msg, args...)
}

// Info level logging
func Infof(msg string, args ...any) {
	get().Infof(msg, args...)
}

// Warn level logging
func Warnf(msg string, args ...any) {
	get().Warnf(msg, args...)
}

// Error level logging
func Errorf(msg string, args ...any) {
	get().Errorf(msg, args...)
}

// Fatal level logging and terminates the program execution.
func Fatalf(msg string, args ...any) {
	get().Fatalf(msg, args...)
}

// Prefixed returns a Logger writing through the process logger with "[prefix] " prepended to
// every message. Network adapters log through one of these.
func Prefixed(prefix string) Logger {
	return prefixed{prefix: "[" + prefix + "] "}
}

type prefixed struct {
	prefix string
}

func (p prefixed) Debugf(msg string, args ...any) { get().Debugf(p.prefix+msg, args...) }
func (p prefixed) Infof(msg string, args ...any)  { get().Infof(p.prefix+msg, args...) }
func (p prefixed) Warnf(msg string, args ...any)  { get().Warnf(p.prefix+msg, args...) }
func (p prefixed) Errorf(msg string, args ...any) { get().Errorf(p.prefix+msg, args...) }
func (p prefixed) Fatalf(msg string, args ...any) { get().Fatalf(p.prefix+msg, args...) }
