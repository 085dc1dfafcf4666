// Package telemetry provides the ambient logging and lightweight counters
// shared across the render graph core. By default it produces no output;
// callers opt in with SetLogger.
package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records. Enabled returns false so
// callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by every package in this module.
// Pass nil to restore the silent default. Safe for concurrent use.
//
// Levels:
//   - Debug: submitted batches (executor), descriptor-set release (vkdevice),
//     DumpDebug value dumps
//   - Warn: suboptimal present (executor), command-buffer allocation
//     failure (stream)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the currently configured logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Counters are process-wide, coarse-grained submission/allocation
// counters useful for quick pressure checks without wiring a metrics
// exporter. They are not a substitute for a real metrics integration
// (deliberately out of scope, spec.md §1).
type Counters struct {
	Submits          atomic.Uint64
	BarriersEmitted  atomic.Uint64
	FramesRotated    atomic.Uint64
	CacheHits        atomic.Uint64
	CacheMisses      atomic.Uint64
	BuffersAllocated atomic.Int64
	ImagesAllocated  atomic.Int64
}

// Global is the default process-wide counter set.
var Global Counters
