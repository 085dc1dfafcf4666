package telemetry

import (
	"context"
	"log/slog"

	"github.com/davecgh/go-spew/spew"
)

// DumpDebug pretty-prints v via go-spew and emits it at Debug level under
// msg. This is meant for the vuk-trace diagnostic CLI and ad-hoc debugging
// of scheduled-item lists and last-use tables; it is never called from a
// hot path, and the spew.Sdump call is skipped entirely when debug logging
// is disabled.
func DumpDebug(msg string, v any) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(msg, "dump", spew.Sdump(v))
}
