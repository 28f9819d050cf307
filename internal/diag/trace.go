package diag

import (
	"fmt"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/opentracing/opentracing-go"

	"github.com/trill-lang/trillrt/internal/demangle"
)

// CaptureTrace walks the calling goroutine's stack and renders each frame
// as "demangled-or-raw-name (file:line)", skipping frames whose function
// name matches one of Config.SkipPatterns (doublestar globs, e.g.
// "runtime.*" to hide Go's own scheduler frames) and stopping after
// Config.MaxFrames.
func CaptureTrace() []string {
	pcs := make([]uintptr, Config.MaxFrames+1)
	n := runtime.Callers(3, pcs) // skip Callers, CaptureTrace, FatalError
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	for {
		frame, more := frames.Next()
		if !skip(frame.Function) {
			out = append(out, formatFrame(frame))
			if len(out) >= Config.MaxFrames {
				break
			}
		}
		if !more {
			break
		}
	}
	return out
}

func skip(function string) bool {
	for _, pattern := range Config.SkipPatterns {
		if matched, err := doublestar.Match(pattern, function); err == nil && matched {
			return true
		}
	}
	return false
}

func formatFrame(frame runtime.Frame) string {
	name := frame.Function
	if readable, err := demangle.Demangle(name); err == nil {
		name = readable
	}
	return fmt.Sprintf("%s (%s:%d)", name, frame.File, frame.Line)
}

// StartOperationSpan starts an opentracing span for operation, tagged
// with tag/value, if Config.TraceEnabled; otherwise it returns a no-op
// finish function so call sites (internal/alloc, internal/arcbox) never
// need to branch on the config themselves. With no tracer installed via
// opentracing.SetGlobalTracer, this costs a handful of interface calls
// against the default opentracing.NoopTracer.
func StartOperationSpan(operation, tag string, value any) (finish func()) {
	if !Config.TraceEnabled {
		return func() {}
	}
	span := opentracing.StartSpan(operation)
	if tag != "" {
		span.SetTag(tag, value)
	}
	return span.Finish
}
