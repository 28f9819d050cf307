package diag

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/opentracing/opentracing-go"
)

// terminator is invoked after a fatal report has been written. Tests
// override it to observe a fatal call without killing the test binary.
var terminator = func(code int) { os.Exit(code) }

// diagnosticWriter is where FatalError writes its report. Tests override
// it to capture output; production leaves it as os.Stderr unless
// RuntimeConfig.DiagnosticPath says otherwise.
var (
	diagnosticMu sync.Mutex
	diagnostic   io.Writer = os.Stderr
)

// SetTerminator overrides the function FatalError calls after reporting.
// It exists for tests; production code should never need it.
func SetTerminator(f func(code int)) (restore func()) {
	prev := terminator
	terminator = f
	return func() { terminator = prev }
}

// SetDiagnosticWriter overrides where FatalError writes its report.
func SetDiagnosticWriter(w io.Writer) (restore func()) {
	diagnosticMu.Lock()
	prev := diagnostic
	diagnostic = w
	diagnosticMu.Unlock()
	return func() {
		diagnosticMu.Lock()
		diagnostic = prev
		diagnosticMu.Unlock()
	}
}

// FatalError reports msg and a captured stack trace, then terminates the
// process. It is the runtime's only failure path: there is no recoverable
// error type that crosses this boundary, so every internal package that
// detects a violated invariant ultimately funnels through here rather
// than returning to generated code.
//
// msg should begin with one of the stable prefixes catalogued in
// SPEC_FULL.md §7, since crash-report tooling matches on them.
func FatalError(msg string) {
	diagnosticMu.Lock()
	w := diagnostic
	diagnosticMu.Unlock()

	trace := CaptureTrace()
	fmt.Fprintf(w, "fatal error: %s\n", msg)
	fmt.Fprintln(w, "Current stack trace:")
	for _, line := range trace {
		fmt.Fprintf(w, "\t%s\n", line)
	}
	if Config.TraceEnabled {
		reportFatalSpan(msg, trace)
	}
	terminator(1)
}

// reportFatalSpan logs the trace FatalError already captured onto a span,
// rather than capturing it again from inside this function, which would
// anchor the trace to reportFatalSpan's own frame instead of the caller's.
func reportFatalSpan(msg string, trace []string) {
	span := opentracing.GlobalTracer().StartSpan("trill.fatalError")
	defer span.Finish()
	span.SetTag("trill.fatal", true)
	span.SetTag("trill.message", msg)
	span.SetTag("trill.frame_count", len(trace))
	for i, line := range trace {
		span.LogKV(fmt.Sprintf("frame.%d", i), line)
	}
}

// FatalErrorf formats and reports a fatal error in one call.
func FatalErrorf(format string, args ...any) {
	FatalError(fmt.Sprintf(format, args...))
}
