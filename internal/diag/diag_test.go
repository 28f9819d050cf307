package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestFatalErrorReportsMessageAndTrace(t *testing.T) {
	var buf bytes.Buffer
	restoreWriter := SetDiagnosticWriter(&buf)
	defer restoreWriter()

	var code int
	restoreTerm := SetTerminator(func(c int) { code = c })
	defer restoreTerm()

	FatalError("malloc failed: 64 bytes exceeds configured ceiling 32")

	if code != 1 {
		t.Fatalf("terminator called with code %d, want 1", code)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "fatal error: malloc failed") {
		t.Fatalf("report %q does not start with the stable prefix", out)
	}
	if !strings.Contains(out, "\nCurrent stack trace:\n") {
		t.Fatalf("report %q has no stack trace header", out)
	}
}

func TestFatalErrorWithTracingEnabled(t *testing.T) {
	prevEnabled := Config.TraceEnabled
	Config.TraceEnabled = true
	defer func() { Config.TraceEnabled = prevEnabled }()

	var buf bytes.Buffer
	restoreWriter := SetDiagnosticWriter(&buf)
	defer restoreWriter()

	var code int
	restoreTerm := SetTerminator(func(c int) { code = c })
	defer restoreTerm()

	// No tracer is installed, so this exercises the opentracing.NoopTracer
	// path end to end rather than asserting anything about span content.
	FatalError("malloc failed: test")
	if code != 1 {
		t.Fatalf("terminator called with code %d, want 1", code)
	}
}

func TestStartOperationSpanDisabledByDefault(t *testing.T) {
	finish := StartOperationSpan("trill.alloc", "size", 8)
	finish()
}

func TestAssertPassesWhenTrue(t *testing.T) {
	called := false
	restore := SetTerminator(func(int) { called = true })
	defer restore()

	Assert(true, "1 == 1", "")
	if called {
		t.Fatal("Assert(true, ...) should not terminate")
	}
}

func TestAssertFailsWhenFalse(t *testing.T) {
	var buf bytes.Buffer
	restoreWriter := SetDiagnosticWriter(&buf)
	defer restoreWriter()

	called := false
	restoreTerm := SetTerminator(func(int) { called = true })
	defer restoreTerm()

	Assert(false, "x != nil", "x was nil")
	if !called {
		t.Fatal("Assert(false, ...) should terminate")
	}
	if !strings.Contains(buf.String(), "x != nil") || !strings.Contains(buf.String(), "x was nil") {
		t.Fatalf("report %q missing expression or detail", buf.String())
	}
}

func TestOnceFlagRunsExactlyOnce(t *testing.T) {
	var flag OnceFlag
	count := 0
	for i := 0; i < 5; i++ {
		flag.Do(func() { count++ })
	}
	if count != 1 {
		t.Fatalf("Do ran %d times, want 1", count)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.MaxFrames <= 0 {
		t.Fatal("default MaxFrames should be positive")
	}
	if cfg.Symbolication != SymbolicationNative {
		t.Fatalf("default Symbolication = %q, want %q", cfg.Symbolication, SymbolicationNative)
	}
}

func TestLoadConfigWithoutEnvLeavesDefaults(t *testing.T) {
	t.Setenv("TRILL_RUNTIME_CONFIG", "")
	before := Config
	LoadConfig()
	if Config.MaxFrames != before.MaxFrames {
		t.Fatal("LoadConfig with no env var set should not change Config")
	}
}
