package diag

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var installOnce sync.Once

// InstallSignalHandlers arranges for SIGSEGV, SIGILL, and SIGABRT to
// route through FatalError instead of Go's default crash dump. It is
// idempotent; only the first call has any effect. Go, unlike the source
// runtime, cannot install a sigaction handler that resumes execution
// after a genuine memory fault, so this only improves the report for
// signals a process can still observe cleanly (notably SIGABRT, which C
// libraries linked into cgo code may raise).
func InstallSignalHandlers() {
	installOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGABRT, syscall.SIGILL, syscall.SIGSEGV)
		go func() {
			sig := <-ch
			FatalError(sig.String())
		}()
	})
}
