package diag

import "sync"

// OnceFlag is the runtime's once-primitive: a block of generated code
// guarded so that, no matter how many goroutines race into it
// concurrently, the guarded initializer runs exactly one time and every
// caller observes its effects before proceeding.
type OnceFlag struct {
	once sync.Once
}

// Do runs fn if this is the first call on f, and blocks every other
// caller until that run completes.
func (f *OnceFlag) Do(fn func()) {
	f.once.Do(fn)
}
