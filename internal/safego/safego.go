// Package safego launches background goroutines that survive their own
// panics. Session sweeping and config watching run fire-and-forget; a panic
// in one of them must be logged, not allowed to either kill the process or
// silently end the loop.
package safego

import "log/slog"

// Go runs fn in a new goroutine, recovering and logging any panic.
func Go(fn func()) {
	Named("", fn)
}

// Named runs fn in a new goroutine like Go, tagging any recovered panic with
// the job name so the log line says which background loop died.
func Named(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if name == "" {
					slog.Error("recovered panic in background goroutine", "panic", r)
					return
				}
				slog.Error("recovered panic in background job", "job", name, "panic", r)
			}
		}()
		fn()
	}()
}
