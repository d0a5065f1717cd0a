package xstate

import (
	"fmt"
	"time"

	"github.com/trickstertwo/xlog"
)

// Executor runs a single command. The Stack's base executor calls
// cmd.Execute directly; middlewares compose concerns around it.
type Executor func(cmd Command) error

// Middleware composes processing concerns around an Executor.
type Middleware func(next Executor) Executor

// Chain composes middlewares around an executor in order.
func Chain(ex Executor, mws ...Middleware) Executor {
	if len(mws) == 0 {
		return ex
	}
	wrapped := ex
	// Apply in reverse so that first middleware wraps last.
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// RecoveryMiddleware prevents command panics from unwinding through the
// Stack and converts them into errors, preserving execute atomicity: a
// panicking command is treated as a failed one and is not pushed.
func RecoveryMiddleware() Middleware {
	return func(next Executor) Executor {
		return func(cmd Command) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic recovered: %v", r)
				}
			}()
			return next(cmd)
		}
	}
}

// LoggingMiddleware emits a debug line around each command execution.
func LoggingMiddleware(l *xlog.Logger) Middleware {
	if l == nil {
		return func(next Executor) Executor { return next }
	}
	return func(next Executor) Executor {
		return func(cmd Command) error {
			start := time.Now()
			l.Debug().
				Str("command", cmd.Name()).
				Msg("execute start")

			err := next(cmd)

			l.Debug().
				Str("command", cmd.Name()).
				Dur("dur", time.Since(start)).
				Err(err).
				Msg("execute done")
			return err
		}
	}
}
