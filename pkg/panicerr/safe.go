// Package panicerr converts panics in long-running goroutines into ordinary
// errors so the caller can log them instead of crashing the process.
package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Safe returns a wrapper around fn that recovers any panic and reports it as
// the returned error. An error returned by fn itself takes precedence.
func Safe(fn func() error) func() error {
	return func() error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn()
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}

// SafeContext is Safe for functions that take a context.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn(ctx)
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}
