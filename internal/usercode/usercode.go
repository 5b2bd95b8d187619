// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package usercode provides utilities to call into trial actions without
// letting their misbehavior escape into the harness.
package usercode

import (
	"context"
	"sync/atomic"
	"time"

	"go.chromium.org/testmimic/errors"
)

// PanicHandler specifies how to handle panics in SafeCall.
type PanicHandler func(val interface{})

// SafeCall runs a function f on a goroutine to protect callers from its
// possible bad behavior.
//
// If timeout is positive, f is called with a context having that timeout. If f
// does not return before the timeout, SafeCall further waits for gracePeriod
// to allow some clean up. If f does not return after timeout + gracePeriod,
// SafeCall abandons the goroutine and returns an error mentioning name. If
// timeout is zero or negative, SafeCall waits for f without a deadline.
//
// If ctx is canceled before f finishes, SafeCall abandons the goroutine and
// returns ctx.Err().
//
// If f panics, SafeCall calls ph on the goroutine that panicked, so the panic
// location is still on the stack. ph is never called once SafeCall has
// decided to abandon f.
//
// If f calls runtime.Goexit, it is handled just like f returning normally.
func SafeCall(ctx context.Context, name string, timeout, gracePeriod time.Duration, ph PanicHandler, f func(ctx context.Context)) error {
	// The caller and the background goroutine race for a single token.
	// Whoever takes it decides the result: the caller abandons f, or the
	// background goroutine reports completion (and a panic, if any).
	var token atomic.Bool
	takeToken := func() bool {
		return token.CompareAndSwap(false, true)
	}

	done := make(chan struct{}) // closed when the background goroutine finishes

	go func() {
		defer close(done)

		defer func() {
			// Always call recover to avoid crashing the process.
			val := recover()
			if !takeToken() {
				return
			}
			if val != nil {
				ph(val)
			}
		}()

		fctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		f(fctx)
	}()

	// Block returning from SafeCall if the background goroutine is still calling ph.
	defer func() {
		if !takeToken() {
			<-done
		}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		tm := time.NewTimer(timeout + gracePeriod)
		defer tm.Stop()
		expired = tm.C
	}

	select {
	case <-done:
		return nil
	case <-expired:
		return errors.Errorf("%s did not return on timeout", name)
	case <-ctx.Done():
		return ctx.Err()
	}
}
