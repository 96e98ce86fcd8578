/*
 * NetIDE Shim - OpenFlow to NetIDE Core Relay
 *
 * Copyright (C) 2026 The NetIDE Shim Authors.
 *
 * Derived from Cherry - An OpenFlow Controller,
 * Copyright (C) 2015 Samjung Data Service, Inc.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package transceiver

import (
	"context"
	"sync"

	"github.com/hashsdn/hashsdn-netide/openflow"
)

// Future is the result of an asynchronous send. It completes exactly once.
type Future struct {
	done      chan struct{}
	mutex     sync.Mutex
	completed bool
	msg       openflow.Message
	err       error
	callbacks []func(openflow.Message, error)
}

// NewFuture returns a pending Future. Connection implementations complete it
// with Complete.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// CompletedFuture returns a Future that has already completed with msg and err.
func CompletedFuture(msg openflow.Message, err error) *Future {
	f := NewFuture()
	f.Complete(msg, err)

	return f
}

// Complete sets the result and runs the registered callbacks on the calling
// goroutine. It reports whether this call completed the future.
func (r *Future) Complete(msg openflow.Message, err error) bool {
	r.mutex.Lock()
	if r.completed {
		r.mutex.Unlock()
		return false
	}
	r.completed = true
	r.msg = msg
	r.err = err
	callbacks := r.callbacks
	r.callbacks = nil
	close(r.done)
	r.mutex.Unlock()

	for _, fn := range callbacks {
		fn(msg, err)
	}

	return true
}

// OnComplete registers fn to be called with the result. fn runs on the
// goroutine that completes the future, or immediately on the caller's
// goroutine if the future is already complete.
func (r *Future) OnComplete(fn func(openflow.Message, error)) {
	r.mutex.Lock()
	if !r.completed {
		r.callbacks = append(r.callbacks, fn)
		r.mutex.Unlock()
		return
	}
	msg, err := r.msg, r.err
	r.mutex.Unlock()

	fn(msg, err)
}

// Done returns a channel that is closed when the future completes.
func (r *Future) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the future completes or ctx is done.
func (r *Future) Wait(ctx context.Context) (openflow.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
		r.mutex.Lock()
		defer r.mutex.Unlock()
		return r.msg, r.err
	}
}
