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

package network

import (
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/codec"
	"github.com/hashsdn/hashsdn-netide/openflow/transceiver"
	"github.com/hashsdn/hashsdn-netide/wire"
)

var testCodec = codec.NewRegistry()

type fakeRequest struct {
	msg    openflow.Message
	expect openflow.Kind
	future *transceiver.Future
}

// fakeConn records what the controller writes to a switch. Requests stay
// pending until the test completes their futures.
type fakeConn struct {
	id uint64

	mutex    sync.Mutex
	version  uint8
	sent     []openflow.Message
	requests []*fakeRequest
	closed   bool
	// Send blocks until block is closed, if set.
	block   chan struct{}
	sendErr error
}

func newFakeConn(id uint64) *fakeConn {
	return &fakeConn{id: id}
}

func (r *fakeConn) ID() uint64 {
	return r.id
}

func (r *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000 + int(r.id)}
}

func (r *fakeConn) SetVersion(version uint8) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.version = version
	return nil
}

func (r *fakeConn) Send(msg openflow.Message) *transceiver.Future {
	r.mutex.Lock()
	block := r.block
	r.mutex.Unlock()
	if block != nil {
		<-block
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return transceiver.CompletedFuture(nil, transceiver.ErrClosed)
	}
	if r.sendErr != nil {
		return transceiver.CompletedFuture(nil, r.sendErr)
	}
	r.sent = append(r.sent, msg)

	return transceiver.CompletedFuture(nil, nil)
}

func (r *fakeConn) Request(msg openflow.Message, expect openflow.Kind, timeout time.Duration) *transceiver.Future {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return transceiver.CompletedFuture(nil, transceiver.ErrClosed)
	}
	req := &fakeRequest{msg: msg, expect: expect, future: transceiver.NewFuture()}
	r.requests = append(r.requests, req)

	return req.future
}

func (r *fakeConn) Close() error {
	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return nil
	}
	r.closed = true
	pending := r.requests
	r.mutex.Unlock()

	for _, req := range pending {
		req.future.Complete(nil, transceiver.ErrClosed)
	}

	return nil
}

func (r *fakeConn) isClosed() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.closed
}

func (r *fakeConn) getVersion() uint8 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.version
}

func (r *fakeConn) sentMessages() []openflow.Message {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return append([]openflow.Message(nil), r.sent...)
}

func (r *fakeConn) lastRequest(t *testing.T) *fakeRequest {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.requests) == 0 {
		t.Fatalf("no request is sent to %v", r.id)
	}
	return r.requests[len(r.requests)-1]
}

func (r *fakeConn) numRequests() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.requests)
}

// eventually fails the test if cond does not hold within a second.
func eventually(t *testing.T, what string, cond func() bool) {
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %v", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (r *fakeConn) waitSent(t *testing.T, n int) []openflow.Message {
	eventually(t, fmt.Sprintf("%v messages to connection %v", n, r.id), func() bool {
		return len(r.sentMessages()) >= n
	})

	return r.sentMessages()
}

func (r *fakeConn) waitRequests(t *testing.T, n int) {
	eventually(t, fmt.Sprintf("%v requests to connection %v", n, r.id), func() bool {
		return r.numRequests() >= n
	})
}

type fakeCore struct {
	mutex  sync.Mutex
	frames [][]byte
}

func (r *fakeCore) SendFrame(frame []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	v := make([]byte, len(frame))
	copy(v, frame)
	r.frames = append(r.frames, v)

	return nil
}

// decoded returns every frame sent to the core so far.
func (r *fakeCore) decoded(t *testing.T) []wire.Frame {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var v []wire.Frame
	for _, frame := range r.frames {
		f, err := wire.Decode(frame)
		if err != nil {
			t.Fatalf("invalid frame to the core: %v", err)
		}
		v = append(v, f)
	}

	return v
}

func (r *fakeCore) envelopes(t *testing.T) []*wire.Envelope {
	var v []*wire.Envelope
	for _, f := range r.decoded(t) {
		if env, ok := f.(*wire.Envelope); ok {
			v = append(v, env)
		}
	}

	return v
}

func newTestController(t *testing.T, conf Config) (*Controller, *fakeCore) {
	core := &fakeCore{}
	ctrl, err := NewController(testCodec, core, conf)
	if err != nil {
		t.Fatalf("failed to create a controller: %v", err)
	}

	return ctrl, core
}

func serialize(t *testing.T, msg openflow.Message) []byte {
	packet, err := testCodec.Serialize(msg.ProtocolVersion(), msg)
	if err != nil {
		t.Fatalf("failed to serialize %v: %v", msg.Kind(), err)
	}

	return packet
}

func envelopeFrame(t *testing.T, env *wire.Envelope) []byte {
	frame, err := env.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to marshal %v: %v", env, err)
	}

	return frame
}
