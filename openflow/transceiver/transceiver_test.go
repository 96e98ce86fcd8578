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
	"io"
	"net"
	"testing"
	"time"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/codec"
	"github.com/hashsdn/hashsdn-netide/openflow/of13"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

type fakeHandler struct {
	connected    chan Connection
	messages     chan []byte
	disconnected chan struct{}
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{
		connected:    make(chan Connection, 1),
		messages:     make(chan []byte, 16),
		disconnected: make(chan struct{}),
	}
}

func (r *fakeHandler) OnSwitchConnected(conn Connection) {
	r.connected <- conn
}

func (r *fakeHandler) OnMessage(conn Connection, packet []byte) {
	r.messages <- packet
}

func (r *fakeHandler) OnDisconnected(conn Connection) {
	close(r.disconnected)
}

type testSwitch struct {
	t        *testing.T
	conn     net.Conn
	registry *openflow.Registry
}

func (r *testSwitch) write(msg openflow.Message) {
	data, err := r.registry.Serialize(msg.ProtocolVersion(), msg)
	if err != nil {
		r.t.Fatalf("failed to serialize %v: %v", msg.Kind(), err)
	}
	r.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := r.conn.Write(data); err != nil {
		r.t.Fatalf("failed to write %v: %v", msg.Kind(), err)
	}
}

func (r *testSwitch) read() openflow.Message {
	r.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	header := make([]byte, openflow.HeaderLength)
	if _, err := io.ReadFull(r.conn, header); err != nil {
		r.t.Fatalf("failed to read a header: %v", err)
	}
	h, err := openflow.ParseHeader(header)
	if err != nil {
		r.t.Fatalf("invalid header: %v", err)
	}
	data := make([]byte, h.Length)
	copy(data, header)
	if _, err := io.ReadFull(r.conn, data[openflow.HeaderLength:]); err != nil {
		r.t.Fatalf("failed to read a body: %v", err)
	}

	msg, err := r.registry.Decode(data)
	if err != nil {
		r.t.Fatalf("failed to decode: %v", err)
	}
	return msg
}

func start(t *testing.T) (*testSwitch, *fakeHandler, Connection, context.CancelFunc) {
	local, remote := net.Pipe()
	registry := codec.NewRegistry()
	handler := newFakeHandler()

	ctx, cancel := context.WithCancel(context.Background())
	tr := NewTransceiver(NewStream(local, 0), registry, handler)
	go tr.Run(ctx)

	var conn Connection
	select {
	case conn = <-handler.connected:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for OnSwitchConnected")
	}

	return &testSwitch{t: t, conn: remote, registry: registry}, handler, conn, cancel
}

func TestEchoIsAnswered(t *testing.T) {
	sw, handler, _, cancel := start(t)
	defer cancel()

	req := of13.NewEchoRequest(5)
	req.SetPayload([]byte("abc"))
	sw.write(req)

	reply := sw.read()
	echo, ok := reply.(*of13.EchoReply)
	if !ok {
		t.Fatalf("unexpected reply: %v", reply.Kind())
	}
	if echo.TransactionID() != 5 || string(echo.Payload()) != "abc" {
		t.Fatalf("unexpected echo reply: xid=%v, payload=%q", echo.TransactionID(), echo.Payload())
	}

	select {
	case packet := <-handler.messages:
		t.Fatalf("echo request must not reach the handler: %x", packet)
	default:
	}
}

func TestRequestReply(t *testing.T) {
	sw, handler, conn, cancel := start(t)
	defer cancel()

	futures := make(chan *Future, 1)
	go func() {
		futures <- conn.Request(of13.NewFeaturesRequest(openflow.DefaultXID), openflow.KindFeaturesReply, 2*time.Second)
	}()
	if req := sw.read(); req.Kind() != openflow.KindFeaturesRequest || req.TransactionID() != openflow.DefaultXID {
		t.Fatalf("unexpected request: %v (xid=%v)", req.Kind(), req.TransactionID())
	}
	f := <-futures

	expected := &of13.FeaturesReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: openflow.DefaultXID}, DPID: 1, Tables: 1}
	sw.write(expected)
	// Not a reply of any request.
	sw.write(of13.NewBarrierRequest(9))

	ctx, ctxCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer ctxCancel()
	msg, err := f.Wait(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(expected, msg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected reply: %v", diff)
	}

	select {
	case packet := <-handler.messages:
		h, _ := openflow.ParseHeader(packet)
		if h.Type != of13.OFPT_BARRIER_REQUEST || h.XID != 9 {
			t.Fatalf("unexpected message: %v", h)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for the unmatched message")
	}
}

func TestRequestErrorReply(t *testing.T) {
	sw, _, conn, cancel := start(t)
	defer cancel()

	futures := make(chan *Future, 1)
	go func() {
		futures <- conn.Request(of13.NewFeaturesRequest(7), openflow.KindFeaturesReply, 2*time.Second)
	}()
	sw.read()
	f := <-futures
	sw.write(of13.NewError(7, openflow.OFPET_BAD_REQUEST, openflow.OFPBRC_BAD_TYPE, nil))

	ctx, ctxCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer ctxCancel()
	_, err := f.Wait(ctx)
	var reply *ErrorReply
	if !errors.As(err, &reply) {
		t.Fatalf("expected an ErrorReply, got %v", err)
	}
	if reply.Class != openflow.OFPET_BAD_REQUEST || reply.Code != openflow.OFPBRC_BAD_TYPE {
		t.Fatalf("unexpected error reply: %v", reply)
	}
}

func TestRequestTimeout(t *testing.T) {
	sw, _, conn, cancel := start(t)
	defer cancel()

	futures := make(chan *Future, 1)
	go func() {
		futures <- conn.Request(of13.NewFeaturesRequest(3), openflow.KindFeaturesReply, 50*time.Millisecond)
	}()
	sw.read()
	f := <-futures

	ctx, ctxCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer ctxCancel()
	if _, err := f.Wait(ctx); err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCloseFailsPendingRequests(t *testing.T) {
	sw, handler, conn, cancel := start(t)
	defer cancel()

	futures := make(chan *Future, 1)
	go func() {
		futures <- conn.Request(of13.NewFeaturesRequest(4), openflow.KindFeaturesReply, 0)
	}()
	sw.read()
	f := <-futures

	called := make(chan error, 1)
	f.OnComplete(func(_ openflow.Message, err error) { called <- err })
	conn.Close()

	select {
	case err := <-called:
		if err != ErrClosed {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for the pending request")
	}
	select {
	case <-handler.disconnected:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for OnDisconnected")
	}

	if _, err := conn.Send(of13.NewBarrierRequest(5)).Wait(context.Background()); err != ErrClosed {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestFutureCompletesOnce(t *testing.T) {
	f := NewFuture()
	count := 0
	f.OnComplete(func(openflow.Message, error) { count++ })

	if !f.Complete(nil, ErrTimeout) {
		t.Fatal("first Complete must succeed")
	}
	if f.Complete(nil, ErrClosed) {
		t.Fatal("second Complete must fail")
	}
	if _, err := f.Wait(context.Background()); err != ErrTimeout {
		t.Fatalf("unexpected result: %v", err)
	}
	// Registered after completion runs immediately.
	f.OnComplete(func(openflow.Message, error) { count++ })
	if count != 2 {
		t.Fatalf("unexpected callback count: %v", count)
	}
}

func TestEchoReplyOfOthersIsDispatched(t *testing.T) {
	sw, handler, _, cancel := start(t)
	defer cancel()

	reply := of13.NewEchoReply(77)
	reply.SetPayload([]byte("core"))
	sw.write(reply)

	select {
	case packet := <-handler.messages:
		h, _ := openflow.ParseHeader(packet)
		if h.Type != openflow.OFPT_ECHO_REPLY || h.XID != 77 {
			t.Fatalf("unexpected message: %v", h)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for the echo reply")
	}
}

func TestKeepaliveEchoReplyIsConsumed(t *testing.T) {
	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	registry := codec.NewRegistry()
	tr := NewTransceiver(NewStream(local, 0), registry, newFakeHandler())
	tr.pings[5] = struct{}{}
	tr.pingCounter = 1

	other, err := registry.Serialize(openflow.OF13_VERSION, of13.NewEchoReply(6))
	if err != nil {
		t.Fatalf("failed to serialize: %v", err)
	}
	if tr.handleEcho(other) {
		t.Fatal("echo reply of an unknown xid is consumed")
	}

	ping, err := registry.Serialize(openflow.OF13_VERSION, of13.NewEchoReply(5))
	if err != nil {
		t.Fatalf("failed to serialize: %v", err)
	}
	if !tr.handleEcho(ping) {
		t.Fatal("keepalive echo reply is not consumed")
	}
	if tr.pingCounter != 0 || len(tr.pings) != 0 {
		t.Fatalf("keepalive state is not reset: counter=%v, pings=%v", tr.pingCounter, tr.pings)
	}
	// Answered once only.
	if tr.handleEcho(ping) {
		t.Fatal("duplicated keepalive echo reply is consumed")
	}
}

func TestWriteTimeoutClosesConnection(t *testing.T) {
	_, handler, conn, cancel := start(t)
	defer cancel()

	// Nobody reads the switch side of the pipe.
	_, err := conn.Send(of13.NewBarrierRequest(8)).Wait(context.Background())
	if err == nil {
		t.Fatal("expected a write error")
	}

	select {
	case <-handler.disconnected:
	case <-time.After(3 * time.Second):
		t.Fatal("connection is not closed after the write failure")
	}
	if _, err := conn.Send(of13.NewBarrierRequest(9)).Wait(context.Background()); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
