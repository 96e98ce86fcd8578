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
	"testing"
	"time"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/of10"
	"github.com/hashsdn/hashsdn-netide/openflow/of13"
	"github.com/hashsdn/hashsdn-netide/openflow/transceiver"
	"github.com/hashsdn/hashsdn-netide/wire"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func of13Hello(xid uint32, versions ...uint8) *of13.Hello {
	hello := of13.NewHello(xid)
	if len(versions) > 0 {
		hello.Elements = []of13.HelloElement{of13.NewVersionBitmap(versions...)}
	}

	return hello
}

// establish runs the handshake of conn up to ESTABLISHED with dpid.
func establish(t *testing.T, ctrl *Controller, conn *fakeConn, dpid uint64) {
	ctrl.OnSwitchConnected(conn)
	ctrl.OnMessage(conn, serialize(t, of13Hello(7, openflow.OF10_VERSION, openflow.OF13_VERSION)))

	req := conn.lastRequest(t)
	reply := &of13.FeaturesReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: req.msg.TransactionID()}, DPID: dpid, Buffers: 256, Tables: 254}
	req.future.Complete(reply, nil)

	s, ok := ctrl.getSession(conn)
	if !ok {
		t.Fatalf("no session for connection %v", conn.ID())
	}
	if state := s.getState(); state != StateEstablished {
		t.Fatalf("unexpected state after the handshake: %v", state)
	}
}

func TestNewControllerDefaults(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	if ctrl.conf.MaxVersion != openflow.OF13_VERSION {
		t.Fatalf("unexpected default max version: %v", ctrl.conf.MaxVersion)
	}
	if ctrl.conf.FeaturesTimeout != defaultFeaturesTimeout {
		t.Fatalf("unexpected default features timeout: %v", ctrl.conf.FeaturesTimeout)
	}

	if _, err := NewController(testCodec, &fakeCore{}, Config{MaxVersion: 0x02}); err == nil {
		t.Fatal("expected an error for an unsupported max version")
	}
	if _, err := NewController(testCodec, &fakeCore{}, Config{FeaturesTimeout: -time.Second}); err == nil {
		t.Fatal("expected an error for a negative features timeout")
	}
}

func TestHandshake(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	sent := conn.sentMessages()
	if len(sent) != 1 || sent[0].Kind() != openflow.KindHello {
		t.Fatalf("expected a HELLO: %v", spew.Sdump(sent))
	}
	if sent[0].ProtocolVersion() != openflow.OF13_VERSION || sent[0].TransactionID() != openflow.DefaultXID {
		t.Fatalf("unexpected HELLO: version=%v, xid=%v", sent[0].ProtocolVersion(), sent[0].TransactionID())
	}

	ctrl.OnMessage(conn, serialize(t, of13Hello(7, openflow.OF10_VERSION, openflow.OF13_VERSION)))
	if v := conn.getVersion(); v != openflow.OF13_VERSION {
		t.Fatalf("unexpected negotiated version: %v", v)
	}
	req := conn.lastRequest(t)
	if req.msg.Kind() != openflow.KindFeaturesRequest || req.expect != openflow.KindFeaturesReply {
		t.Fatalf("unexpected request: %v (expect=%v)", req.msg.Kind(), req.expect)
	}
	if req.msg.TransactionID() != openflow.DefaultXID {
		t.Fatalf("unexpected FEATURES_REQUEST xid: %v", req.msg.TransactionID())
	}
	if ctrl.Lookup(1) {
		t.Fatal("DPID is registered before FEATURES_REPLY")
	}

	reply := &of13.FeaturesReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: openflow.DefaultXID}, DPID: 1, Buffers: 256, Tables: 254}
	req.future.Complete(reply, nil)

	if !ctrl.Lookup(1) {
		t.Fatal("DPID 1 is not registered")
	}
	envs := core.envelopes(t)
	if len(envs) != 1 {
		t.Fatalf("expected one envelope to the core: %v", spew.Sdump(envs))
	}
	env := envs[0]
	if env.DatapathID != 1 || env.TransactionID != openflow.DefaultXID || env.ModuleID != 0 {
		t.Fatalf("unexpected envelope: %v", env)
	}
	relayed, err := testCodec.Decode(env.Payload)
	if err != nil {
		t.Fatalf("failed to decode the relayed FEATURES_REPLY: %v", err)
	}
	if diff := cmp.Diff(reply, relayed, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected relayed FEATURES_REPLY: %v", diff)
	}

	expected := []SwitchStatus{{DPID: 1, RemoteAddr: "127.0.0.1:40001", Version: "1.3", State: "ESTABLISHED"}}
	if diff := cmp.Diff(expected, ctrl.Switches()); diff != "" {
		t.Fatalf("unexpected switches: %v", diff)
	}
	protocols := []wire.ProtocolPair{{Protocol: wire.ProtocolOpenFlow, Version: openflow.OF13_VERSION}}
	if diff := cmp.Diff(protocols, ctrl.Protocols()); diff != "" {
		t.Fatalf("unexpected protocols: %v", diff)
	}
}

func TestHandshakeOF10(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	ctrl.OnMessage(conn, serialize(t, of10.NewHello(3)))
	if v := conn.getVersion(); v != openflow.OF10_VERSION {
		t.Fatalf("unexpected negotiated version: %v", v)
	}

	req := conn.lastRequest(t)
	if req.msg.ProtocolVersion() != openflow.OF10_VERSION {
		t.Fatalf("unexpected FEATURES_REQUEST version: %v", req.msg.ProtocolVersion())
	}
	req.future.Complete(&of10.FeaturesReply{Header: openflow.Header{Version: openflow.OF10_VERSION, XID: openflow.DefaultXID}, DPID: 0xab}, nil)

	if !ctrl.Lookup(0xab) {
		t.Fatal("DPID is not registered")
	}
	if envs := core.envelopes(t); len(envs) != 1 || envs[0].DatapathID != 0xab {
		t.Fatalf("unexpected envelopes: %v", spew.Sdump(envs))
	}
}

func TestZeroXIDHelloIsIgnored(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	ctrl.OnMessage(conn, serialize(t, of13Hello(0, openflow.OF13_VERSION)))
	if n := conn.numRequests(); n != 0 {
		t.Fatalf("HELLO with xid 0 started the negotiation: %v requests", n)
	}
	s, _ := ctrl.getSession(conn)
	if state := s.getState(); state != StateHelloSent {
		t.Fatalf("unexpected state: %v", state)
	}

	ctrl.OnMessage(conn, serialize(t, of13Hello(5, openflow.OF13_VERSION)))
	if n := conn.numRequests(); n != 1 {
		t.Fatalf("expected one FEATURES_REQUEST, got %v", n)
	}
	// Only the first valid offer counts.
	ctrl.OnMessage(conn, serialize(t, of10.NewHello(6)))
	if n := conn.numRequests(); n != 1 {
		t.Fatalf("second HELLO restarted the negotiation: %v requests", n)
	}
	if v := conn.getVersion(); v != openflow.OF13_VERSION {
		t.Fatalf("unexpected negotiated version: %v", v)
	}
}

func TestHelloWithoutCommonVersion(t *testing.T) {
	ctrl, core := newTestController(t, Config{MaxVersion: openflow.OF10_VERSION})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	// HELLO of version 0x00 that no codec can express.
	hello := []byte{0x00, openflow.OFPT_HELLO, 0x00, 0x08, 0x00, 0x00, 0x00, 0x09}
	ctrl.OnMessage(conn, hello)

	if !conn.isClosed() {
		t.Fatal("connection is not closed")
	}
	if n := conn.numRequests(); n != 0 {
		t.Fatalf("unexpected requests: %v", n)
	}
	sent := conn.sentMessages()
	if len(sent) != 2 {
		t.Fatalf("expected HELLO and ERROR: %v", spew.Sdump(sent))
	}
	e, ok := sent[1].(openflow.Error)
	if !ok {
		t.Fatalf("expected an ERROR: %v", sent[1].Kind())
	}
	if e.ErrorClass() != openflow.OFPET_HELLO_FAILED || e.ErrorCode() != openflow.OFPHFC_INCOMPATIBLE {
		t.Fatalf("unexpected error: class=%v, code=%v", e.ErrorClass(), e.ErrorCode())
	}
	if e.TransactionID() != 9 {
		t.Fatalf("unexpected error xid: %v", e.TransactionID())
	}
	if diff := cmp.Diff(hello, e.ErrorData()); diff != "" {
		t.Fatalf("unexpected error data: %v", diff)
	}
	if len(core.decoded(t)) != 0 {
		t.Fatal("unexpected frames to the core")
	}
}

func TestVersionBitmapIsNotNegotiated(t *testing.T) {
	tests := []struct {
		localMax uint8
		bitmap   []uint8
		expected uint8
	}{
		{openflow.OF10_VERSION, []uint8{openflow.OF13_VERSION}, openflow.OF10_VERSION},
		{openflow.OF13_VERSION, []uint8{openflow.OF10_VERSION}, openflow.OF13_VERSION},
		{openflow.OF13_VERSION, []uint8{openflow.OF10_VERSION, openflow.OF13_VERSION}, openflow.OF13_VERSION},
	}

	for _, test := range tests {
		ctrl, _ := newTestController(t, Config{MaxVersion: test.localMax})
		conn := newFakeConn(1)

		ctrl.OnSwitchConnected(conn)
		ctrl.OnMessage(conn, serialize(t, of13Hello(7, test.bitmap...)))

		if conn.isClosed() {
			t.Fatalf("local max=%v, bitmap=%v: connection is closed", test.localMax, test.bitmap)
		}
		if v := conn.getVersion(); v != test.expected {
			t.Fatalf("local max=%v, bitmap=%v: expected=%v, negotiated=%v", test.localMax, test.bitmap, test.expected, v)
		}
		if req := conn.lastRequest(t); req.msg.ProtocolVersion() != test.expected {
			t.Fatalf("unexpected FEATURES_REQUEST version: %v", req.msg.ProtocolVersion())
		}
	}
}

func TestFeaturesTimeoutClosesConnection(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	ctrl.OnMessage(conn, serialize(t, of13Hello(7, openflow.OF13_VERSION)))
	conn.lastRequest(t).future.Complete(nil, transceiver.ErrTimeout)

	if !conn.isClosed() {
		t.Fatal("connection is not closed after FEATURES_REQUEST timed out")
	}
	if ctrl.Lookup(1) {
		t.Fatal("unexpected registered DPID")
	}
}

func TestMessageBeforeEstablished(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	ctrl.OnMessage(conn, serialize(t, of13Hello(7, openflow.OF13_VERSION)))

	s, _ := ctrl.getSession(conn)
	err := s.onMessage(serialize(t, &of13.BarrierReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: 3}}))
	if !IsProtocolViolation(err) {
		t.Fatalf("expected a protocol violation, got %v", err)
	}
	// ERROR messages are only logged.
	if err := s.onMessage(serialize(t, of13.NewError(4, openflow.OFPET_BAD_REQUEST, openflow.OFPBRC_BAD_TYPE, nil))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(core.decoded(t)) != 0 {
		t.Fatal("unexpected frames to the core")
	}
	if conn.isClosed() {
		t.Fatal("connection is closed by a dropped message")
	}
}

func TestRelay(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)

	// Unsolicited messages go to module 0.
	ctrl.OnMessage(conn, serialize(t, &of13.BarrierReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: 9}}))

	// Core to switch.
	req := of13.NewBarrierRequest(20)
	numSent := len(conn.sentMessages())
	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 5, TransactionID: 20, DatapathID: 1, Payload: serialize(t, req)}))
	sent := conn.waitSent(t, numSent+1)
	if diff := cmp.Diff(openflow.Message(req), sent[len(sent)-1]); diff != "" {
		t.Fatalf("unexpected message to the switch: %v", diff)
	}

	// The reply is addressed to the requesting module.
	ctrl.OnMessage(conn, serialize(t, &of13.BarrierReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: 20}}))

	envs := core.envelopes(t)
	if len(envs) != 3 {
		t.Fatalf("unexpected envelopes: %v", spew.Sdump(envs))
	}
	if envs[1].ModuleID != 0 || envs[1].TransactionID != 9 || envs[1].DatapathID != 1 {
		t.Fatalf("unexpected envelope of the unsolicited message: %v", envs[1])
	}
	if envs[2].ModuleID != 5 || envs[2].TransactionID != 20 || envs[2].DatapathID != 1 {
		t.Fatalf("unexpected envelope of the reply: %v", envs[2])
	}
}

func TestRelayToUnknownDatapath(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)
	numSent := len(conn.sentMessages())
	owner, _ := ctrl.conns.lookup(1)

	env := &wire.Envelope{ModuleID: 2, TransactionID: 30, DatapathID: 99, Payload: serialize(t, of13.NewBarrierRequest(30))}
	ctrl.OnFrame(envelopeFrame(t, env))
	if n := len(conn.sentMessages()); n != numSent {
		t.Fatalf("message to an unknown DPID is sent: %v", n)
	}

	err := relayToSwitch(testCodec, ctrl.conns, env)
	if !IsUnknownDatapath(err) {
		t.Fatalf("expected an unknown datapath error, got %v", err)
	}

	// The registry is left as it was.
	if n := ctrl.conns.len(); n != 1 {
		t.Fatalf("unexpected number of registered DPIDs: %v", n)
	}
	if s, ok := ctrl.conns.lookup(1); !ok || s != owner {
		t.Fatal("DPID 1 is not owned by the original session")
	}
	if _, ok := ctrl.conns.lookup(99); ok {
		t.Fatal("unknown DPID is registered")
	}
}

func TestRelayVersionMismatch(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)
	numSent := len(conn.sentMessages())

	env := &wire.Envelope{ModuleID: 2, TransactionID: 31, DatapathID: 1, Payload: serialize(t, of10.NewBarrierRequest(31))}
	ctrl.OnFrame(envelopeFrame(t, env))
	if n := len(conn.sentMessages()); n != numSent {
		t.Fatalf("message of another version is sent: %v", n)
	}

	err := relayToSwitch(testCodec, ctrl.conns, env)
	if !IsProtocolViolation(err) {
		t.Fatalf("expected a protocol violation, got %v", err)
	}
}

func TestSupersede(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	first := newFakeConn(1)
	second := newFakeConn(2)

	establish(t, ctrl, first, 1)
	establish(t, ctrl, second, 1)

	if !first.isClosed() {
		t.Fatal("superseded connection is not closed")
	}
	s, ok := ctrl.conns.lookup(1)
	if !ok || s.conn != second {
		t.Fatal("DPID 1 is not owned by the new connection")
	}

	// The old connection must not remove the mapping of the new one.
	ctrl.OnDisconnected(first)
	if !ctrl.Lookup(1) {
		t.Fatal("DPID 1 is removed by the superseded connection")
	}

	ctrl.OnDisconnected(second)
	if ctrl.Lookup(1) {
		t.Fatal("DPID 1 is still registered")
	}
	if len(ctrl.Switches()) != 0 {
		t.Fatalf("unexpected switches: %v", ctrl.Switches())
	}
}

func TestDisconnectDuringFeaturesRequest(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)

	ctrl.OnSwitchConnected(conn)
	ctrl.OnMessage(conn, serialize(t, of13Hello(7, openflow.OF13_VERSION)))
	req := conn.lastRequest(t)
	s, _ := ctrl.getSession(conn)

	ctrl.OnDisconnected(conn)
	req.future.Complete(&of13.FeaturesReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: openflow.DefaultXID}, DPID: 1}, nil)

	if ctrl.Lookup(1) {
		t.Fatal("closed connection is registered")
	}
	if state := s.getState(); state != StateClosed {
		t.Fatalf("unexpected state: %v", state)
	}
	if len(core.decoded(t)) != 0 {
		t.Fatal("FEATURES_REPLY of a closed connection is relayed")
	}
}

func TestCoreHello(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)
	numRequests := conn.numRequests()

	req := &wire.Hello{
		ModuleID:      3,
		TransactionID: 11,
		Protocols: []wire.ProtocolPair{
			{Protocol: wire.ProtocolOpenFlow, Version: openflow.OF13_VERSION},
			{Protocol: wire.ProtocolOpenFlow, Version: openflow.OF10_VERSION},
			{Protocol: wire.ProtocolNETCONF, Version: 1},
		},
	}
	frame, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to marshal the core HELLO: %v", err)
	}
	ctrl.OnFrame(frame)

	frames := core.decoded(t)
	reply, ok := frames[len(frames)-1].(*wire.Hello)
	if !ok {
		t.Fatalf("expected a HELLO reply: %v", spew.Sdump(frames))
	}
	expected := &wire.Hello{
		ModuleID:      3,
		TransactionID: 11,
		Protocols:     []wire.ProtocolPair{{Protocol: wire.ProtocolOpenFlow, Version: openflow.OF13_VERSION}},
	}
	if diff := cmp.Diff(expected, reply, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected HELLO reply: %v", diff)
	}

	// The module learns the established switch from a new FEATURES_REPLY.
	conn.waitRequests(t, numRequests+1)
	if n := conn.numRequests(); n != numRequests+1 {
		t.Fatalf("expected one new FEATURES_REQUEST, got %v requests", n)
	}
	conn.lastRequest(t).future.Complete(&of13.FeaturesReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: openflow.DefaultXID}, DPID: 1}, nil)

	envs := core.envelopes(t)
	last := envs[len(envs)-1]
	if last.ModuleID != 3 || last.DatapathID != 1 {
		t.Fatalf("unexpected envelope: %v", last)
	}
	if !ctrl.Lookup(1) {
		t.Fatal("DPID 1 is lost after the repeated FEATURES_REPLY")
	}
}

func TestCoreHelloWithoutSwitches(t *testing.T) {
	ctrl, core := newTestController(t, Config{})

	req := &wire.Hello{ModuleID: 4, TransactionID: 1, Protocols: []wire.ProtocolPair{{Protocol: wire.ProtocolOpenFlow, Version: openflow.OF13_VERSION}}}
	frame, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to marshal the core HELLO: %v", err)
	}
	ctrl.OnFrame(frame)

	frames := core.decoded(t)
	if len(frames) != 1 {
		t.Fatalf("unexpected frames: %v", spew.Sdump(frames))
	}
	reply, ok := frames[0].(*wire.Hello)
	if !ok || reply.ModuleID != 4 || len(reply.Protocols) != 0 {
		t.Fatalf("unexpected HELLO reply: %v", spew.Sdump(frames[0]))
	}
}

func TestMalformedCoreFrameIsDropped(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)
	numSent := len(conn.sentMessages())

	ctrl.OnFrame([]byte{0x11, 0x00})
	ctrl.OnFrame([]byte{0x7f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	if n := len(conn.sentMessages()); n != numSent {
		t.Fatalf("malformed frame is relayed: %v", n)
	}
	if n := len(core.decoded(t)); n != 1 {
		t.Fatalf("unexpected frames to the core: %v", n)
	}
}

func TestEchoRequestOfCore(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 2)
	numSent := len(conn.sentMessages())

	echo := of13.NewEchoRequest(77)
	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 3, TransactionID: 77, DatapathID: 2, Payload: serialize(t, echo)}))
	sent := conn.waitSent(t, numSent+1)
	if sent[len(sent)-1].Kind() != openflow.KindEchoRequest {
		t.Fatalf("unexpected message to the switch: %v", sent[len(sent)-1].Kind())
	}

	ctrl.OnMessage(conn, serialize(t, of13.NewEchoReply(77)))
	envs := core.envelopes(t)
	last := envs[len(envs)-1]
	if last.ModuleID != 3 || last.TransactionID != 77 || last.DatapathID != 2 {
		t.Fatalf("unexpected envelope: %v", last)
	}
	h, err := openflow.ParseHeader(last.Payload)
	if err != nil || h.Type != openflow.OFPT_ECHO_REPLY {
		t.Fatalf("unexpected payload: %v (%v)", h, err)
	}
}

func TestReusedXIDGoesToLatestModule(t *testing.T) {
	ctrl, core := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)
	numSent := len(conn.sentMessages())

	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 3, TransactionID: 40, DatapathID: 1, Payload: serialize(t, of13.NewBarrierRequest(40))}))
	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 0, TransactionID: 40, DatapathID: 1, Payload: serialize(t, of13.NewBarrierRequest(40))}))
	conn.waitSent(t, numSent+2)

	ctrl.OnMessage(conn, serialize(t, &of13.BarrierReply{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: 40}}))
	envs := core.envelopes(t)
	if last := envs[len(envs)-1]; last.ModuleID != 0 || last.TransactionID != 40 {
		t.Fatalf("unexpected envelope: %v", last)
	}
}

func TestStalledSwitchDoesNotBlockOthers(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	stalled := newFakeConn(1)
	healthy := newFakeConn(2)
	establish(t, ctrl, stalled, 1)
	establish(t, ctrl, healthy, 2)
	numSent := len(healthy.sentMessages())

	block := make(chan struct{})
	defer close(block)
	stalled.mutex.Lock()
	stalled.block = block
	stalled.mutex.Unlock()

	begin := time.Now()
	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 1, TransactionID: 50, DatapathID: 1, Payload: serialize(t, of13.NewBarrierRequest(50))}))
	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 1, TransactionID: 51, DatapathID: 2, Payload: serialize(t, of13.NewBarrierRequest(51))}))
	if elapsed := time.Since(begin); elapsed > 500*time.Millisecond {
		t.Fatalf("core frames are blocked by a stalled switch: %v", elapsed)
	}

	sent := healthy.waitSent(t, numSent+1)
	if xid := sent[len(sent)-1].TransactionID(); xid != 51 {
		t.Fatalf("unexpected message to the healthy switch: xid=%v", xid)
	}
}

func TestWriteFailureClosesConnection(t *testing.T) {
	ctrl, _ := newTestController(t, Config{})
	conn := newFakeConn(1)
	establish(t, ctrl, conn, 1)

	conn.mutex.Lock()
	conn.sendErr = transceiver.ErrTimeout
	conn.mutex.Unlock()

	ctrl.OnFrame(envelopeFrame(t, &wire.Envelope{ModuleID: 1, TransactionID: 60, DatapathID: 1, Payload: serialize(t, of13.NewBarrierRequest(60))}))
	eventually(t, "the connection to be closed", conn.isClosed)
}
