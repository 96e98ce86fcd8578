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
	"context"
	"fmt"
	"sync"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/codec"
	"github.com/hashsdn/hashsdn-netide/openflow/transceiver"

	"github.com/davecgh/go-spew/spew"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// State is the handshake progress of one switch connection.
type State int

const (
	StateInit State = iota
	StateHelloSent
	StateVersionNegotiated
	StateFeaturesPending
	StateEstablished
	StateClosed
)

func (r State) String() string {
	switch r {
	case StateInit:
		return "INIT"
	case StateHelloSent:
		return "HELLO_SENT"
	case StateVersionNegotiated:
		return "VERSION_NEGOTIATED"
	case StateFeaturesPending:
		return "FEATURES_PENDING"
	case StateEstablished:
		return "ESTABLISHED"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("State(%d)", int(r))
	}
}

// Writes queued from the core toward one switch.
const outboundQueueSize = 256

type session struct {
	conn  transceiver.Connection
	ctrl  *Controller
	cache *moduleCache
	// Jobs writing to the switch on behalf of the core. A stalled switch
	// only blocks its own writer goroutine.
	outbound chan func() error
	done     chan struct{}

	mutex sync.Mutex
	state State
	// Negotiated OpenFlow version. Zero until the hello exchange is done.
	version    uint8
	dpid       uint64
	registered bool
}

func newSession(ctrl *Controller, conn transceiver.Connection) *session {
	if ctrl == nil {
		panic("controller is nil")
	}
	if conn == nil {
		panic("connection is nil")
	}

	s := &session{
		conn:     conn,
		ctrl:     ctrl,
		cache:    newModuleCache(),
		outbound: make(chan func() error, outboundQueueSize),
		done:     make(chan struct{}),
		state:    StateInit,
	}
	go s.runWriter()

	return s
}

func (r *session) runWriter() {
	for {
		select {
		case <-r.done:
			return
		case job := <-r.outbound:
			if err := job(); err != nil {
				logger.Errorf("closing %v after a write failure: %v", r.connName(), err)
				if err := r.conn.Close(); err != nil {
					logger.Warningf("failed to close %v: %v", r.connName(), err)
				}
				return
			}
		}
	}
}

// enqueue hands job to the writer goroutine without blocking the caller.
func (r *session) enqueue(job func() error) error {
	select {
	case <-r.done:
		return transceiver.ErrClosed
	default:
	}

	select {
	case r.outbound <- job:
		return nil
	default:
		return errors.Errorf("outbound queue of %v is full", r.connName())
	}
}

func (r *session) String() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return fmt.Sprintf("session(conn=%v, remote=%v, state=%v, version=%v, dpid=%v)", r.conn.ID(), r.conn.RemoteAddr(), r.state, openflow.VersionString(r.version), r.dpid)
}

func (r *session) getState() State {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.state
}

// negotiatedVersion returns the negotiated OpenFlow version, or false if the
// hello exchange has not finished yet.
func (r *session) negotiatedVersion() (uint8, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.version, r.version != 0
}

// start sends our HELLO announcing the configured maximum version.
func (r *session) start() error {
	factory, err := codec.NewFactory(r.ctrl.conf.MaxVersion)
	if err != nil {
		return err
	}
	hello, err := factory.NewHello()
	if err != nil {
		return err
	}
	hello.SetTransactionID(openflow.DefaultXID)

	r.mutex.Lock()
	if r.state != StateInit {
		r.mutex.Unlock()
		return &ProtocolViolationError{Conn: r.connName(), State: r.state, Reason: "session is already started"}
	}
	// The switch may answer before Send returns.
	r.state = StateHelloSent
	r.mutex.Unlock()

	// Send completes once the message is written.
	if _, err := r.conn.Send(hello).Wait(context.Background()); err != nil {
		return errors.Wrap(err, "failed to send HELLO")
	}
	logger.Debugf("HELLO (ver=%v) is sent to %v", openflow.VersionString(factory.ProtocolVersion()), r.conn.RemoteAddr())

	return nil
}

func (r *session) connName() string {
	return fmt.Sprintf("%v(%v)", r.conn.RemoteAddr(), r.conn.ID())
}

// onMessage handles one message from the switch that the channel layer did
// not consume itself.
func (r *session) onMessage(packet []byte) error {
	header, err := openflow.ParseHeader(packet)
	if err != nil {
		return errors.Wrap(err, "invalid OpenFlow message from the switch")
	}

	if header.Type == openflow.OFPT_HELLO {
		return r.handleHello(header, packet)
	}

	r.mutex.Lock()
	state, dpid := r.state, r.dpid
	r.mutex.Unlock()

	if state != StateEstablished {
		if header.Type == openflow.OFPT_ERROR {
			logger.Errorf("ERROR from %v before the handshake is completed: %v", r.connName(), describeError(r.ctrl.codec, packet))
			return nil
		}
		return &ProtocolViolationError{Conn: r.connName(), State: state, Reason: fmt.Sprintf("unexpected message: %v", header)}
	}

	moduleID := r.cache.lookup(header.XID)
	if logger.IsEnabledFor(logging.DEBUG) {
		logger.Debugf("relaying a switch message to the core: dpid=%v, module=%v, %v%v", dpid, moduleID, header, describePacket(r.ctrl.codec, packet))
	}

	return relayToCore(r.ctrl.core, packet, dpid, moduleID)
}

func (r *session) handleHello(header openflow.RawHeader, packet []byte) error {
	// A hello with a zero transaction ID is not an offer from the switch.
	if header.XID == 0 {
		logger.Debugf("ignoring HELLO with a zero transaction ID from %v", r.connName())
		return nil
	}

	r.mutex.Lock()
	if r.state != StateHelloSent {
		state := r.state
		r.mutex.Unlock()
		// The first valid offer wins.
		logger.Debugf("ignoring HELLO (ver=%v) from %v in state %v", header.Version, r.connName(), state)
		return nil
	}

	version, ok := negotiate(r.ctrl.conf.MaxVersion, header.Version)
	if !ok {
		r.mutex.Unlock()
		return r.rejectHello(header, packet)
	}
	r.version = version
	r.state = StateVersionNegotiated
	r.mutex.Unlock()
	logger.Infof("negotiated OpenFlow %v with %v (offered=%v)", openflow.VersionString(version), r.connName(), header.Version)
	if bitmap := helloVersions(r.ctrl.codec, header, packet); bitmap != nil {
		logger.Debugf("version bitmap of %v: %v", r.connName(), bitmap)
	}

	if err := r.conn.SetVersion(version); err != nil {
		return &HandshakeError{Conn: r.connName(), Reason: "failed to set the negotiated version", Cause: err}
	}
	r.requestFeatures(0)

	return nil
}

// rejectHello tells the switch that there is no common version and reports
// the handshake failure.
func (r *session) rejectHello(header openflow.RawHeader, packet []byte) error {
	herr := &HandshakeError{
		Conn:   r.connName(),
		Reason: fmt.Sprintf("no common OpenFlow version: local max=%v, offered=%v", r.ctrl.conf.MaxVersion, header.Version),
	}

	factory, err := codec.NewFactory(r.ctrl.conf.MaxVersion)
	if err != nil {
		herr.Cause = err
		return herr
	}
	reply, err := factory.NewError(openflow.OFPET_HELLO_FAILED, openflow.OFPHFC_INCOMPATIBLE, openflow.TruncateErrorData(packet))
	if err != nil {
		herr.Cause = err
		return herr
	}
	reply.SetTransactionID(header.XID)
	r.conn.Send(reply).OnComplete(func(_ openflow.Message, err error) {
		if err != nil {
			logger.Warningf("failed to send HELLO_FAILED to %v: %v", r.connName(), err)
		}
	})

	return herr
}

// helloVersions returns the versions announced in the version bitmap of a
// hello, or nil if it has none. They are only logged. Hellos of a version newer than ours share
// the OF1.3 element layout, so they are decoded as OF1.3.
func helloVersions(registry *openflow.Registry, header openflow.RawHeader, packet []byte) []uint8 {
	if header.Version < openflow.OF13_VERSION {
		return nil
	}

	data := make([]byte, len(packet))
	copy(data, packet)
	data[0] = openflow.OF13_VERSION

	msg, err := registry.Deserialize(openflow.OF13_VERSION, openflow.OFPT_HELLO, data)
	if err != nil {
		logger.Debugf("failed to decode HELLO elements: %v", err)
		return nil
	}
	hello, ok := msg.(openflow.Hello)
	if !ok {
		return nil
	}

	return hello.SupportedVersions()
}

// negotiate returns min(localMax, offered) rounded down to a version we
// support. Version bitmaps in the hello do not take part.
func negotiate(localMax, offered uint8) (uint8, bool) {
	limit := offered
	if localMax < limit {
		limit = localMax
	}
	var best uint8
	for _, v := range openflow.SupportedVersions {
		if v <= limit && v > best {
			best = v
		}
	}

	return best, best != 0
}

// requestFeatures sends a FEATURES_REQUEST. The reply is relayed to the core
// with moduleID.
func (r *session) requestFeatures(moduleID uint16) {
	r.mutex.Lock()
	if r.state == StateClosed || r.version == 0 {
		r.mutex.Unlock()
		return
	}
	if r.state == StateVersionNegotiated {
		r.state = StateFeaturesPending
	}
	version := r.version
	r.mutex.Unlock()

	factory, err := codec.NewFactory(version)
	if err != nil {
		r.ctrl.onHandshakeFailure(r, &HandshakeError{Conn: r.connName(), Reason: "no factory for the negotiated version", Cause: err})
		return
	}
	req, err := factory.NewFeaturesRequest()
	if err != nil {
		r.ctrl.onHandshakeFailure(r, &HandshakeError{Conn: r.connName(), Reason: "failed to make FEATURES_REQUEST", Cause: err})
		return
	}
	req.SetTransactionID(openflow.DefaultXID)

	logger.Debugf("sending FEATURES_REQUEST to %v (module=%v)", r.connName(), moduleID)
	f := r.conn.Request(req, openflow.KindFeaturesReply, r.ctrl.conf.FeaturesTimeout)
	f.OnComplete(func(msg openflow.Message, err error) {
		r.onFeaturesReply(msg, err, moduleID)
	})
}

// queueFeaturesRequest runs requestFeatures on the writer goroutine.
func (r *session) queueFeaturesRequest(moduleID uint16) error {
	return r.enqueue(func() error {
		r.requestFeatures(moduleID)
		return nil
	})
}

func (r *session) onFeaturesReply(msg openflow.Message, err error, moduleID uint16) {
	state := r.getState()

	if err != nil {
		switch {
		case state == StateClosed || errors.Cause(err) == transceiver.ErrClosed:
			logger.Debugf("abandoned FEATURES_REQUEST on %v: %v", r.connName(), err)
		case state == StateEstablished:
			logger.Warningf("repeated FEATURES_REQUEST failed on %v: %v", r.connName(), err)
		default:
			r.ctrl.onHandshakeFailure(r, &HandshakeError{Conn: r.connName(), Reason: "FEATURES_REQUEST failed", Cause: err})
		}
		return
	}

	reply, ok := msg.(openflow.FeaturesReply)
	if !ok {
		logger.Warningf("unexpected FEATURES_REQUEST result on %v: %T", r.connName(), msg)
		return
	}
	dpid := reply.DatapathID()
	if logger.IsEnabledFor(logging.DEBUG) {
		logger.Debugf("FEATURES_REPLY (DPID=%v, NumBufs=%v, NumTables=%v) from %v: %v", dpid, reply.NumBuffers(), reply.NumTables(), r.connName(), spew.Sdump(reply))
	}

	r.mutex.Lock()
	if r.state == StateClosed {
		r.mutex.Unlock()
		logger.Debugf("discarding FEATURES_REPLY (DPID=%v) of a closed connection %v", dpid, r.connName())
		return
	}
	if r.registered && r.dpid != dpid {
		r.ctrl.conns.unregister(r.dpid, r)
	}
	prev := r.ctrl.conns.register(dpid, r)
	r.dpid = dpid
	r.registered = true
	r.state = StateEstablished
	r.mutex.Unlock()

	if prev != nil && prev != r {
		logger.Warningf("DPID %v moved from %v to %v: closing the old connection", dpid, prev.connName(), r.connName())
		if err := prev.conn.Close(); err != nil {
			logger.Warningf("failed to close the superseded connection %v: %v", prev.connName(), err)
		}
	}
	logger.Infof("switch is established: DPID=%v, %v", dpid, r.connName())

	// The channel layer consumed the raw reply, so serialize it again.
	packet, err := r.ctrl.codec.Serialize(reply.ProtocolVersion(), reply)
	if err != nil {
		logger.Errorf("failed to serialize FEATURES_REPLY (DPID=%v): %v", dpid, err)
		return
	}
	if err := relayToCore(r.ctrl.core, packet, dpid, moduleID); err != nil {
		logger.Errorf("failed to relay FEATURES_REPLY (DPID=%v) to the core: %v", dpid, err)
	}
}

// send writes a message from the core module moduleID to the switch.
func (r *session) send(msg openflow.Message, moduleID uint16) error {
	r.mutex.Lock()
	state, version := r.state, r.version
	r.mutex.Unlock()

	if state != StateEstablished {
		return &ProtocolViolationError{Conn: r.connName(), State: state, Reason: fmt.Sprintf("cannot send %v before the handshake is completed", msg.Kind())}
	}
	if msg.ProtocolVersion() != version {
		return &ProtocolViolationError{
			Conn:   r.connName(),
			State:  state,
			Reason: fmt.Sprintf("%v has version %v, negotiated %v", msg.Kind(), openflow.VersionString(msg.ProtocolVersion()), openflow.VersionString(version)),
		}
	}

	// Module 0 also overwrites, so a reused xid never reaches a stale module.
	r.cache.add(msg.TransactionID(), moduleID)

	return r.enqueue(func() error {
		if _, err := r.conn.Send(msg).Wait(context.Background()); err != nil {
			return errors.Wrapf(err, "failed to send %v to %v", msg.Kind(), r.connName())
		}
		return nil
	})
}

// close moves the session to CLOSED and drops its registry entry unless a
// newer connection already owns the datapath.
func (r *session) close() {
	r.mutex.Lock()
	if r.state == StateClosed {
		r.mutex.Unlock()
		return
	}
	r.state = StateClosed
	dpid, registered := r.dpid, r.registered
	r.registered = false
	close(r.done)
	r.mutex.Unlock()

	if registered {
		if r.ctrl.conns.unregister(dpid, r) {
			logger.Infof("switch is disconnected: DPID=%v, %v", dpid, r.connName())
		} else {
			logger.Debugf("DPID %v is already owned by another connection", dpid)
		}
	}
	r.cache.purge()
}

type SwitchStatus struct {
	DPID       uint64 `json:"dpid"`
	RemoteAddr string `json:"remote_addr"`
	Version    string `json:"version"`
	State      string `json:"state"`
}

func (r *session) status() SwitchStatus {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var addr string
	if a := r.conn.RemoteAddr(); a != nil {
		addr = a.String()
	}

	return SwitchStatus{
		DPID:       r.dpid,
		RemoteAddr: addr,
		Version:    openflow.VersionString(r.version),
		State:      r.state.String(),
	}
}
