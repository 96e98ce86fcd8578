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
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/codec"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	logger = logging.MustGetLogger("transceiver")
)

var (
	ErrClosed     = errors.New("transceiver is closed")
	ErrTimeout    = errors.New("request timed out")
	ErrSuperseded = errors.New("request is superseded by another one with the same transaction ID")
)

const (
	// Allowed idle time before we send an echo request to a switch.
	maxIdleTime = 10 * time.Second
	// I/O timeouts (These timeouts should be less than maxIdleTime).
	readTimeout  = 1 * time.Second
	writeTimeout = readTimeout * 2
	// Number of unanswered echo requests before giving up the switch.
	maxPingCount = 3
	// Received messages waiting for the dispatcher.
	backlogSize = 4096
)

// ErrorReply is the error of a request that the switch answered with an
// OpenFlow ERROR message.
type ErrorReply struct {
	Class uint16
	Code  uint16
	Data  []byte
}

func (r *ErrorReply) Error() string {
	return fmt.Sprintf("switch replied with an error: class=%v, code=%v", r.Class, r.Code)
}

// Connection is the switch side of one OpenFlow channel as seen by a Handler.
type Connection interface {
	ID() uint64
	RemoteAddr() net.Addr
	// SetVersion tells the channel the negotiated protocol version.
	SetVersion(version uint8) error
	// Send writes msg to the switch. The returned future completes as soon
	// as the message is written.
	Send(msg openflow.Message) *Future
	// Request writes msg and completes the returned future with the reply
	// of kind expect that carries the same transaction ID, an ErrorReply,
	// ErrTimeout or ErrClosed.
	Request(msg openflow.Message, expect openflow.Kind, timeout time.Duration) *Future
	Close() error
}

// Handler receives the events of a Transceiver. Every method is called from
// the goroutine running Transceiver.Run, in the order the events happened.
type Handler interface {
	OnSwitchConnected(conn Connection)
	// OnMessage is called with every received message except echoes and
	// replies consumed by a pending Request.
	OnMessage(conn Connection, packet []byte)
	OnDisconnected(conn Connection)
}

type request struct {
	expect openflow.Kind
	future *Future
	timer  *time.Timer
}

type Transceiver struct {
	id       uint64
	stream   *Stream
	registry *openflow.Registry
	handler  Handler

	mutex   sync.Mutex
	factory openflow.Factory
	pending map[uint32]*request
	closed  bool

	// Only accessed by the reader goroutine.
	pingCounter int
	// Transaction IDs of our unanswered keepalive echo requests.
	pings map[uint32]struct{}
}

var lastTransceiverID uint64

func NewTransceiver(stream *Stream, registry *openflow.Registry, handler Handler) *Transceiver {
	if stream == nil {
		panic("stream is nil")
	}
	if registry == nil {
		panic("registry is nil")
	}
	if handler == nil {
		panic("handler is nil")
	}

	return &Transceiver{
		id:       atomic.AddUint64(&lastTransceiverID, 1),
		stream:   stream,
		registry: registry,
		handler:  handler,
		pending:  make(map[uint32]*request),
		pings:    make(map[uint32]struct{}),
	}
}

func (r *Transceiver) ID() uint64 {
	return r.id
}

func (r *Transceiver) RemoteAddr() net.Addr {
	return r.stream.RemoteAddr()
}

func (r *Transceiver) String() string {
	return fmt.Sprintf("Transceiver(id=%v, remote=%v)", r.id, r.RemoteAddr())
}

func (r *Transceiver) SetVersion(version uint8) error {
	f, err := codec.NewFactory(version)
	if err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.factory = f

	return nil
}

func (r *Transceiver) getFactory() openflow.Factory {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.factory
}

func (r *Transceiver) isClosed() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.closed
}

func (r *Transceiver) write(msg openflow.Message) error {
	packet, err := r.registry.Serialize(msg.ProtocolVersion(), msg)
	if err != nil {
		return err
	}
	if _, err := r.stream.Write(packet); err != nil {
		// A partially written message corrupts the stream framing.
		logger.Errorf("failed to write %v, closing %v: %v", msg.Kind(), r, err)
		r.Close()
		return err
	}

	return nil
}

func (r *Transceiver) Send(msg openflow.Message) *Future {
	if r.isClosed() {
		return CompletedFuture(nil, ErrClosed)
	}

	return CompletedFuture(nil, r.write(msg))
}

func (r *Transceiver) Request(msg openflow.Message, expect openflow.Kind, timeout time.Duration) *Future {
	xid := msg.TransactionID()
	f := NewFuture()
	req := &request{expect: expect, future: f}

	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return CompletedFuture(nil, ErrClosed)
	}
	old := r.pending[xid]
	if old != nil && old.timer != nil {
		old.timer.Stop()
	}
	if timeout > 0 {
		req.timer = time.AfterFunc(timeout, func() { r.expire(xid, req) })
	}
	r.pending[xid] = req
	r.mutex.Unlock()

	if old != nil {
		old.future.Complete(nil, ErrSuperseded)
	}

	if err := r.write(msg); err != nil {
		r.removeRequest(xid, req)
		f.Complete(nil, err)
	}

	return f
}

// removeRequest deletes req from the pending table if it is still there and
// reports whether it did.
func (r *Transceiver) removeRequest(xid uint32, req *request) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.pending[xid] != req {
		return false
	}
	delete(r.pending, xid)
	if req.timer != nil {
		req.timer.Stop()
	}

	return true
}

func (r *Transceiver) expire(xid uint32, req *request) {
	if !r.removeRequest(xid, req) {
		return
	}
	logger.Debugf("request timed out: xid=%v, expected=%v, %v", xid, req.expect, r)
	req.future.Complete(nil, ErrTimeout)
}

func isTimeout(err error) bool {
	type Timeout interface {
		Timeout() bool
	}

	if v, ok := errors.Cause(err).(Timeout); ok {
		return v.Timeout()
	}

	return false
}

func (r *Transceiver) sendEchoRequest() error {
	factory := r.getFactory()
	if factory == nil {
		// Not yet negotiated.
		return nil
	}
	if r.pingCounter >= maxPingCount {
		return errors.New("device does not respond to our echo request")
	}

	echo, err := factory.NewEchoRequest()
	if err != nil {
		return err
	}
	// We use current timestamp to check network latency between us and a switch.
	timestamp, err := time.Now().GobEncode()
	if err != nil {
		return err
	}
	echo.SetPayload(timestamp)

	if err := r.write(echo); err != nil {
		return errors.Wrap(err, "failed to send ECHO_REQUEST message")
	}
	r.pings[echo.TransactionID()] = struct{}{}
	r.pingCounter++

	return nil
}

// Run reads messages from the switch and dispatches them to the handler until
// the connection is closed or ctx is done. The connection is always closed
// when Run returns.
func (r *Transceiver) Run(ctx context.Context) error {
	defer logger.Infof("transceiver is closed: %v", r)
	r.stream.SetReadTimeout(readTimeout)
	r.stream.SetWriteTimeout(writeTimeout)

	readerCtx, cancelReader := context.WithCancel(ctx)
	defer cancelReader()
	reader := r.runReader(readerCtx)

	r.handler.OnSwitchConnected(r)
	defer func() {
		r.Close()
		r.handler.OnDisconnected(r)
	}()

	// Infinite loop
	for {
		select {
		case <-ctx.Done():
			logger.Info("context done")
			return nil
		case packet, ok := <-reader:
			if !ok {
				logger.Infof("the reader channel is closed: %v", r)
				return nil
			}
			r.dispatch(packet)
		}
	}
}

func (r *Transceiver) runReader(ctx context.Context) <-chan []byte {
	// Buffered channel
	c := make(chan []byte, backlogSize)
	go func() {
		// The channel c will be closed when this goroutine returns in order to notice the connection has been closed.
		defer close(c)
		defer logger.Debugf("transceiver reader is closed: %v", r)

		lastActivated := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			// Read the next packet
			packet, err := r.stream.ReadMessage()
			if err != nil {
				if !isTimeout(err) {
					if !r.isClosed() {
						logger.Errorf("failed to read the next packet: %v", err)
					}
					return
				}
				// Timeout occurrs. Send a ping request if necessary.
				if time.Now().After(lastActivated.Add(maxIdleTime)) {
					if err := r.sendEchoRequest(); err != nil {
						logger.Errorf("failed to send an echo request: %v", err)
						return
					}
					lastActivated = time.Now()
				}
				continue
			}
			// Update the timestamp
			lastActivated = time.Now()

			if r.handleEcho(packet) {
				// Do not forward the echo request and response
				// packets because this reader handles them.
				continue
			}

			// Forward messages except the echo request and response. Block
			// rather than drop to keep the relay lossless and in order.
			select {
			case c <- packet:
			case <-ctx.Done():
				return
			}
		}
	}()

	return c
}

func (r *Transceiver) handleEcho(packet []byte) bool {
	header, err := openflow.ParseHeader(packet)
	if err != nil || !openflow.IsSupportedVersion(header.Version) {
		return false
	}

	switch header.Type {
	case openflow.OFPT_ECHO_REQUEST:
		if err := r.handleEchoRequest(header, packet); err != nil {
			logger.Warningf("failed to handle the echo request: %v", err)
		}
		return true
	case openflow.OFPT_ECHO_REPLY:
		// Replies to echo requests sent by the core belong to the handler.
		if _, ok := r.pings[header.XID]; !ok {
			return false
		}
		r.handleEchoReply(packet)
		return true
	default:
		return false
	}
}

func (r *Transceiver) handleEchoRequest(header openflow.RawHeader, packet []byte) error {
	msg, err := r.registry.Decode(packet)
	if err != nil {
		return err
	}
	req, ok := msg.(openflow.Echo)
	if !ok {
		return errors.Errorf("unexpected echo request message: %T", msg)
	}
	logger.Debugf("received an ECHO_REQUEST packet: %v", r)

	// Reply in the version of the request even before the negotiation.
	factory, err := codec.NewFactory(header.Version)
	if err != nil {
		return err
	}
	reply, err := factory.NewEchoReply()
	if err != nil {
		return err
	}
	// Copy transaction ID and data from the incoming echo request message
	reply.SetTransactionID(req.TransactionID())
	reply.SetPayload(req.Payload())

	if err := r.write(reply); err != nil {
		return errors.Wrap(err, "failed to send ECHO_REPLY message")
	}

	return nil
}

func (r *Transceiver) handleEchoReply(packet []byte) {
	msg, err := r.registry.Decode(packet)
	if err != nil {
		logger.Debugf("invalid ECHO_REPLY packet: %v", err)
		return
	}
	reply, ok := msg.(openflow.Echo)
	if !ok {
		return
	}
	// The switch is alive, so every outstanding ping is answered.
	r.pingCounter = 0
	r.pings = make(map[uint32]struct{})

	timestamp := time.Time{}
	if err := timestamp.GobDecode(reply.Payload()); err != nil {
		// Some broken switches send an unexpected echo reply data.
		return
	}
	logger.Debugf("transceiver latency: %v, %v", time.Since(timestamp), r)
}

func (r *Transceiver) dispatch(packet []byte) {
	if r.completeRequest(packet) {
		return
	}
	r.handler.OnMessage(r, packet)
}

// completeRequest completes the pending request answered by packet, if any.
func (r *Transceiver) completeRequest(packet []byte) bool {
	header, err := openflow.ParseHeader(packet)
	if err != nil {
		return false
	}

	r.mutex.Lock()
	req, ok := r.pending[header.XID]
	r.mutex.Unlock()
	if !ok {
		return false
	}

	msg, err := r.registry.Decode(packet)
	if err != nil {
		// Let the handler see the undecodable message.
		return false
	}
	if msg.Kind() != req.expect && msg.Kind() != openflow.KindError {
		return false
	}
	if !r.removeRequest(header.XID, req) {
		return false
	}

	if e, ok := msg.(openflow.Error); ok && msg.Kind() == openflow.KindError {
		req.future.Complete(msg, &ErrorReply{Class: e.ErrorClass(), Code: e.ErrorCode(), Data: e.ErrorData()})
	} else {
		req.future.Complete(msg, nil)
	}

	return true
}

// Close closes the connection and fails every pending request with ErrClosed.
func (r *Transceiver) Close() error {
	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return nil
	}
	r.closed = true
	pending := r.pending
	r.pending = make(map[uint32]*request)
	r.mutex.Unlock()

	for _, req := range pending {
		if req.timer != nil {
			req.timer.Stop()
		}
		req.future.Complete(nil, ErrClosed)
	}

	return r.stream.Close()
}
