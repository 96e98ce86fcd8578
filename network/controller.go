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
	"bytes"
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/transceiver"
	"github.com/hashsdn/hashsdn-netide/wire"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	logger = logging.MustGetLogger("network")
)

const (
	defaultFeaturesTimeout = 5 * time.Second
	// Read buffer of a switch connection.
	streamBufferSize = 0xFFFF
)

type Config struct {
	// Highest OpenFlow version offered to switches.
	MaxVersion      uint8
	FeaturesTimeout time.Duration
}

func (r *Config) validate() error {
	if !openflow.IsSupportedVersion(r.MaxVersion) {
		return errors.Wrapf(openflow.ErrUnsupportedVersion, "max version %v", r.MaxVersion)
	}
	if r.FeaturesTimeout < 0 {
		return fmt.Errorf("negative features timeout: %v", r.FeaturesTimeout)
	}

	return nil
}

// Controller terminates switch connections and relays their OpenFlow
// messages to and from the core.
type Controller struct {
	codec *openflow.Registry
	core  FrameWriter
	conf  Config
	conns *connRegistry

	mutex sync.Mutex
	// Every live connection keyed by its connection ID, established or not.
	sessions map[uint64]*session
}

func NewController(codec *openflow.Registry, core FrameWriter, conf Config) (*Controller, error) {
	if codec == nil {
		panic("codec registry is nil")
	}
	if core == nil {
		panic("core channel is nil")
	}
	if conf.MaxVersion == 0 {
		conf.MaxVersion = openflow.OF13_VERSION
	}
	if conf.FeaturesTimeout == 0 {
		conf.FeaturesTimeout = defaultFeaturesTimeout
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &Controller{
		codec:    codec,
		core:     core,
		conf:     conf,
		conns:    newConnRegistry(),
		sessions: make(map[uint64]*session),
	}, nil
}

// AddConnection runs the OpenFlow channel of an accepted switch connection
// until it is closed or ctx is done.
func (r *Controller) AddConnection(ctx context.Context, c net.Conn) {
	stream := transceiver.NewStream(c, streamBufferSize)
	t := transceiver.NewTransceiver(stream, r.codec, r)
	go func() {
		if err := t.Run(ctx); err != nil {
			logger.Errorf("switch connection %v is terminated: %v", c.RemoteAddr(), err)
		}
	}()
}

func (r *Controller) getSession(conn transceiver.Connection) (*session, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ok := r.sessions[conn.ID()]
	return s, ok
}

func (r *Controller) allSessions() []*session {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	v := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		v = append(v, s)
	}

	return v
}

func (r *Controller) OnSwitchConnected(conn transceiver.Connection) {
	logger.Infof("switch is connected: %v", conn.RemoteAddr())

	s := newSession(r, conn)
	r.mutex.Lock()
	r.sessions[conn.ID()] = s
	r.mutex.Unlock()

	if err := s.start(); err != nil {
		r.onHandshakeFailure(s, &HandshakeError{Conn: s.connName(), Reason: "failed to start the handshake", Cause: err})
	}
}

func (r *Controller) OnMessage(conn transceiver.Connection, packet []byte) {
	s, ok := r.getSession(conn)
	if !ok {
		logger.Warningf("message from an unknown connection %v", conn.RemoteAddr())
		return
	}

	err := s.onMessage(packet)
	switch {
	case err == nil:
		return
	case IsHandshakeFailure(err):
		r.onHandshakeFailure(s, err)
	case IsProtocolViolation(err):
		logger.Warningf("dropping a switch message: %v", err)
	default:
		logger.Errorf("failed to handle a switch message from %v: %v", s.connName(), err)
	}
}

func (r *Controller) OnDisconnected(conn transceiver.Connection) {
	r.mutex.Lock()
	s, ok := r.sessions[conn.ID()]
	delete(r.sessions, conn.ID())
	r.mutex.Unlock()

	if !ok {
		return
	}
	s.close()
	logger.Infof("switch connection is closed: %v", conn.RemoteAddr())
}

// onHandshakeFailure disconnects a switch that cannot be established.
func (r *Controller) onHandshakeFailure(s *session, err error) {
	logger.Errorf("%v", err)
	if err := s.conn.Close(); err != nil {
		logger.Warningf("failed to close %v: %v", s.connName(), err)
	}
}

// OnFrame handles one frame received from the core.
func (r *Controller) OnFrame(frame []byte) {
	f, err := wire.Decode(frame)
	if err != nil {
		logger.Warningf("dropping a core frame: %v", err)
		return
	}

	switch v := f.(type) {
	case *wire.Envelope:
		r.onEnvelope(v)
	case *wire.Hello:
		r.onCoreHello(v)
	case *wire.Heartbeat:
		logger.Debugf("heartbeat from the core module %v", v.ModuleID)
	default:
		logger.Warningf("unexpected core frame: %v", f.Kind())
	}
}

func (r *Controller) onEnvelope(env *wire.Envelope) {
	err := relayToSwitch(r.codec, r.conns, env)
	switch {
	case err == nil:
		logger.Debugf("relayed a core message to the switch: %v", env)
	case IsUnknownDatapath(err):
		// Late messages after a disconnect are expected.
		logger.Infof("dropping %v: %v", env, err)
	case openflow.IsUnsupported(err):
		logger.Warningf("dropping %v: %v", env, err)
	default:
		logger.Warningf("failed to relay %v: %v", env, err)
	}
}

func (r *Controller) onCoreHello(req *wire.Hello) {
	logger.Infof("HELLO from the core module %v: %v", req.ModuleID, req.Protocols)

	accepted, err := relayHello(r.core, req, r.Protocols())
	if err != nil {
		logger.Errorf("failed to answer the core HELLO: %v", err)
		return
	}

	// Let the module learn the switches that are already established.
	for _, s := range r.allSessions() {
		version, ok := s.negotiatedVersion()
		if !ok || s.getState() != StateEstablished {
			continue
		}
		pair := wire.ProtocolPair{Protocol: wire.ProtocolOpenFlow, Version: wire.ProtocolVersion(version)}
		if !containsProtocol(accepted, pair) {
			continue
		}
		if err := s.queueFeaturesRequest(req.ModuleID); err != nil {
			logger.Warningf("failed to request features of %v for the module %v: %v", s.connName(), req.ModuleID, err)
		}
	}
}

// Protocols returns every protocol pair negotiated on at least one
// connection, sorted by protocol and version.
func (r *Controller) Protocols() []wire.ProtocolPair {
	var v []wire.ProtocolPair
	for _, s := range r.allSessions() {
		version, ok := s.negotiatedVersion()
		if !ok {
			continue
		}
		pair := wire.ProtocolPair{Protocol: wire.ProtocolOpenFlow, Version: wire.ProtocolVersion(version)}
		if !containsProtocol(v, pair) {
			v = append(v, pair)
		}
	}
	sort.Slice(v, func(i, j int) bool {
		if v[i].Protocol != v[j].Protocol {
			return v[i].Protocol < v[j].Protocol
		}
		return v[i].Version < v[j].Version
	})

	return v
}

// Switches returns the status of every registered datapath in DPID order.
func (r *Controller) Switches() []SwitchStatus {
	var v []SwitchStatus
	for _, dpid := range r.conns.dpids() {
		s, ok := r.conns.lookup(dpid)
		if !ok {
			continue
		}
		v = append(v, s.status())
	}

	return v
}

// Lookup reports whether dpid is registered.
func (r *Controller) Lookup(dpid uint64) bool {
	_, ok := r.conns.lookup(dpid)
	return ok
}

func (r *Controller) String() string {
	var buf bytes.Buffer

	r.mutex.Lock()
	numConns := len(r.sessions)
	r.mutex.Unlock()

	buf.WriteString(fmt.Sprintf("Controller(connections=%v, switches=%v, protocols=%v)\n", numConns, r.conns.len(), r.Protocols()))
	for _, sw := range r.Switches() {
		buf.WriteString(fmt.Sprintf("\tDPID=%v, remote=%v, version=%v, state=%v\n", sw.DPID, sw.RemoteAddr, sw.Version, sw.State))
	}

	return buf.String()
}
