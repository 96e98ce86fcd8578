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
	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/wire"

	"github.com/pkg/errors"
)

// FrameWriter is the outbound half of the core channel.
type FrameWriter interface {
	SendFrame(frame []byte) error
}

// relayToCore wraps a raw OpenFlow message from datapath dpid in an envelope
// addressed to moduleID and writes it to the core.
func relayToCore(core FrameWriter, packet []byte, dpid uint64, moduleID uint16) error {
	header, err := openflow.ParseHeader(packet)
	if err != nil {
		return err
	}

	env := &wire.Envelope{
		ModuleID:      moduleID,
		TransactionID: header.XID,
		DatapathID:    dpid,
		Payload:       packet,
	}
	frame, err := env.MarshalBinary()
	if err != nil {
		return err
	}
	if err := core.SendFrame(frame); err != nil {
		return errors.Wrapf(err, "failed to send %v to the core", env)
	}

	return nil
}

// relayToSwitch decodes the payload of env and writes it to the connection
// that owns the addressed datapath.
func relayToSwitch(registry *openflow.Registry, conns *connRegistry, env *wire.Envelope) error {
	s, ok := conns.lookup(env.DatapathID)
	if !ok {
		return &UnknownDatapathError{DPID: env.DatapathID}
	}

	msg, err := registry.Decode(env.Payload)
	if err != nil {
		return err
	}

	return s.send(msg, env.ModuleID)
}

// relayHello answers a module hello from the core with the requested
// protocols that are negotiated on at least one connection.
func relayHello(core FrameWriter, req *wire.Hello, negotiated []wire.ProtocolPair) ([]wire.ProtocolPair, error) {
	reply := &wire.Hello{
		ModuleID:      req.ModuleID,
		TransactionID: req.TransactionID,
		Protocols:     intersectProtocols(req.Protocols, negotiated),
	}
	frame, err := reply.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := core.SendFrame(frame); err != nil {
		return nil, errors.Wrap(err, "failed to send HELLO to the core")
	}

	return reply.Protocols, nil
}

func intersectProtocols(requested, negotiated []wire.ProtocolPair) []wire.ProtocolPair {
	var v []wire.ProtocolPair
	for _, p := range requested {
		if containsProtocol(negotiated, p) && !containsProtocol(v, p) {
			v = append(v, p)
		}
	}

	return v
}

func containsProtocol(pairs []wire.ProtocolPair, p wire.ProtocolPair) bool {
	for _, v := range pairs {
		if v == p {
			return true
		}
	}

	return false
}
