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

package wire

import (
	"fmt"
)

type Protocol uint8

const (
	ProtocolOpenFlow Protocol = 0x11
	ProtocolNETCONF  Protocol = 0x12
	ProtocolOpFlex   Protocol = 0x13
)

func (r Protocol) String() string {
	switch r {
	case ProtocolOpenFlow:
		return "OpenFlow"
	case ProtocolNETCONF:
		return "NETCONF"
	case ProtocolOpFlex:
		return "OpFlex"
	default:
		return fmt.Sprintf("Protocol(0x%02x)", uint8(r))
	}
}

// ProtocolVersion is the version number as used by the protocol itself, e.g.
// 0x01 for OpenFlow 1.0 and 0x04 for OpenFlow 1.3.
type ProtocolVersion uint8

// ProtocolPair is a negotiated (protocol, version) combination.
type ProtocolPair struct {
	Protocol Protocol        `json:"protocol"`
	Version  ProtocolVersion `json:"version"`
}

func (r ProtocolPair) String() string {
	return fmt.Sprintf("%v/0x%02x", r.Protocol, uint8(r.Version))
}

// Hello is the module level handshake with the core. It has no datapath ID.
type Hello struct {
	ModuleID      uint16
	TransactionID uint32
	Protocols     []ProtocolPair
}

func (r *Hello) Kind() FrameKind {
	return KindHello
}

func (r *Hello) MarshalBinary() ([]byte, error) {
	if len(r.Protocols) > 0xFF {
		return nil, malformed("too many protocols: %v", len(r.Protocols))
	}

	payloadLength := 1 + len(r.Protocols)*2
	offset := kindLength + commonHeaderLength
	v := make([]byte, offset+payloadLength)
	putHeader(v, KindHello, payloadLength, r.ModuleID, r.TransactionID)
	v[offset] = uint8(len(r.Protocols))
	for i, p := range r.Protocols {
		v[offset+1+i*2] = uint8(p.Protocol)
		v[offset+2+i*2] = uint8(p.Version)
	}

	return v, nil
}

func decodeHello(data []byte) (*Hello, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	offset := kindLength + commonHeaderLength
	if err := checkPayload(data, offset, h.payloadLength); err != nil {
		return nil, err
	}
	if h.payloadLength < 1 {
		return nil, malformed("missing protocol count")
	}
	count := int(data[offset])
	if int(h.payloadLength) != 1+count*2 {
		return nil, malformed("protocol count %v does not match payload length %v", count, h.payloadLength)
	}

	hello := &Hello{ModuleID: h.moduleID, TransactionID: h.xid}
	for i := 0; i < count; i++ {
		hello.Protocols = append(hello.Protocols, ProtocolPair{
			Protocol: Protocol(data[offset+1+i*2]),
			Version:  ProtocolVersion(data[offset+2+i*2]),
		})
	}

	return hello, nil
}

type Heartbeat struct {
	ModuleID      uint16
	TransactionID uint32
}

func (r *Heartbeat) Kind() FrameKind {
	return KindHeartbeat
}

func (r *Heartbeat) MarshalBinary() ([]byte, error) {
	v := make([]byte, kindLength+commonHeaderLength)
	putHeader(v, KindHeartbeat, 0, r.ModuleID, r.TransactionID)

	return v, nil
}

func decodeHeartbeat(data []byte) (*Heartbeat, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if err := checkPayload(data, kindLength+commonHeaderLength, h.payloadLength); err != nil {
		return nil, err
	}
	if h.payloadLength != 0 {
		return nil, malformed("heartbeat with %v bytes of payload", h.payloadLength)
	}

	return &Heartbeat{ModuleID: h.moduleID, TransactionID: h.xid}, nil
}
