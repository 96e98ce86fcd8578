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

// Package wire implements the frames exchanged with the NetIDE core.
//
// Every frame starts with a one byte kind followed by a common header:
//
//	kind u8 | payload_length u16 | module_id u16 | transaction_id u32
//
// OPENFLOW frames add datapath_id u64 before the payload, which makes their
// layout after the kind byte exactly the wire envelope. HELLO frames carry a
// count prefixed list of (protocol u8, version u8) pairs as payload and have
// no datapath ID. HEARTBEAT frames have an empty payload.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

type FrameKind uint8

const (
	KindHello     FrameKind = 0x01
	KindHeartbeat FrameKind = 0x06
	KindOpenFlow  FrameKind = 0x11
)

func (r FrameKind) String() string {
	switch r {
	case KindHello:
		return "HELLO"
	case KindHeartbeat:
		return "HEARTBEAT"
	case KindOpenFlow:
		return "OPENFLOW"
	default:
		return fmt.Sprintf("FrameKind(0x%02x)", uint8(r))
	}
}

const (
	kindLength = 1
	// payload_length, module_id and transaction_id
	commonHeaderLength = 8
	// EnvelopeHeaderLength is the envelope header without the kind byte.
	EnvelopeHeaderLength = commonHeaderLength + 8
	MaxPayloadLength     = 0xFFFF
)

// MalformedError is returned for a frame that is truncated, has a length
// mismatch or an unknown kind.
type MalformedError struct {
	Reason string
}

func (r *MalformedError) Error() string {
	return fmt.Sprintf("malformed envelope: %v", r.Reason)
}

func malformed(format string, args ...interface{}) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

func IsMalformed(err error) bool {
	var v *MalformedError
	return errors.As(err, &v)
}

// Frame is implemented by Envelope, Hello and Heartbeat.
type Frame interface {
	Kind() FrameKind
	MarshalBinary() ([]byte, error)
}

type header struct {
	payloadLength uint16
	moduleID      uint16
	xid           uint32
}

func putHeader(b []byte, kind FrameKind, payloadLength int, moduleID uint16, xid uint32) {
	b[0] = byte(kind)
	binary.BigEndian.PutUint16(b[1:3], uint16(payloadLength))
	binary.BigEndian.PutUint16(b[3:5], moduleID)
	binary.BigEndian.PutUint32(b[5:9], xid)
}

func readHeader(data []byte) (header, error) {
	if len(data) < kindLength+commonHeaderLength {
		return header{}, malformed("truncated header: %v bytes", len(data))
	}

	return header{
		payloadLength: binary.BigEndian.Uint16(data[1:3]),
		moduleID:      binary.BigEndian.Uint16(data[3:5]),
		xid:           binary.BigEndian.Uint32(data[5:9]),
	}, nil
}

// checkPayload verifies that exactly payloadLength bytes follow offset.
func checkPayload(data []byte, offset int, payloadLength uint16) error {
	actual := len(data) - offset
	if actual < int(payloadLength) {
		return malformed("truncated payload: declared=%v, actual=%v", payloadLength, actual)
	}
	if actual > int(payloadLength) {
		return malformed("payload length mismatch: declared=%v, actual=%v", payloadLength, actual)
	}

	return nil
}

// Decode parses one frame received from the core.
func Decode(data []byte) (Frame, error) {
	if len(data) == 0 {
		return nil, malformed("empty frame")
	}

	var f Frame
	var err error
	switch FrameKind(data[0]) {
	case KindOpenFlow:
		f, err = decodeEnvelope(data)
	case KindHello:
		f, err = decodeHello(data)
	case KindHeartbeat:
		f, err = decodeHeartbeat(data)
	default:
		return nil, malformed("unknown frame kind 0x%02x", data[0])
	}
	// Do not return a typed nil inside a non-nil interface.
	if err != nil {
		return nil, err
	}

	return f, nil
}
