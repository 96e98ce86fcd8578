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

package openflow

import (
	"encoding/binary"
	"fmt"
)

// Header holds the ofp_header fields that survive a decode. The type code and
// length are derived from the concrete message and recomputed on every write.
type Header struct {
	Version uint8
	XID     uint32
}

func (r *Header) ProtocolVersion() uint8 {
	return r.Version
}

func (r *Header) SetProtocolVersion(version uint8) {
	r.Version = version
}

func (r *Header) TransactionID() uint32 {
	return r.XID
}

func (r *Header) SetTransactionID(xid uint32) {
	r.XID = xid
}

type Message interface {
	Kind() Kind
	ProtocolVersion() uint8
	TransactionID() uint32
	SetTransactionID(xid uint32)
}

type Hello interface {
	Message
	// SupportedVersions returns the versions announced in a version bitmap
	// element, or nil if the hello carries no bitmap.
	SupportedVersions() []uint8
}

type Echo interface {
	Message
	Payload() []byte
	SetPayload(data []byte)
}

type Error interface {
	Message
	ErrorClass() uint16
	ErrorCode() uint16
	ErrorData() []byte
}

type FeaturesReply interface {
	Message
	DatapathID() uint64
	NumBuffers() uint32
	NumTables() uint8
}

// PacketData is implemented by messages that carry an Ethernet frame.
type PacketData interface {
	Message
	Frame() []byte
}

// Abstract factory for the messages the shim originates itself.
type Factory interface {
	ProtocolVersion() uint8
	NewHello() (Hello, error)
	NewEchoRequest() (Echo, error)
	NewEchoReply() (Echo, error)
	NewFeaturesRequest() (Message, error)
	NewError(class, code uint16, data []byte) (Error, error)
}

// RawHeader is the ofp_header exactly as found on the wire.
type RawHeader struct {
	Version uint8
	Type    uint8
	Length  uint16
	XID     uint32
}

func (r RawHeader) Header() Header {
	return Header{Version: r.Version, XID: r.XID}
}

func (r RawHeader) String() string {
	return fmt.Sprintf("version=%v, type=%v, length=%v, xid=%v", VersionString(r.Version), r.Type, r.Length, r.XID)
}

// ParseHeader reads the ofp_header of data without interpreting the body.
func ParseHeader(data []byte) (RawHeader, error) {
	if len(data) < HeaderLength {
		return RawHeader{}, ErrInvalidPacketLength
	}

	return RawHeader{
		Version: data[0],
		Type:    data[1],
		Length:  binary.BigEndian.Uint16(data[2:4]),
		XID:     binary.BigEndian.Uint32(data[4:8]),
	}, nil
}
