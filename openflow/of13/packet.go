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

package of13

import (
	"bytes"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/pkg/errors"
)

const (
	OFPR_NO_MATCH = iota
	OFPR_ACTION
	OFPR_INVALID_TTL
)

type PacketIn struct {
	openflow.Header
	BufferID uint32
	// Full length of frame
	Length  uint16
	Reason  uint8
	TableID uint8
	Cookie  uint64
	Match   Match
	Data    []byte
}

func (r *PacketIn) Kind() openflow.Kind {
	return openflow.KindPacketIn
}

func (r *PacketIn) Frame() []byte {
	return r.Data
}

func (r *PacketIn) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint32(buf, r.BufferID)
	openflow.WriteUint16(buf, r.Length)
	openflow.WriteUint8(buf, r.Reason)
	openflow.WriteUint8(buf, r.TableID)
	openflow.WriteUint64(buf, r.Cookie)
	if err := r.Match.marshal(buf); err != nil {
		return err
	}
	openflow.WritePad(buf, 2)
	buf.Write(r.Data)

	return nil
}

func (r *PacketIn) unmarshal(rd *openflow.Reader) {
	r.BufferID = rd.Uint32()
	r.Length = rd.Uint16()
	r.Reason = rd.Uint8()
	r.TableID = rd.Uint8()
	r.Cookie = rd.Uint64()
	r.Match = readMatch(rd)
	rd.Skip(2)
	r.Data = rd.Rest()
}

// PacketOut carries its action list as encoded ofp_action_* structures.
type PacketOut struct {
	openflow.Header
	BufferID uint32
	InPort   uint32
	Actions  []byte
	Data     []byte
}

func NewPacketOut(xid uint32) *PacketOut {
	return &PacketOut{
		Header:   openflow.Header{Version: openflow.OF13_VERSION, XID: xid},
		BufferID: OFP_NO_BUFFER,
		InPort:   OFPP_CONTROLLER,
	}
}

func (r *PacketOut) Kind() openflow.Kind {
	return openflow.KindPacketOut
}

func (r *PacketOut) Frame() []byte {
	return r.Data
}

func (r *PacketOut) marshal(buf *bytes.Buffer) error {
	if len(r.Actions) > 0xFFFF {
		return errors.Wrap(openflow.ErrInvalidPacketLength, "too long action list")
	}
	openflow.WriteUint32(buf, r.BufferID)
	openflow.WriteUint32(buf, r.InPort)
	openflow.WriteUint16(buf, uint16(len(r.Actions)))
	openflow.WritePad(buf, 6)
	buf.Write(r.Actions)
	buf.Write(r.Data)

	return nil
}

func (r *PacketOut) unmarshal(rd *openflow.Reader) {
	r.BufferID = rd.Uint32()
	r.InPort = rd.Uint32()
	length := rd.Uint16()
	rd.Skip(6)
	r.Actions = rd.Bytes(int(length))
	r.Data = rd.Rest()
}
