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

package of10

import (
	"bytes"

	"github.com/hashsdn/hashsdn-netide/openflow"
)

const (
	OFPFC_ADD = iota
	OFPFC_MODIFY
	OFPFC_MODIFY_STRICT
	OFPFC_DELETE
	OFPFC_DELETE_STRICT
)

const (
	OFPFF_SEND_FLOW_REM = 1 << 0
	OFPFF_CHECK_OVERLAP = 1 << 1
	OFPFF_EMERG         = 1 << 2
)

type FlowMod struct {
	openflow.Header
	Match       Match
	Cookie      uint64
	Command     uint16
	IdleTimeout uint16
	HardTimeout uint16
	Priority    uint16
	BufferID    uint32
	OutPort     uint16
	Flags       uint16
	Actions     []byte
}

func NewFlowMod(xid uint32, cmd uint16) *FlowMod {
	return &FlowMod{
		Header:   openflow.Header{Version: openflow.OF10_VERSION, XID: xid},
		Match:    *NewMatch(),
		Command:  cmd,
		BufferID: OFP_NO_BUFFER,
		OutPort:  OFPP_NONE,
	}
}

func (r *FlowMod) Kind() openflow.Kind {
	return openflow.KindFlowMod
}

func (r *FlowMod) marshal(buf *bytes.Buffer) error {
	if err := r.Match.marshal(buf); err != nil {
		return err
	}
	openflow.WriteUint64(buf, r.Cookie)
	openflow.WriteUint16(buf, r.Command)
	openflow.WriteUint16(buf, r.IdleTimeout)
	openflow.WriteUint16(buf, r.HardTimeout)
	openflow.WriteUint16(buf, r.Priority)
	openflow.WriteUint32(buf, r.BufferID)
	openflow.WriteUint16(buf, r.OutPort)
	openflow.WriteUint16(buf, r.Flags)
	buf.Write(r.Actions)

	return nil
}

func (r *FlowMod) unmarshal(rd *openflow.Reader) {
	r.Match = readMatch(rd)
	r.Cookie = rd.Uint64()
	r.Command = rd.Uint16()
	r.IdleTimeout = rd.Uint16()
	r.HardTimeout = rd.Uint16()
	r.Priority = rd.Uint16()
	r.BufferID = rd.Uint32()
	r.OutPort = rd.Uint16()
	r.Flags = rd.Uint16()
	r.Actions = rd.Rest()
}

type FlowRemoved struct {
	openflow.Header
	Match        Match
	Cookie       uint64
	Priority     uint16
	Reason       uint8
	DurationSec  uint32
	DurationNsec uint32
	IdleTimeout  uint16
	PacketCount  uint64
	ByteCount    uint64
}

func (r *FlowRemoved) Kind() openflow.Kind {
	return openflow.KindFlowRemoved
}

func (r *FlowRemoved) marshal(buf *bytes.Buffer) error {
	if err := r.Match.marshal(buf); err != nil {
		return err
	}
	openflow.WriteUint64(buf, r.Cookie)
	openflow.WriteUint16(buf, r.Priority)
	openflow.WriteUint8(buf, r.Reason)
	openflow.WritePad(buf, 1)
	openflow.WriteUint32(buf, r.DurationSec)
	openflow.WriteUint32(buf, r.DurationNsec)
	openflow.WriteUint16(buf, r.IdleTimeout)
	openflow.WritePad(buf, 2)
	openflow.WriteUint64(buf, r.PacketCount)
	openflow.WriteUint64(buf, r.ByteCount)

	return nil
}

func (r *FlowRemoved) unmarshal(rd *openflow.Reader) {
	r.Match = readMatch(rd)
	r.Cookie = rd.Uint64()
	r.Priority = rd.Uint16()
	r.Reason = rd.Uint8()
	rd.Skip(1)
	r.DurationSec = rd.Uint32()
	r.DurationNsec = rd.Uint32()
	r.IdleTimeout = rd.Uint16()
	rd.Skip(2)
	r.PacketCount = rd.Uint64()
	r.ByteCount = rd.Uint64()
}
