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
	OFPFF_RESET_COUNTS  = 1 << 2
	OFPFF_NO_PKT_COUNTS = 1 << 3
	OFPFF_NO_BYT_COUNTS = 1 << 4
)

// FlowMod carries its instruction list as encoded ofp_instruction structures.
type FlowMod struct {
	openflow.Header
	Cookie       uint64
	CookieMask   uint64
	TableID      uint8
	Command      uint8
	IdleTimeout  uint16
	HardTimeout  uint16
	Priority     uint16
	BufferID     uint32
	OutPort      uint32
	OutGroup     uint32
	Flags        uint16
	Match        Match
	Instructions []byte
}

func NewFlowMod(xid uint32, cmd uint8) *FlowMod {
	return &FlowMod{
		Header:   openflow.Header{Version: openflow.OF13_VERSION, XID: xid},
		Command:  cmd,
		BufferID: OFP_NO_BUFFER,
		OutPort:  OFPP_ANY,
		OutGroup: OFPG_ANY,
		Match:    *NewMatch(),
	}
}

func (r *FlowMod) Kind() openflow.Kind {
	return openflow.KindFlowMod
}

func (r *FlowMod) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint64(buf, r.Cookie)
	openflow.WriteUint64(buf, r.CookieMask)
	openflow.WriteUint8(buf, r.TableID)
	openflow.WriteUint8(buf, r.Command)
	openflow.WriteUint16(buf, r.IdleTimeout)
	openflow.WriteUint16(buf, r.HardTimeout)
	openflow.WriteUint16(buf, r.Priority)
	openflow.WriteUint32(buf, r.BufferID)
	openflow.WriteUint32(buf, r.OutPort)
	openflow.WriteUint32(buf, r.OutGroup)
	openflow.WriteUint16(buf, r.Flags)
	openflow.WritePad(buf, 2)
	if err := r.Match.marshal(buf); err != nil {
		return err
	}
	buf.Write(r.Instructions)

	return nil
}

func (r *FlowMod) unmarshal(rd *openflow.Reader) {
	r.Cookie = rd.Uint64()
	r.CookieMask = rd.Uint64()
	r.TableID = rd.Uint8()
	r.Command = rd.Uint8()
	r.IdleTimeout = rd.Uint16()
	r.HardTimeout = rd.Uint16()
	r.Priority = rd.Uint16()
	r.BufferID = rd.Uint32()
	r.OutPort = rd.Uint32()
	r.OutGroup = rd.Uint32()
	r.Flags = rd.Uint16()
	rd.Skip(2)
	r.Match = readMatch(rd)
	r.Instructions = rd.Rest()
}

type FlowRemoved struct {
	openflow.Header
	Cookie       uint64
	Priority     uint16
	Reason       uint8
	TableID      uint8
	DurationSec  uint32
	DurationNsec uint32
	IdleTimeout  uint16
	HardTimeout  uint16
	PacketCount  uint64
	ByteCount    uint64
	Match        Match
}

func (r *FlowRemoved) Kind() openflow.Kind {
	return openflow.KindFlowRemoved
}

func (r *FlowRemoved) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint64(buf, r.Cookie)
	openflow.WriteUint16(buf, r.Priority)
	openflow.WriteUint8(buf, r.Reason)
	openflow.WriteUint8(buf, r.TableID)
	openflow.WriteUint32(buf, r.DurationSec)
	openflow.WriteUint32(buf, r.DurationNsec)
	openflow.WriteUint16(buf, r.IdleTimeout)
	openflow.WriteUint16(buf, r.HardTimeout)
	openflow.WriteUint64(buf, r.PacketCount)
	openflow.WriteUint64(buf, r.ByteCount)

	return r.Match.marshal(buf)
}

func (r *FlowRemoved) unmarshal(rd *openflow.Reader) {
	r.Cookie = rd.Uint64()
	r.Priority = rd.Uint16()
	r.Reason = rd.Uint8()
	r.TableID = rd.Uint8()
	r.DurationSec = rd.Uint32()
	r.DurationNsec = rd.Uint32()
	r.IdleTimeout = rd.Uint16()
	r.HardTimeout = rd.Uint16()
	r.PacketCount = rd.Uint64()
	r.ByteCount = rd.Uint64()
	r.Match = readMatch(rd)
}
