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

// FeaturesReply of OpenFlow 1.3 has no port list; ports are fetched with
// an OFPMP_PORT_DESC multipart request.
type FeaturesReply struct {
	openflow.Header
	DPID         uint64
	Buffers      uint32
	Tables       uint8
	AuxID        uint8
	Capabilities uint32
	Reserved     uint32
}

func (r *FeaturesReply) Kind() openflow.Kind {
	return openflow.KindFeaturesReply
}

func (r *FeaturesReply) DatapathID() uint64 {
	return r.DPID
}

func (r *FeaturesReply) NumBuffers() uint32 {
	return r.Buffers
}

func (r *FeaturesReply) NumTables() uint8 {
	return r.Tables
}

func (r *FeaturesReply) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint64(buf, r.DPID)
	openflow.WriteUint32(buf, r.Buffers)
	openflow.WriteUint8(buf, r.Tables)
	openflow.WriteUint8(buf, r.AuxID)
	openflow.WritePad(buf, 2)
	openflow.WriteUint32(buf, r.Capabilities)
	openflow.WriteUint32(buf, r.Reserved)

	return nil
}

func (r *FeaturesReply) unmarshal(rd *openflow.Reader) {
	r.DPID = rd.Uint64()
	r.Buffers = rd.Uint32()
	r.Tables = rd.Uint8()
	r.AuxID = rd.Uint8()
	rd.Skip(2)
	r.Capabilities = rd.Uint32()
	r.Reserved = rd.Uint32()
}
