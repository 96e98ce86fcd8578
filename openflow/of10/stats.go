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

const OFPSF_REPLY_MORE = 1 << 0

// StatsRequest is relayed with an opaque body whose layout depends on Type.
type StatsRequest struct {
	openflow.Header
	Type  uint16
	Flags uint16
	Body  []byte
}

func (r *StatsRequest) Kind() openflow.Kind {
	return openflow.KindMultipartRequest
}

func (r *StatsRequest) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Type)
	openflow.WriteUint16(buf, r.Flags)
	buf.Write(r.Body)

	return nil
}

func (r *StatsRequest) unmarshal(rd *openflow.Reader) {
	r.Type = rd.Uint16()
	r.Flags = rd.Uint16()
	r.Body = rd.Rest()
}

type StatsReply struct {
	openflow.Header
	Type  uint16
	Flags uint16
	Body  []byte
}

func (r *StatsReply) Kind() openflow.Kind {
	return openflow.KindMultipartReply
}

func (r *StatsReply) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Type)
	openflow.WriteUint16(buf, r.Flags)
	buf.Write(r.Body)

	return nil
}

func (r *StatsReply) unmarshal(rd *openflow.Reader) {
	r.Type = rd.Uint16()
	r.Flags = rd.Uint16()
	r.Body = rd.Rest()
}

func (r *StatsReply) More() bool {
	return r.Flags&OFPSF_REPLY_MORE != 0
}
