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
	OFPMPF_REQ_MORE   = 1 << 0
	OFPMPF_REPLY_MORE = 1 << 0
)

// MultipartRequest is relayed with an opaque body whose layout depends on Type.
type MultipartRequest struct {
	openflow.Header
	Type  uint16
	Flags uint16
	Body  []byte
}

func NewMultipartRequest(xid uint32, mpType uint16, body []byte) *MultipartRequest {
	return &MultipartRequest{
		Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid},
		Type:   mpType,
		Body:   body,
	}
}

func (r *MultipartRequest) Kind() openflow.Kind {
	return openflow.KindMultipartRequest
}

func (r *MultipartRequest) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Type)
	openflow.WriteUint16(buf, r.Flags)
	openflow.WritePad(buf, 4)
	buf.Write(r.Body)

	return nil
}

func (r *MultipartRequest) unmarshal(rd *openflow.Reader) {
	r.Type = rd.Uint16()
	r.Flags = rd.Uint16()
	rd.Skip(4)
	r.Body = rd.Rest()
}

type MultipartReply struct {
	openflow.Header
	Type  uint16
	Flags uint16
	Body  []byte
}

func (r *MultipartReply) Kind() openflow.Kind {
	return openflow.KindMultipartReply
}

func (r *MultipartReply) More() bool {
	return r.Flags&OFPMPF_REPLY_MORE != 0
}

func (r *MultipartReply) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Type)
	openflow.WriteUint16(buf, r.Flags)
	openflow.WritePad(buf, 4)
	buf.Write(r.Body)

	return nil
}

func (r *MultipartReply) unmarshal(rd *openflow.Reader) {
	r.Type = rd.Uint16()
	r.Flags = rd.Uint16()
	rd.Skip(4)
	r.Body = rd.Rest()
}
