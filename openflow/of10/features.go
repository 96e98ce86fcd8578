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
	"github.com/pkg/errors"
)

type FeaturesRequest struct {
	openflow.Header
}

func NewFeaturesRequest(xid uint32) *FeaturesRequest {
	return &FeaturesRequest{Header: openflow.Header{Version: openflow.OF10_VERSION, XID: xid}}
}

func (r *FeaturesRequest) Kind() openflow.Kind {
	return openflow.KindFeaturesRequest
}

func (r *FeaturesRequest) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *FeaturesRequest) unmarshal(rd *openflow.Reader) {}

type FeaturesReply struct {
	openflow.Header
	DPID         uint64
	Buffers      uint32
	Tables       uint8
	Capabilities uint32
	Actions      uint32
	Ports        []Port
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
	openflow.WritePad(buf, 3)
	openflow.WriteUint32(buf, r.Capabilities)
	openflow.WriteUint32(buf, r.Actions)
	for i := range r.Ports {
		if err := r.Ports[i].marshal(buf); err != nil {
			return err
		}
	}

	return nil
}

func (r *FeaturesReply) unmarshal(rd *openflow.Reader) {
	r.DPID = rd.Uint64()
	r.Buffers = rd.Uint32()
	r.Tables = rd.Uint8()
	rd.Skip(3)
	r.Capabilities = rd.Uint32()
	r.Actions = rd.Uint32()

	if rd.Remaining()%portLength != 0 {
		rd.Fail(errors.Wrapf(openflow.ErrInvalidPacketLength, "port list length %v", rd.Remaining()))
		return
	}
	for rd.Err() == nil && rd.Remaining() > 0 {
		r.Ports = append(r.Ports, readPort(rd))
	}
}
