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

type Error struct {
	openflow.BaseError
}

func NewError(xid uint32, class, code uint16, data []byte) *Error {
	return &Error{
		BaseError: openflow.BaseError{
			Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid},
			Class:  class,
			Code:   code,
			Data:   data,
		},
	}
}

func (r *Error) Kind() openflow.Kind {
	return openflow.KindError
}

func (r *Error) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Class)
	openflow.WriteUint16(buf, r.Code)
	buf.Write(r.Data)

	return nil
}

func (r *Error) unmarshal(rd *openflow.Reader) {
	r.Class = rd.Uint16()
	r.Code = rd.Uint16()
	r.Data = rd.Rest()
}

type EchoRequest struct {
	openflow.BaseEcho
}

func NewEchoRequest(xid uint32) *EchoRequest {
	return &EchoRequest{
		BaseEcho: openflow.BaseEcho{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid}},
	}
}

func (r *EchoRequest) Kind() openflow.Kind {
	return openflow.KindEchoRequest
}

func (r *EchoRequest) marshal(buf *bytes.Buffer) error {
	buf.Write(r.Data)
	return nil
}

func (r *EchoRequest) unmarshal(rd *openflow.Reader) {
	r.Data = rd.Rest()
}

type EchoReply struct {
	openflow.BaseEcho
}

func NewEchoReply(xid uint32) *EchoReply {
	return &EchoReply{
		BaseEcho: openflow.BaseEcho{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid}},
	}
}

func (r *EchoReply) Kind() openflow.Kind {
	return openflow.KindEchoReply
}

func (r *EchoReply) marshal(buf *bytes.Buffer) error {
	buf.Write(r.Data)
	return nil
}

func (r *EchoReply) unmarshal(rd *openflow.Reader) {
	r.Data = rd.Rest()
}

type Experimenter struct {
	openflow.Header
	Experimenter uint32
	Type         uint32
	Data         []byte
}

func (r *Experimenter) Kind() openflow.Kind {
	return openflow.KindExperimenter
}

func (r *Experimenter) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint32(buf, r.Experimenter)
	openflow.WriteUint32(buf, r.Type)
	buf.Write(r.Data)

	return nil
}

func (r *Experimenter) unmarshal(rd *openflow.Reader) {
	r.Experimenter = rd.Uint32()
	r.Type = rd.Uint32()
	r.Data = rd.Rest()
}

type BarrierRequest struct {
	openflow.Header
}

func NewBarrierRequest(xid uint32) *BarrierRequest {
	return &BarrierRequest{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid}}
}

func (r *BarrierRequest) Kind() openflow.Kind {
	return openflow.KindBarrierRequest
}

type BarrierReply struct {
	openflow.Header
}

func (r *BarrierReply) Kind() openflow.Kind {
	return openflow.KindBarrierReply
}

type FeaturesRequest struct {
	openflow.Header
}

func NewFeaturesRequest(xid uint32) *FeaturesRequest {
	return &FeaturesRequest{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid}}
}

func (r *FeaturesRequest) Kind() openflow.Kind {
	return openflow.KindFeaturesRequest
}

type GetConfigRequest struct {
	openflow.Header
}

func NewGetConfigRequest(xid uint32) *GetConfigRequest {
	return &GetConfigRequest{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid}}
}

func (r *GetConfigRequest) Kind() openflow.Kind {
	return openflow.KindGetConfigRequest
}

type GetAsyncRequest struct {
	openflow.Header
}

func (r *GetAsyncRequest) Kind() openflow.Kind {
	return openflow.KindGetAsyncRequest
}

func (r *BarrierRequest) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *BarrierRequest) unmarshal(rd *openflow.Reader) {}

func (r *BarrierReply) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *BarrierReply) unmarshal(rd *openflow.Reader) {}

func (r *FeaturesRequest) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *FeaturesRequest) unmarshal(rd *openflow.Reader) {}

func (r *GetConfigRequest) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *GetConfigRequest) unmarshal(rd *openflow.Reader) {}

func (r *GetAsyncRequest) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *GetAsyncRequest) unmarshal(rd *openflow.Reader) {}
