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

type Config struct {
	Flags          uint16
	MissSendLength uint16
}

func (r *Config) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Flags)
	openflow.WriteUint16(buf, r.MissSendLength)

	return nil
}

func (r *Config) unmarshal(rd *openflow.Reader) {
	r.Flags = rd.Uint16()
	r.MissSendLength = rd.Uint16()
}

type SetConfig struct {
	openflow.Header
	Config
}

func NewSetConfig(xid uint32) *SetConfig {
	return &SetConfig{
		Header: openflow.Header{Version: openflow.OF10_VERSION, XID: xid},
		Config: Config{
			Flags:          OFPC_FRAG_NORMAL,
			MissSendLength: 0xFFFF,
		},
	}
}

func (r *SetConfig) Kind() openflow.Kind {
	return openflow.KindSetConfig
}

type GetConfigRequest struct {
	openflow.Header
}

func NewGetConfigRequest(xid uint32) *GetConfigRequest {
	return &GetConfigRequest{Header: openflow.Header{Version: openflow.OF10_VERSION, XID: xid}}
}

func (r *GetConfigRequest) Kind() openflow.Kind {
	return openflow.KindGetConfigRequest
}

func (r *GetConfigRequest) marshal(buf *bytes.Buffer) error {
	return nil
}

func (r *GetConfigRequest) unmarshal(rd *openflow.Reader) {}

type GetConfigReply struct {
	openflow.Header
	Config
}

func (r *GetConfigReply) Kind() openflow.Kind {
	return openflow.KindGetConfigReply
}
