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

type RoleConfig struct {
	Role         uint32
	GenerationID uint64
}

func (r *RoleConfig) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint32(buf, r.Role)
	openflow.WritePad(buf, 4)
	openflow.WriteUint64(buf, r.GenerationID)

	return nil
}

func (r *RoleConfig) unmarshal(rd *openflow.Reader) {
	r.Role = rd.Uint32()
	rd.Skip(4)
	r.GenerationID = rd.Uint64()
}

type RoleRequest struct {
	openflow.Header
	RoleConfig
}

func (r *RoleRequest) Kind() openflow.Kind {
	return openflow.KindRoleRequest
}

type RoleReply struct {
	openflow.Header
	RoleConfig
}

func (r *RoleReply) Kind() openflow.Kind {
	return openflow.KindRoleReply
}

// AsyncConfig holds the ofp_async_config masks. Index 0 applies to the
// master or equal role, index 1 to the slave role.
type AsyncConfig struct {
	PacketInMask    [2]uint32
	PortStatusMask  [2]uint32
	FlowRemovedMask [2]uint32
}

func (r *AsyncConfig) marshal(buf *bytes.Buffer) error {
	for _, mask := range [][2]uint32{r.PacketInMask, r.PortStatusMask, r.FlowRemovedMask} {
		openflow.WriteUint32(buf, mask[0])
		openflow.WriteUint32(buf, mask[1])
	}

	return nil
}

func (r *AsyncConfig) unmarshal(rd *openflow.Reader) {
	for _, mask := range []*[2]uint32{&r.PacketInMask, &r.PortStatusMask, &r.FlowRemovedMask} {
		mask[0] = rd.Uint32()
		mask[1] = rd.Uint32()
	}
}

type GetAsyncReply struct {
	openflow.Header
	AsyncConfig
}

func (r *GetAsyncReply) Kind() openflow.Kind {
	return openflow.KindGetAsyncReply
}

type SetAsync struct {
	openflow.Header
	AsyncConfig
}

func (r *SetAsync) Kind() openflow.Kind {
	return openflow.KindSetAsync
}
