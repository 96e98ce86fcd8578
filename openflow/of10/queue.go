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

const packetQueueHeaderLength = 8

type QueueGetConfigRequest struct {
	openflow.Header
	Port uint16
}

func NewQueueGetConfigRequest(xid uint32, port uint16) *QueueGetConfigRequest {
	return &QueueGetConfigRequest{
		Header: openflow.Header{Version: openflow.OF10_VERSION, XID: xid},
		Port:   port,
	}
}

func (r *QueueGetConfigRequest) Kind() openflow.Kind {
	return openflow.KindQueueGetConfigRequest
}

func (r *QueueGetConfigRequest) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Port)
	openflow.WritePad(buf, 2)

	return nil
}

func (r *QueueGetConfigRequest) unmarshal(rd *openflow.Reader) {
	r.Port = rd.Uint16()
	rd.Skip(2)
}

// QueueGetConfigReply lists the queues of a port. OpenFlow 1.0 has no port
// field in ofp_packet_queue, so Queue.Port is always zero here.
type QueueGetConfigReply struct {
	openflow.Header
	Port   uint16
	Queues []openflow.PacketQueue
}

func (r *QueueGetConfigReply) Kind() openflow.Kind {
	return openflow.KindQueueGetConfigReply
}

func (r *QueueGetConfigReply) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Port)
	openflow.WritePad(buf, 6)

	for _, q := range r.Queues {
		offset := buf.Len()
		openflow.WriteUint32(buf, q.ID)
		openflow.WriteUint16(buf, 0)
		openflow.WritePad(buf, 2)
		if err := openflow.WriteQueueProperties(buf, q.Properties); err != nil {
			return err
		}
		length := buf.Len() - offset
		if length > 0xFFFF {
			return errors.Wrap(openflow.ErrInvalidPacketLength, "too long packet queue")
		}
		openflow.PatchUint16(buf, offset+4, uint16(length))
	}

	return nil
}

func (r *QueueGetConfigReply) unmarshal(rd *openflow.Reader) {
	r.Port = rd.Uint16()
	rd.Skip(6)

	for rd.Err() == nil && rd.Remaining() > 0 {
		q := openflow.PacketQueue{ID: rd.Uint32()}
		length := int(rd.Uint16())
		rd.Skip(2)
		if length < packetQueueHeaderLength {
			rd.Fail(errors.Wrapf(openflow.ErrInvalidPacketLength, "packet queue length %v", length))
			return
		}
		props := rd.Sub(length - packetQueueHeaderLength)
		q.Properties = openflow.ReadQueueProperties(props)
		if err := props.End(); err != nil {
			rd.Fail(err)
			return
		}
		r.Queues = append(r.Queues, q)
	}
}
