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

package openflow

import (
	"bytes"

	"github.com/pkg/errors"
)

type PropertyType uint16

const (
	OFPQT_NONE PropertyType = iota
	OFPQT_MIN_RATE
	OFPQT_MAX_RATE
	OFPQT_EXPERIMENTER = 0xffff
)

const queuePropertyHeaderLength = 8

// QueueProperty is one ofp_queue_prop_* entry. Rate is used by the min and
// max rate properties, Experimenter and Data by the experimenter property.
// Data also keeps the body of property types this package does not know.
type QueueProperty struct {
	Type         PropertyType
	Rate         uint16
	Experimenter uint32
	Data         []byte
}

// PacketQueue is an ofp_packet_queue. Port is only present on the wire in
// OpenFlow 1.3.
type PacketQueue struct {
	ID         uint32
	Port       uint32
	Properties []QueueProperty
}

func WriteQueueProperties(buf *bytes.Buffer, props []QueueProperty) error {
	for _, p := range props {
		offset := buf.Len()
		WriteUint16(buf, uint16(p.Type))
		WriteUint16(buf, 0)
		WritePad(buf, 4)

		switch p.Type {
		case OFPQT_NONE:
		case OFPQT_MIN_RATE, OFPQT_MAX_RATE:
			WriteUint16(buf, p.Rate)
			WritePad(buf, 6)
		case OFPQT_EXPERIMENTER:
			WriteUint32(buf, p.Experimenter)
			WritePad(buf, 4)
			buf.Write(p.Data)
		default:
			buf.Write(p.Data)
		}

		length := buf.Len() - offset
		if length > 0xFFFF {
			return errors.Wrap(ErrInvalidPacketLength, "queue property too long")
		}
		PatchUint16(buf, offset+2, uint16(length))
	}

	return nil
}

// ReadQueueProperties consumes every remaining byte of r as a property list.
func ReadQueueProperties(r *Reader) []QueueProperty {
	var props []QueueProperty
	for r.Err() == nil && r.Remaining() > 0 {
		p := QueueProperty{Type: PropertyType(r.Uint16())}
		length := int(r.Uint16())
		r.Skip(4)
		if length < queuePropertyHeaderLength {
			r.Fail(errors.Wrapf(ErrInvalidPacketLength, "queue property length %v", length))
			break
		}

		body := r.Sub(length - queuePropertyHeaderLength)
		switch p.Type {
		case OFPQT_NONE:
		case OFPQT_MIN_RATE, OFPQT_MAX_RATE:
			p.Rate = body.Uint16()
			body.Skip(6)
		case OFPQT_EXPERIMENTER:
			p.Experimenter = body.Uint32()
			body.Skip(4)
			p.Data = body.Rest()
		default:
			p.Data = body.Rest()
		}
		if err := body.End(); err != nil {
			r.Fail(err)
			break
		}
		props = append(props, p)
	}

	return props
}
