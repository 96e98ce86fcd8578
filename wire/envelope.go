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

package wire

import (
	"encoding/binary"
	"fmt"
)

// Envelope carries one OpenFlow message between the shim and the core.
// The payload length is always derived from Payload when encoding.
type Envelope struct {
	ModuleID      uint16
	TransactionID uint32
	DatapathID    uint64
	Payload       []byte
}

func (r *Envelope) Kind() FrameKind {
	return KindOpenFlow
}

func (r *Envelope) String() string {
	return fmt.Sprintf("Envelope(module=%v, xid=%v, dpid=%v, length=%v)", r.ModuleID, r.TransactionID, r.DatapathID, len(r.Payload))
}

func (r *Envelope) MarshalBinary() ([]byte, error) {
	if len(r.Payload) > MaxPayloadLength {
		return nil, malformed("too long payload: %v bytes", len(r.Payload))
	}

	offset := kindLength + EnvelopeHeaderLength
	v := make([]byte, offset+len(r.Payload))
	putHeader(v, KindOpenFlow, len(r.Payload), r.ModuleID, r.TransactionID)
	binary.BigEndian.PutUint64(v[9:17], r.DatapathID)
	copy(v[offset:], r.Payload)

	return v, nil
}

func decodeEnvelope(data []byte) (*Envelope, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	offset := kindLength + EnvelopeHeaderLength
	if len(data) < offset {
		return nil, malformed("truncated envelope header: %v bytes", len(data))
	}
	if err := checkPayload(data, offset, h.payloadLength); err != nil {
		return nil, err
	}

	payload := make([]byte, h.payloadLength)
	copy(payload, data[offset:])

	return &Envelope{
		ModuleID:      h.moduleID,
		TransactionID: h.xid,
		DatapathID:    binary.BigEndian.Uint64(data[9:17]),
		Payload:       payload,
	}, nil
}
