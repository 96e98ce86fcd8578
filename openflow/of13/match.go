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
	"encoding/binary"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/pkg/errors"
)

const (
	OFPMT_STANDARD = 0
	OFPMT_OXM      = 1
)

const (
	OFPXMC_NXM_0          = 0x0000
	OFPXMC_NXM_1          = 0x0001
	OFPXMC_OPENFLOW_BASIC = 0x8000
	OFPXMC_EXPERIMENTER   = 0xffff
)

const (
	OFPXMT_OFB_IN_PORT = iota
	OFPXMT_OFB_IN_PHY_PORT
	OFPXMT_OFB_METADATA
	OFPXMT_OFB_ETH_DST
	OFPXMT_OFB_ETH_SRC
	OFPXMT_OFB_ETH_TYPE
	OFPXMT_OFB_VLAN_VID
	OFPXMT_OFB_VLAN_PCP
	OFPXMT_OFB_IP_DSCP
	OFPXMT_OFB_IP_ECN
	OFPXMT_OFB_IP_PROTO
	OFPXMT_OFB_IPV4_SRC
	OFPXMT_OFB_IPV4_DST
	OFPXMT_OFB_TCP_SRC
	OFPXMT_OFB_TCP_DST
	OFPXMT_OFB_UDP_SRC
	OFPXMT_OFB_UDP_DST
)

const matchHeaderLength = 4

// OXM is one TLV of an OXM match. Mask is only present when HasMask is set
// and then has the same length as Value.
type OXM struct {
	Class   uint16
	Field   uint8
	HasMask bool
	Value   []byte
	Mask    []byte
}

type Match struct {
	Type   uint16
	Fields []OXM
}

// NewMatch returns an empty OXM match that matches every packet.
func NewMatch() *Match {
	return &Match{Type: OFPMT_OXM}
}

// AddBasic appends an OFPXMC_OPENFLOW_BASIC field without a mask.
func (r *Match) AddBasic(field uint8, value []byte) {
	r.Fields = append(r.Fields, OXM{Class: OFPXMC_OPENFLOW_BASIC, Field: field, Value: value})
}

// Basic returns the value of an OFPXMC_OPENFLOW_BASIC field.
func (r *Match) Basic(field uint8) ([]byte, bool) {
	for _, f := range r.Fields {
		if f.Class == OFPXMC_OPENFLOW_BASIC && f.Field == field {
			return f.Value, true
		}
	}

	return nil, false
}

// InPort returns the OFPXMT_OFB_IN_PORT value if the match has one.
func (r *Match) InPort() (uint32, bool) {
	v, ok := r.Basic(OFPXMT_OFB_IN_PORT)
	if !ok || len(v) != 4 {
		return 0, false
	}

	return binary.BigEndian.Uint32(v), true
}

func (r *Match) marshal(buf *bytes.Buffer) error {
	offset := buf.Len()
	openflow.WriteUint16(buf, r.Type)
	openflow.WriteUint16(buf, 0)

	for _, f := range r.Fields {
		length := len(f.Value)
		fieldAndMask := f.Field << 1
		if f.HasMask {
			if len(f.Mask) != len(f.Value) {
				return errors.Errorf("mismatched OXM mask length: field=%v", f.Field)
			}
			length *= 2
			fieldAndMask |= 1
		}
		if length > 0xFF {
			return errors.Errorf("too long OXM value: field=%v", f.Field)
		}
		openflow.WriteUint16(buf, f.Class)
		openflow.WriteUint8(buf, fieldAndMask)
		openflow.WriteUint8(buf, uint8(length))
		buf.Write(f.Value)
		if f.HasMask {
			buf.Write(f.Mask)
		}
	}

	length := buf.Len() - offset
	if length > 0xFFFF {
		return errors.Wrap(openflow.ErrInvalidPacketLength, "too long match")
	}
	// The length excludes the trailing padding.
	openflow.PatchUint16(buf, offset+2, uint16(length))
	openflow.WritePad(buf, (length+7)/8*8-length)

	return nil
}

func readMatch(rd *openflow.Reader) Match {
	m := Match{Type: rd.Uint16()}
	length := int(rd.Uint16())
	if length < matchHeaderLength {
		rd.Fail(errors.Wrapf(openflow.ErrInvalidPacketLength, "match length %v", length))
		return m
	}

	body := rd.Sub(length - matchHeaderLength)
	for body.Err() == nil && body.Remaining() > 0 {
		f := OXM{Class: body.Uint16()}
		fieldAndMask := body.Uint8()
		n := int(body.Uint8())
		f.Field = fieldAndMask >> 1
		f.HasMask = fieldAndMask&1 == 1
		if f.HasMask {
			if n%2 != 0 {
				body.Fail(errors.Errorf("odd OXM length with mask: field=%v", f.Field))
				break
			}
			f.Value = body.Bytes(n / 2)
			f.Mask = body.Bytes(n / 2)
		} else {
			f.Value = body.Bytes(n)
		}
		if body.Err() == nil {
			m.Fields = append(m.Fields, f)
		}
	}
	if err := body.End(); err != nil {
		rd.Fail(err)
		return m
	}
	rd.Skip((length+7)/8*8 - length)

	return m
}
