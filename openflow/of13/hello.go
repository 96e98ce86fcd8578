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
	"github.com/pkg/errors"
)

const helloElementHeaderLength = 4

// HelloElement is one ofp_hello_elem_*. Bitmaps is set for
// OFPHET_VERSIONBITMAP, Data keeps the body of any other element type.
type HelloElement struct {
	Type    uint16
	Bitmaps []uint32
	Data    []byte
}

// NewVersionBitmap returns a version bitmap element announcing versions.
func NewVersionBitmap(versions ...uint8) HelloElement {
	var bitmaps []uint32
	for _, v := range versions {
		idx := int(v) / 32
		for len(bitmaps) <= idx {
			bitmaps = append(bitmaps, 0)
		}
		bitmaps[idx] |= 1 << (uint(v) % 32)
	}

	return HelloElement{Type: OFPHET_VERSIONBITMAP, Bitmaps: bitmaps}
}

type Hello struct {
	openflow.Header
	Elements []HelloElement
}

func NewHello(xid uint32) *Hello {
	return &Hello{Header: openflow.Header{Version: openflow.OF13_VERSION, XID: xid}}
}

func (r *Hello) Kind() openflow.Kind {
	return openflow.KindHello
}

// SupportedVersions returns the versions set in the first version bitmap
// element, in ascending order.
func (r *Hello) SupportedVersions() []uint8 {
	for _, e := range r.Elements {
		if e.Type != OFPHET_VERSIONBITMAP {
			continue
		}

		var versions []uint8
		for i, bitmap := range e.Bitmaps {
			for bit := uint(0); bit < 32; bit++ {
				if bitmap&(1<<bit) == 0 {
					continue
				}
				v := i*32 + int(bit)
				if v > 0xFF {
					break
				}
				versions = append(versions, uint8(v))
			}
		}
		return versions
	}

	return nil
}

func (r *Hello) marshal(buf *bytes.Buffer) error {
	for _, e := range r.Elements {
		offset := buf.Len()
		openflow.WriteUint16(buf, e.Type)
		openflow.WriteUint16(buf, 0)
		if e.Type == OFPHET_VERSIONBITMAP {
			for _, v := range e.Bitmaps {
				openflow.WriteUint32(buf, v)
			}
		} else {
			buf.Write(e.Data)
		}

		length := buf.Len() - offset
		if length > 0xFFFF {
			return errors.Wrap(openflow.ErrInvalidPacketLength, "too long hello element")
		}
		openflow.PatchUint16(buf, offset+2, uint16(length))
		// Elements are padded to a multiple of 8 bytes.
		openflow.WritePad(buf, (length+7)/8*8-length)
	}

	return nil
}

func (r *Hello) unmarshal(rd *openflow.Reader) {
	for rd.Err() == nil && rd.Remaining() > 0 {
		e := HelloElement{Type: rd.Uint16()}
		length := int(rd.Uint16())
		if length < helloElementHeaderLength {
			rd.Fail(errors.Wrapf(openflow.ErrInvalidPacketLength, "hello element length %v", length))
			return
		}

		body := rd.Sub(length - helloElementHeaderLength)
		if e.Type == OFPHET_VERSIONBITMAP {
			if body.Remaining()%4 != 0 {
				rd.Fail(errors.Wrapf(openflow.ErrInvalidPacketLength, "version bitmap length %v", body.Remaining()))
				return
			}
			for body.Remaining() > 0 {
				e.Bitmaps = append(e.Bitmaps, body.Uint32())
			}
		} else {
			e.Data = body.Rest()
		}
		if err := body.End(); err != nil {
			rd.Fail(err)
			return
		}
		r.Elements = append(r.Elements, e)

		// Some switches omit the padding of the last element.
		pad := (length+7)/8*8 - length
		if pad > rd.Remaining() {
			pad = rd.Remaining()
		}
		rd.Skip(pad)
	}
}
