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
	"encoding/binary"

	"github.com/pkg/errors"
)

// WriteHeader appends an ofp_header with a zero length placeholder and returns
// the offset of the header in buf. Call UpdateLength once the body is written.
func WriteHeader(buf *bytes.Buffer, version, msgType uint8, xid uint32) int {
	offset := buf.Len()
	buf.WriteByte(version)
	buf.WriteByte(msgType)
	WriteUint16(buf, 0)
	WriteUint32(buf, xid)

	return offset
}

// UpdateLength patches the length field of the header written at offset with
// the number of bytes written since.
func UpdateLength(buf *bytes.Buffer, offset int) error {
	length := buf.Len() - offset
	if length < HeaderLength || length > 0xFFFF {
		return errors.Wrapf(ErrInvalidPacketLength, "message length %v", length)
	}
	binary.BigEndian.PutUint16(buf.Bytes()[offset+2:offset+4], uint16(length))

	return nil
}

// PatchUint16 overwrites a 16-bit length placeholder of a nested structure.
func PatchUint16(buf *bytes.Buffer, offset int, v uint16) {
	binary.BigEndian.PutUint16(buf.Bytes()[offset:offset+2], v)
}

func WriteUint8(buf *bytes.Buffer, v uint8) {
	buf.WriteByte(v)
}

func WriteUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func WriteUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func WriteUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func WritePad(buf *bytes.Buffer, n int) {
	for i := 0; i < n; i++ {
		buf.WriteByte(0)
	}
}

// WriteFixedString writes s as a NUL padded string of exactly n bytes.
func WriteFixedString(buf *bytes.Buffer, s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	// Always keep the terminating NUL.
	b[n-1] = 0
	buf.Write(b)
}

// Reader consumes a byte slice in network byte order. The first error is
// sticky: every following read returns a zero value and Err reports it.
type Reader struct {
	data   []byte
	offset int
	err    error
}

// NewReader parses the ofp_header of data and returns a Reader positioned at
// the first body byte. The declared length must match len(data) exactly.
func NewReader(data []byte) (*Reader, RawHeader, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, RawHeader{}, err
	}
	if int(header.Length) != len(data) {
		return nil, RawHeader{}, errors.Wrapf(ErrInvalidPacketLength, "declared length %v, actual %v", header.Length, len(data))
	}

	return &Reader{data: data, offset: HeaderLength}, header, nil
}

// NewBodyReader returns a Reader over a nested structure without a header.
func NewBodyReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || len(r.data)-r.offset < n {
		r.err = errors.Wrapf(ErrInvalidPacketLength, "need %v bytes at offset %v, have %v", n, r.offset, len(r.data)-r.offset)
		return false
	}

	return true
}

func (r *Reader) Uint8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.offset]
	r.offset++

	return v
}

func (r *Reader) Uint16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.offset:])
	r.offset += 2

	return v
}

func (r *Reader) Uint32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.offset:])
	r.offset += 4

	return v
}

func (r *Reader) Uint64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.offset:])
	r.offset += 8

	return v
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := make([]byte, n)
	copy(v, r.data[r.offset:r.offset+n])
	r.offset += n

	return v
}

// FixedString reads a NUL padded string of n bytes.
func (r *Reader) FixedString(n int) string {
	b := r.Bytes(n)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

func (r *Reader) Skip(n int) {
	if !r.need(n) {
		return
	}
	r.offset += n
}

// Sub returns a Reader over the next n bytes and advances past them.
func (r *Reader) Sub(n int) *Reader {
	if !r.need(n) {
		return &Reader{err: r.err}
	}
	v := &Reader{data: r.data[r.offset : r.offset+n]}
	r.offset += n

	return v
}

// Rest returns a copy of every remaining byte.
func (r *Reader) Rest() []byte {
	if r.err != nil {
		return nil
	}
	return r.Bytes(r.Remaining())
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

func (r *Reader) Offset() int {
	return r.offset
}

// Fail records err unless an earlier error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) Err() error {
	return r.err
}

// End reports the sticky error, or ErrTrailingData if the input was not fully
// consumed.
func (r *Reader) End() error {
	if r.err != nil {
		return r.err
	}
	if n := r.Remaining(); n != 0 {
		return errors.Wrapf(ErrTrailingData, "%v bytes left", n)
	}

	return nil
}
