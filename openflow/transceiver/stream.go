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

package transceiver

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/hashsdn/hashsdn-netide/openflow"

	"github.com/pkg/errors"
)

// Stream is a buffered OpenFlow message channel over a socket.
type Stream struct {
	// Underlying socket.
	channel io.ReadWriteCloser

	reader struct {
		mutex sync.Mutex
		// Buffered reader on the underlying socket.
		//
		// NOTE:
		// rd needs locking, otherwise Peek()'s result slice can be
		// corrupted by subsequent ReadN() calls because the result
		// slice is just a pointer to the reader's internal buffer.
		rd        *bufio.Reader
		timeout   time.Duration
		timestamp time.Time
	}

	writer struct {
		mutex     sync.Mutex
		wr        io.Writer
		timeout   time.Duration
		timestamp time.Time
	}
}

type deadline interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// NewStream returns a new buffered channel. The buffer should be able to hold
// the largest OpenFlow message, 64KB.
func NewStream(channel io.ReadWriteCloser, bufSize int) *Stream {
	if bufSize < 0xFFFF {
		bufSize = 0xFFFF
	}

	c := new(Stream)
	c.channel = channel
	c.reader.rd = bufio.NewReaderSize(channel, bufSize)
	c.writer.wr = channel

	return c
}

type dummyAddr struct{}

func (r dummyAddr) Network() string {
	return "DummyAddress"
}

func (r dummyAddr) String() string {
	return "unknown"
}

func (r *Stream) RemoteAddr() net.Addr {
	type addr interface {
		RemoteAddr() net.Addr
	}

	v, ok := r.channel.(addr)
	if !ok {
		return dummyAddr{}
	}

	return v.RemoteAddr()
}

// SetReadTimeout sets read timeout of the underlying socket if it implements deadline interface.
func (r *Stream) SetReadTimeout(t time.Duration) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	r.reader.timeout = t
}

// SetWriteTimeout sets write timeout of the underlying socket if it implements deadline interface.
func (r *Stream) SetWriteTimeout(t time.Duration) {
	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	r.writer.timeout = t
}

// NOTE: The caller should lock the reader mutex before calling this function.
func (r *Stream) setReadDeadline() {
	// Directly use the underlying socket, instead of the reader, to set I/O timeout.
	d, ok := r.channel.(deadline)
	if !ok {
		return
	}

	if r.reader.timeout > 0 {
		d.SetReadDeadline(time.Now().Add(r.reader.timeout))
	} else {
		d.SetReadDeadline(time.Time{})
	}
}

// ReadMessage reads one complete OpenFlow message, header included. A read
// timeout leaves any partially received message in the buffer.
func (r *Stream) ReadMessage() ([]byte, error) {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	r.setReadDeadline()

	header, err := r.reader.rd.Peek(openflow.HeaderLength)
	if err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(header[2:4]))
	if length < openflow.HeaderLength {
		return nil, errors.Wrapf(openflow.ErrInvalidPacketLength, "declared length %v", length)
	}

	// Wait until we have the whole message in the reader or timeout.
	if _, err := r.reader.rd.Peek(length); err != nil {
		return nil, err
	}

	p := make([]byte, length)
	if _, err := io.ReadFull(r.reader.rd, p); err != nil {
		return nil, err
	}
	r.reader.timestamp = time.Now()

	return p, nil
}

// LastRead returns the timestamp of the last successful ReadMessage.
func (r *Stream) LastRead() time.Time {
	r.reader.mutex.Lock()
	defer r.reader.mutex.Unlock()

	return r.reader.timestamp
}

// Write is a wrapper function of net.Conn.Write().
func (r *Stream) Write(p []byte) (n int, err error) {
	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	r.setWriteDeadline()
	n, err = r.writer.wr.Write(p)
	if err != nil {
		return n, err
	}
	r.writer.timestamp = time.Now()

	return n, nil
}

// NOTE: The caller should lock the writer mutex before calling this function.
func (r *Stream) setWriteDeadline() {
	d, ok := r.channel.(deadline)
	if !ok {
		return
	}

	if r.writer.timeout > 0 {
		d.SetWriteDeadline(time.Now().Add(r.writer.timeout))
	} else {
		d.SetWriteDeadline(time.Time{})
	}
}

// LastWrite returns the timestamp of the last successful write operation.
func (r *Stream) LastWrite() time.Time {
	r.writer.mutex.Lock()
	defer r.writer.mutex.Unlock()

	return r.writer.timestamp
}

// Close is a wrapper function of net.Conn.Close().
func (r *Stream) Close() error {
	return r.channel.Close()
}
