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

// Package core is the message queue channel toward the NetIDE core.
package core

import (
	"context"
	"sync"
	"time"

	"github.com/hashsdn/hashsdn-netide/wire"

	"github.com/go-zeromq/zmq4"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	logger = logging.MustGetLogger("core")
)

var ErrClosed = errors.New("core channel is closed")

const dialRetryInterval = 1 * time.Second

// Socket is the part of a ZeroMQ socket used by the channel.
type Socket interface {
	Send(msg zmq4.Msg) error
	Recv() (zmq4.Msg, error)
	Close() error
}

// Handler is called with every frame received from the core.
type Handler interface {
	OnFrame(frame []byte)
}

// Channel is a single logical pipe to the core. ZeroMQ sockets are not safe
// for concurrent use, so every write goes through one mutex.
type Channel struct {
	mutex  sync.Mutex
	socket Socket
	closed bool
}

// Dial connects a DEALER socket with the given identity to endpoint, e.g.
// tcp://127.0.0.1:5555. The socket reconnects by itself until ctx is done.
func Dial(ctx context.Context, endpoint, identity string) (*Channel, error) {
	sock := zmq4.NewDealer(ctx,
		zmq4.WithID(zmq4.SocketIdentity(identity)),
		zmq4.WithDialerRetry(dialRetryInterval),
	)
	if err := sock.Dial(endpoint); err != nil {
		sock.Close()
		return nil, errors.Wrapf(err, "dialing the core at %v", endpoint)
	}
	logger.Infof("connected to the core: endpoint=%v, identity=%v", endpoint, identity)

	return NewChannel(sock), nil
}

func NewChannel(socket Socket) *Channel {
	if socket == nil {
		panic("socket is nil")
	}

	return &Channel{socket: socket}
}

// SendFrame writes one frame to the core.
func (r *Channel) SendFrame(frame []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return ErrClosed
	}
	if err := r.socket.Send(zmq4.NewMsg(frame)); err != nil {
		return errors.Wrap(err, "sending a frame to the core")
	}

	return nil
}

// Send encodes f and writes it to the core.
func (r *Channel) Send(f wire.Frame) error {
	frame, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	return r.SendFrame(frame)
}

// Run delivers received frames to handler until ctx is done or the socket
// fails. Frames are delivered one by one in the order received.
func (r *Channel) Run(ctx context.Context, handler Handler) error {
	if handler == nil {
		panic("handler is nil")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblock Recv.
			r.Close()
		case <-done:
		}
	}()

	for {
		msg, err := r.socket.Recv()
		if err != nil {
			if ctx.Err() != nil || r.isClosed() {
				logger.Info("core channel is closed")
				return nil
			}
			return errors.Wrap(err, "receiving a frame from the core")
		}

		for _, frame := range msg.Frames {
			// Skip the empty delimiter frame a REQ style peer may add.
			if len(frame) == 0 {
				continue
			}
			handler.OnFrame(frame)
		}
	}
}

// RunHeartbeat sends a HEARTBEAT frame every interval until ctx is done.
func (r *Channel) RunHeartbeat(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Send(&wire.Heartbeat{}); err != nil {
				if errors.Cause(err) == ErrClosed {
					return
				}
				logger.Warningf("failed to send a heartbeat: %v", err)
			}
		}
	}
}

func (r *Channel) isClosed() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.closed
}

func (r *Channel) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	return r.socket.Close()
}
