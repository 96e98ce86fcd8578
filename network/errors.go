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

package network

import (
	"fmt"

	"github.com/pkg/errors"
)

// UnknownDatapathError is returned when the core addresses a datapath that
// has no registered connection, typically a late message after a disconnect.
type UnknownDatapathError struct {
	DPID uint64
}

func (r *UnknownDatapathError) Error() string {
	return fmt.Sprintf("unknown datapath: DPID=%v", r.DPID)
}

// HandshakeError is returned when a connection cannot be promoted to the
// established state.
type HandshakeError struct {
	Conn   string
	Reason string
	Cause  error
}

func (r *HandshakeError) Error() string {
	if r.Cause == nil {
		return fmt.Sprintf("handshake failure on %v: %v", r.Conn, r.Reason)
	}
	return fmt.Sprintf("handshake failure on %v: %v: %v", r.Conn, r.Reason, r.Cause)
}

func (r *HandshakeError) Unwrap() error {
	return r.Cause
}

// ProtocolViolationError is returned for a message that arrives in a state
// that does not expect it.
type ProtocolViolationError struct {
	Conn   string
	State  State
	Reason string
}

func (r *ProtocolViolationError) Error() string {
	return fmt.Sprintf("protocol violation on %v (state=%v): %v", r.Conn, r.State, r.Reason)
}

func IsUnknownDatapath(err error) bool {
	var v *UnknownDatapathError
	return errors.As(err, &v)
}

func IsHandshakeFailure(err error) bool {
	var v *HandshakeError
	return errors.As(err, &v)
}

func IsProtocolViolation(err error) bool {
	var v *ProtocolViolationError
	return errors.As(err, &v)
}
