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
	"fmt"

	"github.com/pkg/errors"
)

const (
	OF10_VERSION = 0x01
	OF13_VERSION = 0x04

	// DefaultXID is the transaction ID of the HELLO and FEATURES_REQUEST
	// messages sent during the handshake.
	DefaultXID = 1

	// Type codes that are the same in every OpenFlow version.
	OFPT_HELLO        = 0x00
	OFPT_ERROR        = 0x01
	OFPT_ECHO_REQUEST = 0x02
	OFPT_ECHO_REPLY   = 0x03

	HeaderLength = 8
)

var (
	ErrInvalidPacketLength = errors.New("invalid packet length")
	ErrTrailingData        = errors.New("unexpected trailing data")
	ErrMismatchedMessage   = errors.New("mismatched message for the codec")
	ErrUnsupportedVersion  = errors.New("unsupported protocol version")
)

// SupportedVersions lists the OpenFlow versions that have codecs, highest first.
var SupportedVersions = []uint8{OF13_VERSION, OF10_VERSION}

func IsSupportedVersion(version uint8) bool {
	for _, v := range SupportedVersions {
		if v == version {
			return true
		}
	}

	return false
}

func VersionString(version uint8) string {
	switch version {
	case OF10_VERSION:
		return "1.0"
	case OF13_VERSION:
		return "1.3"
	default:
		return fmt.Sprintf("0x%02x", version)
	}
}

// UnsupportedError is returned when the registry has no codec for a message.
// Serialization misses are keyed by Kind, deserialization misses by the type
// code found on the wire.
type UnsupportedError struct {
	Version uint8
	Kind    Kind
	Type    uint8
	// Serialize is true when the miss happened on the write path.
	Serialize bool
}

func (r *UnsupportedError) Error() string {
	if r.Serialize {
		return fmt.Sprintf("unsupported message kind: version=%v, kind=%v", VersionString(r.Version), r.Kind)
	}
	return fmt.Sprintf("unsupported message kind: version=%v, type=%v", VersionString(r.Version), r.Type)
}

func IsUnsupported(err error) bool {
	var v *UnsupportedError
	return errors.As(err, &v)
}
