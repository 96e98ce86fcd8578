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
)

// Error types and codes that are identical in OpenFlow 1.0 and 1.3.
const (
	OFPET_HELLO_FAILED  = 0
	OFPET_BAD_REQUEST   = 1
	OFPHFC_INCOMPATIBLE = 0
	OFPHFC_EPERM        = 1
	OFPBRC_BAD_VERSION  = 0
	OFPBRC_BAD_TYPE     = 1
	OFPET_EXPERIMENTER  = 0xffff
	MaxErrorDataLength  = 64
)

// BaseError is the ofp_error_msg body shared by every version.
type BaseError struct {
	Header
	Class uint16
	Code  uint16
	Data  []byte
}

func (r *BaseError) ErrorClass() uint16 {
	return r.Class
}

func (r *BaseError) ErrorCode() uint16 {
	return r.Code
}

func (r *BaseError) ErrorData() []byte {
	return r.Data
}

func (r *BaseError) String() string {
	return fmt.Sprintf("OpenFlow error: class=%v, code=%v, data_length=%v", r.Class, r.Code, len(r.Data))
}

// TruncateErrorData returns at most the first MaxErrorDataLength bytes of data,
// which is what an error message should quote from the offending request.
func TruncateErrorData(data []byte) []byte {
	if len(data) > MaxErrorDataLength {
		data = data[:MaxErrorDataLength]
	}
	v := make([]byte, len(data))
	copy(v, data)

	return v
}
