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

package of10

import (
	"bytes"
	"net"

	"github.com/hashsdn/hashsdn-netide/openflow"
)

const portLength = 48

const (
	OFPPC_PORT_DOWN = 1 << 0
	OFPPS_LINK_DOWN = 1 << 0
)

type Port struct {
	Number uint16
	MAC    net.HardwareAddr
	Name   string
	// Bitmap of OFPPC_* flags
	Config uint32
	// Bitmap of OFPPS_* flags
	State uint32
	// Bitmaps of OFPPF_* that describe features. All bits zeroed if
	// unsupported or unavailable.
	Current, Advertised, Supported, Peer uint32
}

func (r *Port) IsPortDown() bool {
	return r.Config&OFPPC_PORT_DOWN != 0
}

func (r *Port) IsLinkDown() bool {
	return r.State&OFPPS_LINK_DOWN != 0
}

func (r *Port) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint16(buf, r.Number)
	if err := writeMAC(buf, r.MAC); err != nil {
		return err
	}
	openflow.WriteFixedString(buf, r.Name, OFP_MAX_PORT_NAME)
	openflow.WriteUint32(buf, r.Config)
	openflow.WriteUint32(buf, r.State)
	openflow.WriteUint32(buf, r.Current)
	openflow.WriteUint32(buf, r.Advertised)
	openflow.WriteUint32(buf, r.Supported)
	openflow.WriteUint32(buf, r.Peer)

	return nil
}

func readPort(r *openflow.Reader) Port {
	return Port{
		Number:     r.Uint16(),
		MAC:        net.HardwareAddr(r.Bytes(6)),
		Name:       r.FixedString(OFP_MAX_PORT_NAME),
		Config:     r.Uint32(),
		State:      r.Uint32(),
		Current:    r.Uint32(),
		Advertised: r.Uint32(),
		Supported:  r.Uint32(),
		Peer:       r.Uint32(),
	}
}

type PortStatus struct {
	openflow.Header
	Reason uint8
	Port   Port
}

func (r *PortStatus) Kind() openflow.Kind {
	return openflow.KindPortStatus
}

func (r *PortStatus) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint8(buf, r.Reason)
	openflow.WritePad(buf, 7)

	return r.Port.marshal(buf)
}

func (r *PortStatus) unmarshal(rd *openflow.Reader) {
	r.Reason = rd.Uint8()
	rd.Skip(7)
	r.Port = readPort(rd)
}
