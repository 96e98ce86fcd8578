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
	"net"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/pkg/errors"
)

const portLength = 64

const (
	OFPPC_PORT_DOWN = 1 << 0
	OFPPS_LINK_DOWN = 1 << 0
)

const (
	OFPPR_ADD = iota
	OFPPR_DELETE
	OFPPR_MODIFY
)

type Port struct {
	Number     uint32
	MAC        net.HardwareAddr
	Name       string
	Config     uint32
	State      uint32
	Current    uint32
	Advertised uint32
	Supported  uint32
	Peer       uint32
	// Speeds in kbps
	CurrentSpeed uint32
	MaxSpeed     uint32
}

func (r *Port) IsPortDown() bool {
	return r.Config&OFPPC_PORT_DOWN != 0
}

func (r *Port) IsLinkDown() bool {
	return r.State&OFPPS_LINK_DOWN != 0
}

func (r *Port) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint32(buf, r.Number)
	openflow.WritePad(buf, 4)
	switch {
	case r.MAC == nil:
		openflow.WritePad(buf, 6)
	case len(r.MAC) == 6:
		buf.Write(r.MAC)
	default:
		return errors.Errorf("invalid MAC address: %v", r.MAC)
	}
	openflow.WritePad(buf, 2)
	openflow.WriteFixedString(buf, r.Name, OFP_MAX_PORT_NAME)
	openflow.WriteUint32(buf, r.Config)
	openflow.WriteUint32(buf, r.State)
	openflow.WriteUint32(buf, r.Current)
	openflow.WriteUint32(buf, r.Advertised)
	openflow.WriteUint32(buf, r.Supported)
	openflow.WriteUint32(buf, r.Peer)
	openflow.WriteUint32(buf, r.CurrentSpeed)
	openflow.WriteUint32(buf, r.MaxSpeed)

	return nil
}

func readPort(rd *openflow.Reader) Port {
	p := Port{Number: rd.Uint32()}
	rd.Skip(4)
	p.MAC = net.HardwareAddr(rd.Bytes(6))
	rd.Skip(2)
	p.Name = rd.FixedString(OFP_MAX_PORT_NAME)
	p.Config = rd.Uint32()
	p.State = rd.Uint32()
	p.Current = rd.Uint32()
	p.Advertised = rd.Uint32()
	p.Supported = rd.Uint32()
	p.Peer = rd.Uint32()
	p.CurrentSpeed = rd.Uint32()
	p.MaxSpeed = rd.Uint32()

	return p
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
