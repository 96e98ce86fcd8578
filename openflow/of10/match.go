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
	"github.com/pkg/errors"
)

const matchLength = 40

// Match is the fixed 40 byte ofp_match. Wildcards is the raw OFPFW_* bitmap;
// the source and destination IP wildcard bit counts live inside it.
type Match struct {
	Wildcards    uint32
	InPort       uint16
	SrcMAC       net.HardwareAddr
	DstMAC       net.HardwareAddr
	VLANID       uint16
	VLANPriority uint8
	EtherType    uint16
	TOS          uint8
	Protocol     uint8
	SrcIP        net.IP
	DstIP        net.IP
	SrcPort      uint16
	DstPort      uint16
}

// NewMatch returns a Match whose fields are all wildcarded.
func NewMatch() *Match {
	return &Match{
		Wildcards: OFPFW_ALL,
		SrcMAC:    make(net.HardwareAddr, 6),
		DstMAC:    make(net.HardwareAddr, 6),
		SrcIP:     net.IPv4zero.To4(),
		DstIP:     net.IPv4zero.To4(),
	}
}

func writeMAC(buf *bytes.Buffer, mac net.HardwareAddr) error {
	if mac == nil {
		openflow.WritePad(buf, 6)
		return nil
	}
	if len(mac) != 6 {
		return errors.Errorf("invalid MAC address: %v", mac)
	}
	buf.Write(mac)

	return nil
}

func writeIPv4(buf *bytes.Buffer, ip net.IP) error {
	if ip == nil {
		openflow.WritePad(buf, 4)
		return nil
	}
	v := ip.To4()
	if v == nil {
		return errors.Errorf("not an IPv4 address: %v", ip)
	}
	buf.Write(v)

	return nil
}

func (r *Match) marshal(buf *bytes.Buffer) error {
	openflow.WriteUint32(buf, r.Wildcards)
	openflow.WriteUint16(buf, r.InPort)
	if err := writeMAC(buf, r.SrcMAC); err != nil {
		return err
	}
	if err := writeMAC(buf, r.DstMAC); err != nil {
		return err
	}
	openflow.WriteUint16(buf, r.VLANID)
	openflow.WriteUint8(buf, r.VLANPriority)
	openflow.WritePad(buf, 1)
	openflow.WriteUint16(buf, r.EtherType)
	openflow.WriteUint8(buf, r.TOS)
	openflow.WriteUint8(buf, r.Protocol)
	openflow.WritePad(buf, 2)
	if err := writeIPv4(buf, r.SrcIP); err != nil {
		return err
	}
	if err := writeIPv4(buf, r.DstIP); err != nil {
		return err
	}
	openflow.WriteUint16(buf, r.SrcPort)
	openflow.WriteUint16(buf, r.DstPort)

	return nil
}

func readMatch(r *openflow.Reader) Match {
	m := Match{}
	m.Wildcards = r.Uint32()
	m.InPort = r.Uint16()
	m.SrcMAC = net.HardwareAddr(r.Bytes(6))
	m.DstMAC = net.HardwareAddr(r.Bytes(6))
	m.VLANID = r.Uint16()
	m.VLANPriority = r.Uint8()
	r.Skip(1)
	m.EtherType = r.Uint16()
	m.TOS = r.Uint8()
	m.Protocol = r.Uint8()
	r.Skip(2)
	m.SrcIP = net.IP(r.Bytes(4))
	m.DstIP = net.IP(r.Bytes(4))
	m.SrcPort = r.Uint16()
	m.DstPort = r.Uint16()

	return m
}

// SrcIPWildcard returns the number of least significant source IP bits that
// are wildcarded. 32 and higher wildcard the entire field.
func (r *Match) SrcIPWildcard() uint8 {
	return uint8((r.Wildcards >> 8) & 0x3F)
}

func (r *Match) DstIPWildcard() uint8 {
	return uint8((r.Wildcards >> 14) & 0x3F)
}
