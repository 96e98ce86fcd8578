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
	"strings"

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/of10"
	"github.com/hashsdn/hashsdn-netide/openflow/of13"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// describeFrame summarizes the layers of an Ethernet frame for debug logs.
func describeFrame(data []byte) string {
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.DecodeOptions{Lazy: true, NoCopy: true})

	var v []string
	if l := pkt.Layer(layers.LayerTypeEthernet); l != nil {
		eth := l.(*layers.Ethernet)
		v = append(v, fmt.Sprintf("eth %v>%v type=%v", eth.SrcMAC, eth.DstMAC, eth.EthernetType))
	}
	if l := pkt.Layer(layers.LayerTypeARP); l != nil {
		arp := l.(*layers.ARP)
		v = append(v, fmt.Sprintf("arp op=%v", arp.Operation))
	}
	if l := pkt.Layer(layers.LayerTypeIPv4); l != nil {
		ip := l.(*layers.IPv4)
		v = append(v, fmt.Sprintf("ipv4 %v>%v proto=%v", ip.SrcIP, ip.DstIP, ip.Protocol))
	}
	if l := pkt.Layer(layers.LayerTypeIPv6); l != nil {
		ip := l.(*layers.IPv6)
		v = append(v, fmt.Sprintf("ipv6 %v>%v next=%v", ip.SrcIP, ip.DstIP, ip.NextHeader))
	}
	if l := pkt.Layer(layers.LayerTypeLinkLayerDiscovery); l != nil {
		v = append(v, "lldp")
	}
	if err := pkt.ErrorLayer(); err != nil {
		v = append(v, fmt.Sprintf("undecodable: %v", err.Error()))
	}
	if len(v) == 0 {
		return fmt.Sprintf("%v bytes", len(data))
	}

	return strings.Join(v, ", ")
}

// describePacket returns the frame summary of a PACKET_IN or PACKET_OUT, or
// an empty string for any other message.
func describePacket(registry *openflow.Registry, packet []byte) string {
	header, err := openflow.ParseHeader(packet)
	if err != nil {
		return ""
	}
	if !carriesFrame(header) {
		return ""
	}

	msg, err := registry.Decode(packet)
	if err != nil {
		return ""
	}
	p, ok := msg.(openflow.PacketData)
	if !ok || len(p.Frame()) == 0 {
		return ""
	}

	return fmt.Sprintf(" [%v]", describeFrame(p.Frame()))
}

func carriesFrame(header openflow.RawHeader) bool {
	switch header.Version {
	case openflow.OF10_VERSION:
		return header.Type == of10.OFPT_PACKET_IN || header.Type == of10.OFPT_PACKET_OUT
	case openflow.OF13_VERSION:
		return header.Type == of13.OFPT_PACKET_IN || header.Type == of13.OFPT_PACKET_OUT
	default:
		return false
	}
}

// describeError formats an OpenFlow ERROR message for logs.
func describeError(registry *openflow.Registry, packet []byte) string {
	msg, err := registry.Decode(packet)
	if err != nil {
		return fmt.Sprintf("undecodable: %v", err)
	}
	e, ok := msg.(openflow.Error)
	if !ok {
		return fmt.Sprintf("unexpected %v", msg.Kind())
	}

	return fmt.Sprintf("class=%v, code=%v, data=%x", e.ErrorClass(), e.ErrorCode(), e.ErrorData())
}
