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
	"testing"

	"github.com/hashsdn/hashsdn-netide/openflow"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

func newRegistry() *openflow.Registry {
	b := openflow.NewRegistryBuilder()
	Register(b)

	return b.Build()
}

func header(xid uint32) openflow.Header {
	return openflow.Header{Version: openflow.OF13_VERSION, XID: xid}
}

func TestCodecRoundTrip(t *testing.T) {
	match := NewMatch()
	match.AddBasic(OFPXMT_OFB_IN_PORT, []byte{0x00, 0x00, 0x00, 0x03})
	match.Fields = append(match.Fields, OXM{
		Class:   OFPXMC_OPENFLOW_BASIC,
		Field:   OFPXMT_OFB_IPV4_DST,
		HasMask: true,
		Value:   []byte{10, 0, 0, 0},
		Mask:    []byte{255, 255, 255, 0},
	})

	flowMod := NewFlowMod(9, OFPFC_ADD)
	flowMod.Match = *match
	flowMod.Priority = 100
	flowMod.Instructions = []byte{0x00, 0x04, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00}

	packetOut := NewPacketOut(10)
	packetOut.Actions = []byte{0x00, 0x00, 0x00, 0x10, 0xff, 0xff, 0xff, 0xfb, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	packetOut.Data = []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x08, 0x06}

	hello := NewHello(1)
	hello.Elements = []HelloElement{NewVersionBitmap(openflow.OF10_VERSION, openflow.OF13_VERSION)}

	port := Port{
		Number:       1,
		MAC:          net.HardwareAddr{0x00, 0x01, 0x02, 0x03, 0x04, 0x05},
		Name:         "eth1",
		CurrentSpeed: 1000000,
		MaxSpeed:     1000000,
	}

	samples := []openflow.Message{
		NewHello(1),
		hello,
		NewError(2, openflow.OFPET_HELLO_FAILED, openflow.OFPHFC_INCOMPATIBLE, []byte("no common version")),
		&EchoRequest{BaseEcho: openflow.BaseEcho{Header: header(3), Data: []byte("ping")}},
		&EchoReply{BaseEcho: openflow.BaseEcho{Header: header(3)}},
		&Experimenter{Header: header(4), Experimenter: 0x4f4e4600, Type: 1, Data: []byte{0x01}},
		NewFeaturesRequest(5),
		&FeaturesReply{Header: header(5), DPID: 1, Buffers: 256, Tables: 254, AuxID: 0, Capabilities: OFPC_FLOW_STATS | OFPC_PORT_STATS},
		NewGetConfigRequest(6),
		&GetConfigReply{Header: header(6), Config: Config{Flags: OFPC_FRAG_DROP, MissSendLength: 128}},
		NewSetConfig(7),
		&PacketIn{Header: header(0), BufferID: OFP_NO_BUFFER, Length: 14, Reason: OFPR_NO_MATCH, TableID: 0, Cookie: 0xffffffffffffffff, Match: *match, Data: packetOut.Data},
		&FlowRemoved{Header: header(0), Cookie: 7, Priority: 1, Reason: 0, TableID: 1, DurationSec: 30, PacketCount: 10, ByteCount: 1000, Match: *NewMatch()},
		&PortStatus{Header: header(0), Reason: OFPPR_ADD, Port: port},
		packetOut,
		flowMod,
		NewMultipartRequest(11, OFPMP_PORT_DESC, nil),
		&MultipartReply{Header: header(11), Type: OFPMP_DESC, Flags: OFPMPF_REPLY_MORE, Body: []byte{0x01, 0x02}},
		NewBarrierRequest(12),
		&BarrierReply{Header: header(12)},
		NewQueueGetConfigRequest(13, 2),
		&QueueGetConfigReply{
			Header: header(13),
			Port:   2,
			Queues: []openflow.PacketQueue{
				{
					ID:   1,
					Port: 2,
					Properties: []openflow.QueueProperty{
						{Type: openflow.OFPQT_MAX_RATE, Rate: 900},
						{Type: openflow.OFPQT_EXPERIMENTER, Experimenter: 0x2320, Data: []byte{0x01, 0x02, 0x03, 0x04}},
					},
				},
			},
		},
		&RoleRequest{Header: header(14), RoleConfig: RoleConfig{Role: OFPCR_ROLE_MASTER, GenerationID: 42}},
		&RoleReply{Header: header(14), RoleConfig: RoleConfig{Role: OFPCR_ROLE_MASTER, GenerationID: 42}},
		&GetAsyncRequest{Header: header(15)},
		&GetAsyncReply{Header: header(15), AsyncConfig: AsyncConfig{PacketInMask: [2]uint32{3, 0}, PortStatusMask: [2]uint32{7, 7}, FlowRemovedMask: [2]uint32{15, 0}}},
		&SetAsync{Header: header(16), AsyncConfig: AsyncConfig{PacketInMask: [2]uint32{1, 1}}},
	}

	reg := newRegistry()
	for _, msg := range samples {
		data, err := reg.Serialize(openflow.OF13_VERSION, msg)
		if err != nil {
			t.Fatalf("failed to serialize %v: %v", msg.Kind(), err)
		}

		// Check the patched length independently of the codec.
		h, err := openflow.ParseHeader(data)
		if err != nil {
			t.Fatalf("failed to parse the header of %v: %v", msg.Kind(), err)
		}
		if int(h.Length) != len(data) {
			t.Fatalf("unexpected length of %v: header=%v, actual=%v", msg.Kind(), h.Length, len(data))
		}
		if h.Version != openflow.OF13_VERSION || h.XID != msg.TransactionID() {
			t.Fatalf("unexpected header of %v: %v", msg.Kind(), h)
		}

		decoded, err := reg.Deserialize(openflow.OF13_VERSION, h.Type, data)
		if err != nil {
			t.Fatalf("failed to deserialize %v: %v", msg.Kind(), err)
		}
		if !cmp.Equal(msg, decoded, cmpopts.EquateEmpty()) {
			t.Fatalf("unexpected decoded %v: expected=%v, actual=%v, diff=%v", msg.Kind(), spew.Sdump(msg), spew.Sdump(decoded), cmp.Diff(msg, decoded, cmpopts.EquateEmpty()))
		}
	}
}

func TestHelloVersionBitmap(t *testing.T) {
	hello := NewHello(1)
	hello.Elements = []HelloElement{NewVersionBitmap(openflow.OF10_VERSION, openflow.OF13_VERSION)}

	data, err := newRegistry().Serialize(openflow.OF13_VERSION, hello)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []byte{
		0x04, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01,
		// Bitmap element of 8 bytes: bits 1 and 4.
		0x00, 0x01, 0x00, 0x08, 0x00, 0x00, 0x00, 0x12,
	}
	if !bytes.Equal(data, expected) {
		t.Fatalf("unexpected bytes: expected=%x, actual=%x", expected, data)
	}

	if diff := cmp.Diff([]uint8{openflow.OF10_VERSION, openflow.OF13_VERSION}, hello.SupportedVersions()); diff != "" {
		t.Fatalf("unexpected supported versions: %v", diff)
	}
	if v := NewHello(2).SupportedVersions(); v != nil {
		t.Fatalf("expected no versions without a bitmap, got %v", v)
	}
}

func TestHelloWithoutLastPadding(t *testing.T) {
	// Unknown element type 0x7 with a 5 byte length and no trailing padding.
	data := []byte{
		0x04, 0x00, 0x00, 0x0d, 0x00, 0x00, 0x00, 0x05,
		0x00, 0x07, 0x00, 0x05, 0xaa,
	}

	msg, err := newRegistry().Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := &Hello{
		Header:   header(5),
		Elements: []HelloElement{{Type: 0x7, Data: []byte{0xaa}}},
	}
	if diff := cmp.Diff(expected, msg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("unexpected hello: %v", diff)
	}
}

func TestMatchPadding(t *testing.T) {
	m := NewMatch()
	m.AddBasic(OFPXMT_OFB_IN_PORT, []byte{0x00, 0x00, 0x00, 0x01})

	buf := new(bytes.Buffer)
	if err := m.marshal(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []byte{
		0x00, 0x01, 0x00, 0x0c,
		0x80, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Fatalf("unexpected bytes: expected=%x, actual=%x", expected, buf.Bytes())
	}

	port, ok := m.InPort()
	if !ok || port != 1 {
		t.Fatalf("unexpected in port: %v (%v)", port, ok)
	}
}

func TestDecodeErrors(t *testing.T) {
	samples := []struct {
		Name     string
		Data     []byte
		Expected error
	}{
		{
			Name: "features reply with a trailing byte",
			Data: []byte{
				0x04, 0x06, 0x00, 0x21, 0x00, 0x00, 0x00, 0x01,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
				0x00, 0x00, 0x01, 0x00, 0xfe, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0xff,
			},
			Expected: openflow.ErrTrailingData,
		},
		{
			Name:     "hello element shorter than its header",
			Data:     []byte{0x04, 0x00, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x02},
			Expected: openflow.ErrInvalidPacketLength,
		},
		{
			Name:     "truncated role request",
			Data:     []byte{0x04, 0x18, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02},
			Expected: openflow.ErrInvalidPacketLength,
		},
	}

	reg := newRegistry()
	for _, v := range samples {
		msg, err := reg.Decode(v.Data)
		if errors.Cause(err) != v.Expected {
			t.Fatalf("%v: unexpected error: expected=%v, actual=%v", v.Name, v.Expected, err)
		}
		if msg != nil {
			t.Fatalf("%v: expected no message, got %v", v.Name, spew.Sdump(msg))
		}
	}
}

func TestVersionMismatch(t *testing.T) {
	reg := newRegistry()
	// An OpenFlow 1.0 barrier request has no OpenFlow 1.3 codec.
	if _, err := reg.Decode([]byte{0x01, 0x12, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01}); !openflow.IsUnsupported(err) {
		t.Fatalf("expected an unsupported error, got %v", err)
	}
	// Type 18 is a multipart request in OpenFlow 1.3, so feeding it an
	// OpenFlow 1.0 header must fail the version check.
	_, err := reg.Deserialize(openflow.OF13_VERSION, OFPT_MULTIPART_REQUEST, []byte{0x01, 0x12, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01})
	if errors.Cause(err) != openflow.ErrMismatchedMessage {
		t.Fatalf("expected ErrMismatchedMessage, got %v", err)
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	hello, err := f.NewHello()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hello.TransactionID() != 1 || hello.ProtocolVersion() != openflow.OF13_VERSION {
		t.Fatalf("unexpected hello header: xid=%v, version=%v", hello.TransactionID(), hello.ProtocolVersion())
	}

	req, err := f.NewPortDescRequest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TransactionID() != 2 || req.Type != OFPMP_PORT_DESC {
		t.Fatalf("unexpected port description request: %v", spew.Sdump(req))
	}
}
