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

	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/pkg/errors"
)

type message interface {
	openflow.Message
	SetProtocolVersion(version uint8)
	marshal(buf *bytes.Buffer) error
	unmarshal(rd *openflow.Reader)
}

type codec struct {
	msgType uint8
	kind    openflow.Kind
	alloc   func() message
}

var codecs = []codec{
	{OFPT_HELLO, openflow.KindHello, func() message { return new(Hello) }},
	{OFPT_ERROR, openflow.KindError, func() message { return new(Error) }},
	{OFPT_ECHO_REQUEST, openflow.KindEchoRequest, func() message { return new(EchoRequest) }},
	{OFPT_ECHO_REPLY, openflow.KindEchoReply, func() message { return new(EchoReply) }},
	{OFPT_EXPERIMENTER, openflow.KindExperimenter, func() message { return new(Experimenter) }},
	{OFPT_FEATURES_REQUEST, openflow.KindFeaturesRequest, func() message { return new(FeaturesRequest) }},
	{OFPT_FEATURES_REPLY, openflow.KindFeaturesReply, func() message { return new(FeaturesReply) }},
	{OFPT_GET_CONFIG_REQUEST, openflow.KindGetConfigRequest, func() message { return new(GetConfigRequest) }},
	{OFPT_GET_CONFIG_REPLY, openflow.KindGetConfigReply, func() message { return new(GetConfigReply) }},
	{OFPT_SET_CONFIG, openflow.KindSetConfig, func() message { return new(SetConfig) }},
	{OFPT_PACKET_IN, openflow.KindPacketIn, func() message { return new(PacketIn) }},
	{OFPT_FLOW_REMOVED, openflow.KindFlowRemoved, func() message { return new(FlowRemoved) }},
	{OFPT_PORT_STATUS, openflow.KindPortStatus, func() message { return new(PortStatus) }},
	{OFPT_PACKET_OUT, openflow.KindPacketOut, func() message { return new(PacketOut) }},
	{OFPT_FLOW_MOD, openflow.KindFlowMod, func() message { return new(FlowMod) }},
	{OFPT_MULTIPART_REQUEST, openflow.KindMultipartRequest, func() message { return new(MultipartRequest) }},
	{OFPT_MULTIPART_REPLY, openflow.KindMultipartReply, func() message { return new(MultipartReply) }},
	{OFPT_BARRIER_REQUEST, openflow.KindBarrierRequest, func() message { return new(BarrierRequest) }},
	{OFPT_BARRIER_REPLY, openflow.KindBarrierReply, func() message { return new(BarrierReply) }},
	{OFPT_QUEUE_GET_CONFIG_REQUEST, openflow.KindQueueGetConfigRequest, func() message { return new(QueueGetConfigRequest) }},
	{OFPT_QUEUE_GET_CONFIG_REPLY, openflow.KindQueueGetConfigReply, func() message { return new(QueueGetConfigReply) }},
	{OFPT_ROLE_REQUEST, openflow.KindRoleRequest, func() message { return new(RoleRequest) }},
	{OFPT_ROLE_REPLY, openflow.KindRoleReply, func() message { return new(RoleReply) }},
	{OFPT_GET_ASYNC_REQUEST, openflow.KindGetAsyncRequest, func() message { return new(GetAsyncRequest) }},
	{OFPT_GET_ASYNC_REPLY, openflow.KindGetAsyncReply, func() message { return new(GetAsyncReply) }},
	{OFPT_SET_ASYNC, openflow.KindSetAsync, func() message { return new(SetAsync) }},
}

// Register adds the OpenFlow 1.3 serializers and deserializers to b.
func Register(b *openflow.RegistryBuilder) {
	for _, c := range codecs {
		b.RegisterSerializer(openflow.OF13_VERSION, c.kind, c.serializer())
		b.RegisterDeserializer(openflow.OF13_VERSION, c.msgType, c.deserializer())
	}
}

func (r codec) serializer() openflow.Serializer {
	return func(msg openflow.Message, buf *bytes.Buffer) error {
		m, ok := msg.(message)
		if !ok {
			return errors.Wrapf(openflow.ErrMismatchedMessage, "%T is not an OpenFlow 1.3 message", msg)
		}

		offset := openflow.WriteHeader(buf, openflow.OF13_VERSION, r.msgType, m.TransactionID())
		if err := m.marshal(buf); err != nil {
			return err
		}

		return openflow.UpdateLength(buf, offset)
	}
}

func (r codec) deserializer() openflow.Deserializer {
	return func(data []byte) (openflow.Message, error) {
		rd, header, err := openflow.NewReader(data)
		if err != nil {
			return nil, err
		}
		if header.Version != openflow.OF13_VERSION || header.Type != r.msgType {
			return nil, errors.Wrapf(openflow.ErrMismatchedMessage, "header %v", header)
		}

		m := r.alloc()
		m.SetProtocolVersion(header.Version)
		m.SetTransactionID(header.XID)
		m.unmarshal(rd)
		if err := rd.End(); err != nil {
			return nil, err
		}

		return m, nil
	}
}
