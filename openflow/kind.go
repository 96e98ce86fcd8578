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

// Kind identifies a concrete message variant independently of the version
// specific type code used on the wire.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindHello
	KindError
	KindEchoRequest
	KindEchoReply
	KindExperimenter
	KindFeaturesRequest
	KindFeaturesReply
	KindGetConfigRequest
	KindGetConfigReply
	KindSetConfig
	KindPacketIn
	KindFlowRemoved
	KindPortStatus
	KindPacketOut
	KindFlowMod
	KindMultipartRequest
	KindMultipartReply
	KindBarrierRequest
	KindBarrierReply
	KindQueueGetConfigRequest
	KindQueueGetConfigReply
	KindRoleRequest
	KindRoleReply
	KindGetAsyncRequest
	KindGetAsyncReply
	KindSetAsync
)

var kindNames = map[Kind]string{
	KindUnknown:               "UNKNOWN",
	KindHello:                 "HELLO",
	KindError:                 "ERROR",
	KindEchoRequest:           "ECHO_REQUEST",
	KindEchoReply:             "ECHO_REPLY",
	KindExperimenter:          "EXPERIMENTER",
	KindFeaturesRequest:       "FEATURES_REQUEST",
	KindFeaturesReply:         "FEATURES_REPLY",
	KindGetConfigRequest:      "GET_CONFIG_REQUEST",
	KindGetConfigReply:        "GET_CONFIG_REPLY",
	KindSetConfig:             "SET_CONFIG",
	KindPacketIn:              "PACKET_IN",
	KindFlowRemoved:           "FLOW_REMOVED",
	KindPortStatus:            "PORT_STATUS",
	KindPacketOut:             "PACKET_OUT",
	KindFlowMod:               "FLOW_MOD",
	KindMultipartRequest:      "MULTIPART_REQUEST",
	KindMultipartReply:        "MULTIPART_REPLY",
	KindBarrierRequest:        "BARRIER_REQUEST",
	KindBarrierReply:          "BARRIER_REPLY",
	KindQueueGetConfigRequest: "QUEUE_GET_CONFIG_REQUEST",
	KindQueueGetConfigReply:   "QUEUE_GET_CONFIG_REPLY",
	KindRoleRequest:           "ROLE_REQUEST",
	KindRoleReply:             "ROLE_REPLY",
	KindGetAsyncRequest:       "GET_ASYNC_REQUEST",
	KindGetAsyncReply:         "GET_ASYNC_REPLY",
	KindSetAsync:              "SET_ASYNC",
}

func (r Kind) String() string {
	if v, ok := kindNames[r]; ok {
		return v
	}
	return fmt.Sprintf("Kind(%d)", uint8(r))
}
