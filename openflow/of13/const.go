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

const (
	/* Immutable messages. */
	OFPT_HELLO        = iota /* Symmetric message */
	OFPT_ERROR               /* Symmetric message */
	OFPT_ECHO_REQUEST        /* Symmetric message */
	OFPT_ECHO_REPLY          /* Symmetric message */
	OFPT_EXPERIMENTER        /* Symmetric message */
	/* Switch configuration messages. */
	OFPT_FEATURES_REQUEST   /* Controller/switch message */
	OFPT_FEATURES_REPLY     /* Controller/switch message */
	OFPT_GET_CONFIG_REQUEST /* Controller/switch message */
	OFPT_GET_CONFIG_REPLY   /* Controller/switch message */
	OFPT_SET_CONFIG         /* Controller/switch message */
	/* Asynchronous messages. */
	OFPT_PACKET_IN    /* Async message */
	OFPT_FLOW_REMOVED /* Async message */
	OFPT_PORT_STATUS  /* Async message */
	/* Controller command messages. */
	OFPT_PACKET_OUT /* Controller/switch message */
	OFPT_FLOW_MOD   /* Controller/switch message */
	OFPT_GROUP_MOD  /* Controller/switch message */
	OFPT_PORT_MOD   /* Controller/switch message */
	OFPT_TABLE_MOD  /* Controller/switch message */
	/* Multipart messages. */
	OFPT_MULTIPART_REQUEST /* Controller/switch message */
	OFPT_MULTIPART_REPLY   /* Controller/switch message */
	/* Barrier messages. */
	OFPT_BARRIER_REQUEST /* Controller/switch message */
	OFPT_BARRIER_REPLY   /* Controller/switch message */
	/* Queue Configuration messages. */
	OFPT_QUEUE_GET_CONFIG_REQUEST /* Controller/switch message */
	OFPT_QUEUE_GET_CONFIG_REPLY   /* Controller/switch message */
	/* Controller role change request messages. */
	OFPT_ROLE_REQUEST /* Controller/switch message */
	OFPT_ROLE_REPLY   /* Controller/switch message */
	/* Asynchronous message configuration. */
	OFPT_GET_ASYNC_REQUEST /* Controller/switch message */
	OFPT_GET_ASYNC_REPLY   /* Controller/switch message */
	OFPT_SET_ASYNC         /* Controller/switch message */
	/* Meters and rate limiters configuration messages. */
	OFPT_METER_MOD /* Controller/switch message */
)

const (
	OFPHET_VERSIONBITMAP = 1
)

const (
	OFPC_FLOW_STATS   = 1 << 0 /* Flow statistics. */
	OFPC_TABLE_STATS  = 1 << 1 /* Table statistics. */
	OFPC_PORT_STATS   = 1 << 2 /* Port statistics. */
	OFPC_GROUP_STATS  = 1 << 3 /* Group statistics. */
	OFPC_IP_REASM     = 1 << 5 /* Can reassemble IP fragments. */
	OFPC_QUEUE_STATS  = 1 << 6 /* Queue statistics. */
	OFPC_PORT_BLOCKED = 1 << 8 /* Switch will block looping ports. */
)

const (
	OFPC_FRAG_NORMAL = iota /* No special handling for fragments. */
	OFPC_FRAG_DROP          /* Drop fragments. */
	OFPC_FRAG_REASM         /* Reassemble (only if OFPC_IP_REASM set). */
	OFPC_FRAG_MASK
)

const (
	OFPP_MAX        = 0xffffff00
	OFPP_IN_PORT    = 0xfffffff8
	OFPP_TABLE      = 0xfffffff9
	OFPP_NORMAL     = 0xfffffffa
	OFPP_FLOOD      = 0xfffffffb
	OFPP_ALL        = 0xfffffffc
	OFPP_CONTROLLER = 0xfffffffd
	OFPP_LOCAL      = 0xfffffffe
	OFPP_ANY        = 0xffffffff
)

const (
	OFPG_ANY = 0xffffffff
)

const (
	OFPCR_ROLE_NOCHANGE = iota
	OFPCR_ROLE_EQUAL
	OFPCR_ROLE_MASTER
	OFPCR_ROLE_SLAVE
)

const (
	OFPMP_DESC           = 0
	OFPMP_FLOW           = 1
	OFPMP_AGGREGATE      = 2
	OFPMP_TABLE          = 3
	OFPMP_PORT_STATS     = 4
	OFPMP_QUEUE          = 5
	OFPMP_GROUP          = 6
	OFPMP_GROUP_DESC     = 7
	OFPMP_GROUP_FEATURES = 8
	OFPMP_METER          = 9
	OFPMP_METER_CONFIG   = 10
	OFPMP_METER_FEATURES = 11
	OFPMP_TABLE_FEATURES = 12
	OFPMP_PORT_DESC      = 13
	OFPMP_EXPERIMENTER   = 0xffff
)

const (
	OFP_NO_BUFFER     = 0xffffffff
	OFP_MAX_PORT_NAME = 16
)
