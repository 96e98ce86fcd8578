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
	"sync/atomic"

	"github.com/hashsdn/hashsdn-netide/openflow"
)

// Concrete factory
type Factory struct {
	xid uint32
}

func NewFactory() *Factory {
	return &Factory{}
}

func (r *Factory) getTransactionID() uint32 {
	// Transaction ID will be started from 1, not 0.
	return atomic.AddUint32(&r.xid, 1)
}

func (r *Factory) ProtocolVersion() uint8 {
	return openflow.OF10_VERSION
}

func (r *Factory) NewHello() (openflow.Hello, error) {
	return NewHello(r.getTransactionID()), nil
}

func (r *Factory) NewEchoRequest() (openflow.Echo, error) {
	return NewEchoRequest(r.getTransactionID()), nil
}

func (r *Factory) NewEchoReply() (openflow.Echo, error) {
	return NewEchoReply(r.getTransactionID()), nil
}

func (r *Factory) NewFeaturesRequest() (openflow.Message, error) {
	return NewFeaturesRequest(r.getTransactionID()), nil
}

func (r *Factory) NewError(class, code uint16, data []byte) (openflow.Error, error) {
	return NewError(r.getTransactionID(), class, code, data), nil
}

func (r *Factory) NewBarrierRequest() (openflow.Message, error) {
	return NewBarrierRequest(r.getTransactionID()), nil
}

func (r *Factory) NewSetConfig() (*SetConfig, error) {
	return NewSetConfig(r.getTransactionID()), nil
}

func (r *Factory) NewGetConfigRequest() (openflow.Message, error) {
	return NewGetConfigRequest(r.getTransactionID()), nil
}

func (r *Factory) NewFlowMod(cmd uint16) (*FlowMod, error) {
	return NewFlowMod(r.getTransactionID(), cmd), nil
}

func (r *Factory) NewPacketOut() (*PacketOut, error) {
	return NewPacketOut(r.getTransactionID()), nil
}

func (r *Factory) NewQueueGetConfigRequest(port uint16) (*QueueGetConfigRequest, error) {
	return NewQueueGetConfigRequest(r.getTransactionID(), port), nil
}
