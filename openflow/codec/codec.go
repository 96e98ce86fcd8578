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

// Package codec builds the process wide OpenFlow codec registry.
package codec

import (
	"github.com/hashsdn/hashsdn-netide/openflow"
	"github.com/hashsdn/hashsdn-netide/openflow/of10"
	"github.com/hashsdn/hashsdn-netide/openflow/of13"

	"github.com/op/go-logging"
)

var (
	logger = logging.MustGetLogger("codec")
)

// NewRegistry registers every supported OpenFlow version and returns the
// resulting read-only registry. It is called once at startup.
func NewRegistry() *openflow.Registry {
	b := openflow.NewRegistryBuilder()
	of10.Register(b)
	of13.Register(b)
	r := b.Build()
	logger.Debugf("OpenFlow codec registry is built: versions=%v", r.Versions())

	return r
}

// NewFactory returns a message factory for version, or an error if no codec
// set exists for it.
func NewFactory(version uint8) (openflow.Factory, error) {
	switch version {
	case openflow.OF10_VERSION:
		return of10.NewFactory(), nil
	case openflow.OF13_VERSION:
		return of13.NewFactory(), nil
	default:
		return nil, openflow.ErrUnsupportedVersion
	}
}
