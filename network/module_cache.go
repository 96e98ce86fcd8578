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

	lru "github.com/hashicorp/golang-lru"
)

const moduleCacheSize = 1024

// moduleCache remembers which core module sent a request to a switch so
// that the switch's reply can be addressed back to that module.
type moduleCache struct {
	cache *lru.Cache
}

func newModuleCache() *moduleCache {
	c, err := lru.New(moduleCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to init a LRU module cache: %v", err))
	}

	return &moduleCache{cache: c}
}

func (r *moduleCache) add(xid uint32, moduleID uint16) {
	// Update if the key already exists.
	r.cache.Add(xid, moduleID)
}

// lookup returns the module of the request with xid, or 0 for messages that
// the switch sent on its own.
func (r *moduleCache) lookup(xid uint32) uint16 {
	v, ok := r.cache.Get(xid)
	if !ok {
		return 0
	}

	return v.(uint16)
}

func (r *moduleCache) purge() {
	r.cache.Purge()
}
