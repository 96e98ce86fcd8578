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
	"sort"
	"sync"
)

// connRegistry maps a datapath ID to the session that owns it. At most one
// session owns a datapath at any time.
type connRegistry struct {
	mutex sync.RWMutex
	elems map[uint64]*session
}

func newConnRegistry() *connRegistry {
	return &connRegistry{elems: make(map[uint64]*session)}
}

// register makes s the owner of dpid and returns the previous owner, if any.
func (r *connRegistry) register(dpid uint64, s *session) (prev *session) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prev = r.elems[dpid]
	r.elems[dpid] = s

	return prev
}

func (r *connRegistry) lookup(dpid uint64) (s *session, ok bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok = r.elems[dpid]
	return s, ok
}

// unregister removes dpid only if s still owns it, so a superseded session
// never removes the mapping of its successor.
func (r *connRegistry) unregister(dpid uint64, s *session) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.elems[dpid] != s {
		return false
	}
	delete(r.elems, dpid)

	return true
}

func (r *connRegistry) len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.elems)
}

// dpids returns the registered datapath IDs in ascending order.
func (r *connRegistry) dpids() []uint64 {
	r.mutex.RLock()
	v := make([]uint64, 0, len(r.elems))
	for dpid := range r.elems {
		v = append(v, dpid)
	}
	r.mutex.RUnlock()

	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })

	return v
}
