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
	"bytes"
	"sort"

	"github.com/pkg/errors"
)

// Serializer writes msg, including its header, at the end of buf.
type Serializer func(msg Message, buf *bytes.Buffer) error

// Deserializer decodes one complete message. data starts with the header.
type Deserializer func(data []byte) (Message, error)

type serializerKey struct {
	version uint8
	kind    Kind
}

type deserializerKey struct {
	version uint8
	msgType uint8
}

// RegistryBuilder collects codecs during startup. It is not safe for
// concurrent use; Build returns the immutable Registry shared afterwards.
type RegistryBuilder struct {
	serializers   map[serializerKey]Serializer
	deserializers map[deserializerKey]Deserializer
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		serializers:   make(map[serializerKey]Serializer),
		deserializers: make(map[deserializerKey]Deserializer),
	}
}

func (r *RegistryBuilder) RegisterSerializer(version uint8, kind Kind, s Serializer) *RegistryBuilder {
	if s == nil {
		panic("nil serializer")
	}
	r.serializers[serializerKey{version, kind}] = s

	return r
}

func (r *RegistryBuilder) RegisterDeserializer(version uint8, msgType uint8, d Deserializer) *RegistryBuilder {
	if d == nil {
		panic("nil deserializer")
	}
	r.deserializers[deserializerKey{version, msgType}] = d

	return r
}

func (r *RegistryBuilder) Build() *Registry {
	reg := &Registry{
		serializers:   make(map[serializerKey]Serializer, len(r.serializers)),
		deserializers: make(map[deserializerKey]Deserializer, len(r.deserializers)),
	}
	for k, v := range r.serializers {
		reg.serializers[k] = v
	}
	for k, v := range r.deserializers {
		reg.deserializers[k] = v
	}

	return reg
}

// Registry is a read-only table of codecs keyed by protocol version. It needs
// no locking once built.
type Registry struct {
	serializers   map[serializerKey]Serializer
	deserializers map[deserializerKey]Deserializer
}

func (r *Registry) Serialize(version uint8, msg Message) ([]byte, error) {
	if msg == nil {
		return nil, errors.New("nil message")
	}
	s, ok := r.serializers[serializerKey{version, msg.Kind()}]
	if !ok {
		return nil, &UnsupportedError{Version: version, Kind: msg.Kind(), Serialize: true}
	}

	buf := new(bytes.Buffer)
	if err := s(msg, buf); err != nil {
		return nil, errors.Wrapf(err, "serializing %v", msg.Kind())
	}

	return buf.Bytes(), nil
}

func (r *Registry) Deserialize(version uint8, msgType uint8, data []byte) (Message, error) {
	d, ok := r.deserializers[deserializerKey{version, msgType}]
	if !ok {
		return nil, &UnsupportedError{Version: version, Type: msgType}
	}

	msg, err := d(data)
	if err != nil {
		return nil, errors.Wrapf(err, "deserializing type %v (version %v)", msgType, VersionString(version))
	}

	return msg, nil
}

// Decode deserializes data using the version and type code of its own header.
func (r *Registry) Decode(data []byte) (Message, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	return r.Deserialize(header.Version, header.Type, data)
}

func (r *Registry) CanSerialize(version uint8, kind Kind) bool {
	_, ok := r.serializers[serializerKey{version, kind}]
	return ok
}

func (r *Registry) CanDeserialize(version uint8, msgType uint8) bool {
	_, ok := r.deserializers[deserializerKey{version, msgType}]
	return ok
}

// Versions returns every version that has at least one deserializer, sorted
// in ascending order.
func (r *Registry) Versions() []uint8 {
	seen := make(map[uint8]bool)
	for k := range r.deserializers {
		seen[k.version] = true
	}

	v := make([]uint8, 0, len(seen))
	for ver := range seen {
		v = append(v, ver)
	}
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })

	return v
}
