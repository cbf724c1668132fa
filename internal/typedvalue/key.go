// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package typedvalue

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Key is a comparable identity for a Value. Two values of the same kind have
// equal keys exactly when Compare reports them equal, so Key can be used as a
// map key or set element.
type Key struct {
	kind  Kind
	text  string
	bits  uint64
	nanos uint32
}

// Kind returns the kind of the value the key was taken from.
func (k Key) Kind() Kind { return k.kind }

// Key returns the comparable identity of v.
func (v Value) Key() Key { return v.repr().key() }

// Hash returns a 64-bit hash consistent with Equal.
func (v Value) Hash() uint64 {
	k := v.Key()
	var buf [13]byte
	buf[0] = byte(k.kind)
	binary.LittleEndian.PutUint64(buf[1:9], k.bits)
	binary.LittleEndian.PutUint32(buf[9:13], k.nanos)

	h := xxhash.New()
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(k.text)
	return h.Sum64()
}
