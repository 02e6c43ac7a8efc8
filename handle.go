// handle.go: handle encoding scheme
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// Handle is an opaque, signed, process-local identifier returned by
// Register and consumed by every other public operation. A Handle encodes
// a Type tag in its high bits and a per-type monotonic index in its low
// bits; the split point is configured per Registry by Config.TypeBits /
// Config.IDBits, which must sum to 63 (the sign bit is never part of the
// encoding so a valid Handle is never negative except for InvalidHandle's
// sentinel use by callers that compare against it).
type Handle int64

// Type is the type tag of a registered class, i.e. the high-order field of
// a Handle once decoded.
type Type uint32

// InvalidHandle is returned by operations that fail to allocate or resolve
// a handle. It is never stored in a type's table.
const InvalidHandle Handle = -1

// codec packages encode/decode for one (TypeBits, IDBits) split. It is pure
// and holds no state beyond the two bit widths, matching §4.1 of the
// design: "Pure functions encode, type_of, and an INVALID constant. No
// state."
type codec struct {
	typeBits uint
	idBits   uint
	idMask   uint64
	typeMask uint64
}

func newCodec(typeBits, idBits uint) codec {
	return codec{
		typeBits: typeBits,
		idBits:   idBits,
		idMask:   (uint64(1) << idBits) - 1,
		typeMask: (uint64(1) << typeBits) - 1,
	}
}

// maxIndex is the exclusive upper bound of the per-type index field:
// exceeding it is the fatal registry condition described in §3 ("strictly
// less than 1 << ID_BITS").
func (c codec) maxIndex() uint64 {
	return uint64(1) << c.idBits
}

// encode packs a type tag and a per-type index into a single Handle.
// Behavior is undefined (per §4.1) if t or i overflow their configured bit
// fields; callers within this package always check bounds before calling
// encode, per the "callers must check" contract in the design.
func (c codec) encode(t Type, i uint64) Handle {
	return Handle((uint64(t) << c.idBits) | (i & c.idMask))
}

// typeOf extracts the type tag from a handle.
func (c codec) typeOf(h Handle) Type {
	return Type((uint64(h) >> c.idBits) & c.typeMask)
}

// indexOf extracts the per-type index from a handle.
func (c codec) indexOf(h Handle) uint64 {
	return uint64(h) & c.idMask
}
