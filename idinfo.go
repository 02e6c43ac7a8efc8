// idinfo.go: the per-handle ID-info record
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import "sync/atomic"

// idInfo is the per-handle record backing one Handle. Its immutable fields
// are set once at construction; its mutable state lives entirely in the
// kernel, swapped as a unit behind k. Free-list bookkeeping (onFreeList,
// generation) is owned by the free list, never touched while the record is
// reachable from a type's table.
type idInfo struct {
	// handle is immutable once constructed.
	handle Handle

	// realizeCb / discardCb back the future-handle protocol of §4.5. Both
	// nil for a regular (non-future) registration.
	realizeCb RealizeFunc
	discardCb DiscardFunc

	// k is the atomic kernel, see kernel.go.
	k atomic.Pointer[kernel]

	// next is not used for queue linkage: the free list (§4.6) wraps each
	// retired record in its own flNode; reset only clears next. generation
	// is a monotonic counter bumped on every retire, used to make the
	// retire/reallocate protocol auditable independent of GC behavior (see
	// SPEC_FULL.md §9 expansion note).
	next       atomic.Pointer[idInfo]
	onFreeList atomic.Bool
	generation uint64
}

// load returns the current kernel snapshot.
func (r *idInfo) load() *kernel {
	return r.k.Load()
}

// reset reinitializes a reclaimed idInfo for reuse by Allocate, clearing
// every field the previous incarnation may have set.
func (r *idInfo) reset(handle Handle, k *kernel, realizeCb RealizeFunc, discardCb DiscardFunc) {
	r.handle = handle
	r.realizeCb = realizeCb
	r.discardCb = discardCb
	r.k.Store(k)
	r.next.Store(nil)
	r.onFreeList.Store(false)
}
