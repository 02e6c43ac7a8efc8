// typeinfo.go: the per-type registry record
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import "sync/atomic"

// typeInfo is the per-type registry described in §3: an immutable class
// descriptor, an atomic monotonically increasing index allocator, the
// type's lock-free hash table of live records, a cache of the most
// recently accessed record, an init/reference counter, and a clearing
// flag.
type typeInfo struct {
	// class is immutable after construction.
	class ClassDescriptor

	initCount atomic.Int32 // nesting depth of RegisterType calls
	idCount   atomic.Int64 // live (unmarked) records currently in table
	nextID    atomic.Uint64

	lastIDInfo atomic.Pointer[idInfo] // weak cache, see findIDInfo

	lfhtCleared atomic.Bool // lifecycle flag set by destroyType

	table *hashTable

	// Free-list bookkeeping, as on idInfo: onFreeList and generation are
	// used by freelist.go; next is not used for queue linkage (the free
	// list wraps each record in an flNode) and is only cleared by reset.
	next       atomic.Pointer[typeInfo]
	onFreeList atomic.Bool
	generation uint64
}

func newTypeInfo(class ClassDescriptor) *typeInfo {
	t := &typeInfo{class: class, table: &hashTable{}}
	t.table.init(64)
	t.nextID.Store(class.ReservedInitialIndex)
	t.initCount.Store(1)
	return t
}

// reset reinitializes a reclaimed typeInfo for reuse.
func (t *typeInfo) reset(class ClassDescriptor) {
	t.class = class
	t.initCount.Store(1)
	t.idCount.Store(0)
	t.nextID.Store(class.ReservedInitialIndex)
	t.lastIDInfo.Store(nil)
	t.lfhtCleared.Store(false)
	t.table.init(64)
	t.next.Store(nil)
	t.onFreeList.Store(false)
}
