// hashtable.go: concrete lock-free hash table backing each type's registry
//
// spec.md treats the per-type hash table as an external black box,
// specified only by the six operations of §6 (init, clear, add, find,
// delete, get_first/get_next). A complete module still has to ship one;
// this adapter is grounded directly on the teacher's wtinyLFUCache entry
// array (cache.go): the same four-state CAS-claim protocol (empty / valid
// / deleted / pending) over a flat, linearly-probed slice, generalized from
// string keys to Handle keys and from atomic.Value payloads to *idInfo
// pointers. Growth is handled by an atomic table-pointer swap guarded by a
// mutex taken only on the rare resize path, so the hot add/find/delete path
// stays lock-free.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import (
	"sync"
	"sync/atomic"
)

const (
	slotEmpty   int32 = 0
	slotValid   int32 = 1
	slotDeleted int32 = 2
	slotPending int32 = 3

	htGrowthNumerator   = 3
	htGrowthDenominator = 4
)

// htSlot is one slot of the flat open-addressed array.
type htSlot struct {
	state int32 // atomic: slotEmpty/slotValid/slotDeleted/slotPending
	key   uint64
	value atomic.Pointer[idInfo]
}

// htTable is one generation of the backing array; hashTable swaps a new one
// in wholesale when it grows.
type htTable struct {
	slots []htSlot
	mask  uint64
}

// hashTable is the lock-free hash table adapter consumed by typeInfo,
// implementing exactly the six operations of §6.
type hashTable struct {
	tbl    atomic.Pointer[htTable]
	count  atomic.Int64
	growMu sync.Mutex
}

func hashHandle(h Handle) uint64 {
	x := uint64(h)
	// splitmix64 finalizer: spreads the low index bits of a Handle (which
	// are themselves already fairly dense, monotonically assigned indices)
	// across the table so linear probing doesn't cluster.
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func nextPow2HT(n int) int {
	p := 16
	for p < n {
		p <<= 1
	}
	return p
}

// init allocates a fresh table with the given initial capacity hint.
func (h *hashTable) init(capacityHint int) {
	size := nextPow2HT(capacityHint)
	t := &htTable{slots: make([]htSlot, size), mask: uint64(size - 1)}
	h.tbl.Store(t)
	h.count.Store(0)
}

// clear discards every entry, shrinking back to the minimum table size.
func (h *hashTable) clear() {
	h.growMu.Lock()
	defer h.growMu.Unlock()
	h.init(16)
}

// add inserts value under key. Returns false if key is already present in a
// valid (non-deleted) slot.
func (h *hashTable) add(key Handle, value *idInfo) bool {
	for {
		t := h.tbl.Load()
		ok, full := h.tryAdd(t, key, value)
		if full {
			h.grow(t)
			continue
		}
		if ok {
			n := h.count.Add(1)
			if int(n)*htGrowthDenominator > len(t.slots)*htGrowthNumerator {
				h.grow(t)
			}
		}
		return ok
	}
}

func (h *hashTable) tryAdd(t *htTable, key Handle, value *idInfo) (inserted bool, full bool) {
	start := hashHandle(key) & t.mask
	k := uint64(key)
	for i := uint64(0); i <= t.mask; i++ {
		idx := (start + i) & t.mask
		slot := &t.slots[idx]

		state := atomic.LoadInt32(&slot.state)
		switch state {
		case slotValid:
			if atomic.LoadUint64(&slot.key) == k {
				return false, false // already present
			}
		case slotEmpty, slotDeleted:
			if atomic.CompareAndSwapInt32(&slot.state, state, slotPending) {
				atomic.StoreUint64(&slot.key, k)
				slot.value.Store(value)
				atomic.StoreInt32(&slot.state, slotValid)
				return true, false
			}
		}
	}
	return false, true
}

// grow doubles the table, rehashing every live entry, unless another
// goroutine has already swapped in a newer table.
func (h *hashTable) grow(stale *htTable) {
	h.growMu.Lock()
	defer h.growMu.Unlock()
	if h.tbl.Load() != stale {
		return // someone else already grew it
	}
	newSize := len(stale.slots) * 2
	nt := &htTable{slots: make([]htSlot, newSize), mask: uint64(newSize - 1)}
	for i := range stale.slots {
		slot := &stale.slots[i]
		if atomic.LoadInt32(&slot.state) != slotValid {
			continue
		}
		key := Handle(atomic.LoadUint64(&slot.key))
		value := slot.value.Load()
		start := hashHandle(key) & nt.mask
		for j := uint64(0); j <= nt.mask; j++ {
			idx := (start + j) & nt.mask
			if nt.slots[idx].state == slotEmpty {
				nt.slots[idx].state = slotValid
				nt.slots[idx].key = uint64(key)
				nt.slots[idx].value.Store(value)
				break
			}
		}
	}
	h.tbl.Store(nt)
}

// find returns the record stored under key, if any valid slot holds it.
func (h *hashTable) find(key Handle) (*idInfo, bool) {
	t := h.tbl.Load()
	start := hashHandle(key) & t.mask
	k := uint64(key)
	for i := uint64(0); i <= t.mask; i++ {
		idx := (start + i) & t.mask
		slot := &t.slots[idx]
		state := atomic.LoadInt32(&slot.state)
		if state == slotEmpty {
			return nil, false
		}
		if state == slotValid && atomic.LoadUint64(&slot.key) == k {
			return slot.value.Load(), true
		}
	}
	return nil, false
}

// delete removes key's slot, marking it tombstoned for linear probing.
func (h *hashTable) delete(key Handle) bool {
	t := h.tbl.Load()
	start := hashHandle(key) & t.mask
	k := uint64(key)
	for i := uint64(0); i <= t.mask; i++ {
		idx := (start + i) & t.mask
		slot := &t.slots[idx]
		state := atomic.LoadInt32(&slot.state)
		if state == slotEmpty {
			return false
		}
		if state == slotValid && atomic.LoadUint64(&slot.key) == k {
			if atomic.CompareAndSwapInt32(&slot.state, slotValid, slotPending) {
				slot.value.Store(nil)
				atomic.StoreInt32(&slot.state, slotDeleted)
				h.count.Add(-1)
				return true
			}
			return false // raced with a concurrent deleter/inserter
		}
	}
	return false
}

// getFirst begins an unordered walk, returning the first valid entry at or
// after index 0. Not a snapshot: concurrent mutation during the walk may
// repeat or skip entries, as documented on Iterate/GetFirst/GetNext.
func (h *hashTable) getFirst() (Handle, *idInfo, bool) {
	return h.scanFrom(0)
}

// getNext continues the walk after prevKey's slot.
func (h *hashTable) getNext(prevKey Handle) (Handle, *idInfo, bool) {
	t := h.tbl.Load()
	start := hashHandle(prevKey) & t.mask
	k := uint64(prevKey)
	for i := uint64(0); i <= t.mask; i++ {
		idx := (start + i) & t.mask
		slot := &t.slots[idx]
		if atomic.LoadInt32(&slot.state) == slotValid && atomic.LoadUint64(&slot.key) == k {
			return h.scanFrom(idx + 1)
		}
	}
	// prevKey's slot is gone (deleted concurrently); fall back to a full
	// scan, which may repeat entries already visited — an accepted
	// consequence of iterating a live, lock-free table (see Iterate docs).
	return h.scanFrom(0)
}

func (h *hashTable) scanFrom(from uint64) (Handle, *idInfo, bool) {
	t := h.tbl.Load()
	for i := from; i <= t.mask; i++ {
		slot := &t.slots[i]
		if atomic.LoadInt32(&slot.state) == slotValid {
			return Handle(atomic.LoadUint64(&slot.key)), slot.value.Load(), true
		}
	}
	return 0, nil, false
}
