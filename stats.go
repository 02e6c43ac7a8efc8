// stats.go: observational statistics counters and human-readable dumps (§6)
//
// Statistics counters are numerous and purely observational (§9): a port
// may gate them behind a compile-time feature flag. Here that's
// Config.StatsEnabled, checked before each per-operation and retry counter
// increment (the entry, max-concurrency and allocation counters are always
// kept), mirroring the teacher's metrics_test.go texture of
// dense atomic counters plus a couple of public dump entry points.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import (
	"fmt"
	"io"
	"sync/atomic"
)

// statsCounters holds every atomic counter the registry maintains for
// diagnostics. None of it participates in correctness.
type statsCounters struct {
	publicEntries   atomic.Uint64
	internalEntries atomic.Uint64
	maxConcurrent   atomic.Uint64

	registers   atomic.Uint64
	lookups     atomic.Uint64
	incRefs     atomic.Uint64
	decRefs     atomic.Uint64
	removes     atomic.Uint64
	realizes    atomic.Uint64
	casRetries  atomic.Uint64
	clearSweeps atomic.Uint64
	iterations  atomic.Uint64

	idAllocFromFreeList   atomic.Uint64
	idAllocFromHeap       atomic.Uint64
	typeAllocFromFreeList atomic.Uint64
	typeAllocFromHeap     atomic.Uint64
}

func (s *statsCounters) recordConcurrent(n uint64) {
	for {
		cur := s.maxConcurrent.Load()
		if n <= cur {
			return
		}
		if s.maxConcurrent.CompareAndSwap(cur, n) {
			return
		}
	}
}

// statSnapshot is a point-in-time, non-atomic copy of statsCounters for
// formatting.
type statSnapshot struct {
	Name  string
	Value uint64
}

func (r *Registry) snapshotStats() []statSnapshot {
	s := &r.stats
	return []statSnapshot{
		{"public_entries", s.publicEntries.Load()},
		{"internal_entries", s.internalEntries.Load()},
		{"max_concurrent_threads", s.maxConcurrent.Load()},
		{"registers", s.registers.Load()},
		{"lookups", s.lookups.Load()},
		{"inc_refs", s.incRefs.Load()},
		{"dec_refs", s.decRefs.Load()},
		{"removes", s.removes.Load()},
		{"realizes", s.realizes.Load()},
		{"cas_retries", s.casRetries.Load()},
		{"clear_sweeps", s.clearSweeps.Load()},
		{"iterations", s.iterations.Load()},
		{"id_alloc_from_free_list", s.idAllocFromFreeList.Load()},
		{"id_alloc_from_heap", s.idAllocFromHeap.Load()},
		{"type_alloc_from_free_list", s.typeAllocFromFreeList.Load()},
		{"type_alloc_from_heap", s.typeAllocFromHeap.Load()},
		{"id_free_list_len", uint64(r.idFreeList.Len())},
		{"id_free_list_reallocable", uint64(r.idFreeList.NumReallocable())},
		{"type_free_list_len", uint64(r.typeFreeList.Len())},
		{"type_free_list_reallocable", uint64(r.typeFreeList.NumReallocable())},
		{"active_threads", r.activeThreads.Load()},
	}
}

// DumpStats writes every statistic counter to sink, one per line, in the
// human-readable "name = value" form described in §6.
func (r *Registry) DumpStats(sink io.Writer) error {
	for _, s := range r.snapshotStats() {
		if _, err := fmt.Fprintf(sink, "%s = %d\n", s.Name, s.Value); err != nil {
			return err
		}
	}
	return nil
}

// DumpNonzeroStats writes only the non-zero counters to sink, each line
// prefixed with tag, mirroring §6's dump_nonzero_stats(sink, tag).
func (r *Registry) DumpNonzeroStats(sink io.Writer, tag string) error {
	for _, s := range r.snapshotStats() {
		if s.Value == 0 {
			continue
		}
		if _, err := fmt.Fprintf(sink, "%s: %s = %d\n", tag, s.Name, s.Value); err != nil {
			return err
		}
	}
	return nil
}
