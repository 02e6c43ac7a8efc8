// enterexit.go: active-thread bookkeeping and quiescent-state promotion (§4.7)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// enter marks the calling goroutine as active inside the registry. Every
// public entry point calls it first and defers exit(). publicAPI selects
// which entry counter (public_entries or internal_entries) is bumped; every
// current call site passes true, and internal recursion such as the
// realize protocol's call into removeInternal does not call enter at all.
func (r *Registry) enter(publicAPI bool) {
	r.enterSeq.Add(1)
	n := r.activeThreads.Add(1)
	if publicAPI {
		r.stats.publicEntries.Add(1)
	} else {
		r.stats.internalEntries.Add(1)
	}
	r.stats.recordConcurrent(n)
}

// exit unmarks the calling goroutine. If it observes the active-thread
// counter settle at zero with no entry/exit racing the observation, it
// promotes every retired record on both free lists to reallocable, per the
// "Promote-all-to-reallocable" operation of §4.6.
func (r *Registry) exit() {
	r.exitSeq.Add(1)
	prev := r.activeThreads.Add(^uint64(0)) + 1 // fetch_sub semantics: value before decrement
	if prev != 1 {
		return
	}

	enterBefore := r.enterSeq.Load()
	exitBefore := r.exitSeq.Load()
	if r.activeThreads.Load() != 0 {
		return
	}
	if r.enterSeq.Load() != enterBefore || r.exitSeq.Load() != exitBefore {
		return // another goroutine entered/exited during the snapshot window
	}

	r.idFreeList.PromoteAllReallocable()
	r.typeFreeList.PromoteAllReallocable()
}
