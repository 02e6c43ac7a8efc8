// Package idreg provides a thread-safe, lock-free registry mapping opaque
// integer handles to arbitrary in-process objects.
//
// # Overview
//
// A Registry is organized around handles: signed integers that bit-pack a
// small type tag with a monotonically assigned index (handle.go). Each live
// handle names exactly one idInfo record, whose kernel — object pointer,
// reference counts, and a small state machine — is swapped as a single
// atomic unit (kernel.go) rather than protected by a lock. Types themselves
// are registered dynamically (typeops.go) and carry their own hash table of
// live records (hashtable.go), reference count, and free-list-backed
// allocator (freelist.go).
//
// # Concurrency model
//
// Every mutation to a handle's kernel goes through a compare-and-swap loop:
// read the current kernel, build a modified copy, attempt to install it,
// retry on contention. Mutations that cannot be expressed as a pure
// function of the old kernel (invoking a FreeFunc, realizing a future
// handle) instead acquire a single-writer "do-not-disturb" token recorded
// directly in the kernel's state (backoff.go), run the side-effecting
// callback, then release the token by installing the final kernel. Every
// public entry point that can invoke a FreeFunc, DiscardFunc, or Visitor
// (DecRef, ClearType, Iterate, and the Lookup/Substitute/IncRef/Remove/
// GetFirst/GetNext family alongside them) comes in two forms: the plain
// form assumes the caller does not hold OuterMutex, and a LookupLocked/
// DecRefLocked/ClearTypeLocked/... form is for a caller that does, typically
// a callback reentering the Registry for a second handle from inside one of
// those same callbacks. DecTypeRef and DestroyType, which can also invoke
// FreeFunc and DiscardFunc through their forced clear, come only in the
// plain form. The core itself never acquires OuterMutex except in
// unwrapObject (unwrap.go); everywhere else it only records and consults
// which form the caller used. A
// goroutine that already holds the configured OuterMutex may bypass another
// goroutine's token if that goroutine recorded holding the same mutex — the
// reentrancy rule of §5.
//
// Records are never reused while any goroutine might still be dereferencing
// them: a record is retired onto a free list as soon as it is deleted, but
// handing it out again is deferred until the active-goroutine count
// (enterexit.go) provably reaches zero across a clean snapshot window, the
// same quiescent-state reclamation scheme a lock-free queue or
// hazard-pointer allocator uses.
//
// # Quick start
//
//	reg := idreg.NewRegistry(idreg.DefaultConfig())
//
//	fileType, err := reg.RegisterType(idreg.ClassDescriptor{
//	    TypeTag: 1,
//	    FreeFunc: func(object, _ interface{}) error {
//	        return object.(*os.File).Close()
//	    },
//	})
//
//	h, err := reg.Register(fileType, f, true, nil, nil)
//	obj, err := reg.Lookup(h)
//	_, err = reg.DecRef(h, true, nil) // closes f once the count hits zero
//
// # Future handles
//
// Register accepts a RealizeFunc/DiscardFunc pair to create a "future"
// handle: a placeholder that is lazily resolved to its real object on first
// successful Lookup (future.go), useful when the real object is expensive
// to construct or depends on a value not yet available at registration
// time.
//
// # Ambient stack
//
// Errors are structured go-errors values with stable codes (errors.go).
// Config.Validate (config.go) fills in unset tuning parameters with
// defaults; Tuner (tuning.go) can retune backoff bounds and stats
// collection at runtime from a watched configuration file via Argus,
// without requiring the Registry to be rebuilt. DumpStats/DumpNonzeroStats
// (stats.go) expose the internal counters for diagnostics, and the
// idreg/otel submodule records the MetricsCollector latency samples of
// Register/Lookup/DecRef as OpenTelemetry histograms.
//
// # Non-goals
//
// idreg does not provide a scripting-language binding layer, a persistent
// on-disk handle table, or cross-process handle sharing: handles are only
// meaningful within the Registry instance (and process) that issued them.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg
