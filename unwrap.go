// unwrap.go: object unwrapping for indirection-bearing types (§4.8)
//
// This is the only place the core acquires and releases the outer
// library's mutex itself; every other bracketing site (DecRef's free_func,
// ClearType's release callback, Iterate's visitor) instead trusts the
// holdsOuterMutex signal threaded in from the Locked variant of its public
// entry point and never calls Lock/Unlock directly, per §4.8's "this is the
// only place the core interacts with the outer library's lock."
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// unwrapObject applies the configured Unwrapper for t, bracketing a
// non-MT-safe extractor with the OuterMutex per §4.8 — unless
// holdsOuterMutex reports that the calling goroutine already holds it, in
// which case locking again would deadlock on Go's non-reentrant
// sync.Mutex. A Registry with no Unwrapper configured returns object
// unchanged.
func (r *Registry) unwrapObject(object interface{}, t Type, holdsOuterMutex bool) (interface{}, error) {
	if r.unwrap == nil {
		return object, nil
	}
	ti := r.types[t].Load()
	needsLock := (ti == nil || !ti.class.IsMTSafe()) && !holdsOuterMutex
	if needsLock {
		r.outerMutex.Lock()
		defer r.outerMutex.Unlock()
	}
	return r.unwrap(object, t)
}
