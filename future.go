// future.go: future-handle realize/discard protocol (§4.5)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// realize resolves rec's placeholder into the actual registered object,
// exactly following the five steps of §4.5. k is the caller's most recent
// observation of rec's kernel (already known non-marked, future, and not
// token-held). Any failure in steps 2-4 releases the token and reports
// NotFound, leaving rec's kernel exactly as it was (still future) so
// callers may retry.
func (r *Registry) realize(ti *typeInfo, rec *idInfo, k *kernel, holdsOuterMutex bool) (interface{}, error) {
	// Step 1: acquire do_not_disturb.
	tk := k.withToken(holdsOuterMutex)
	if !rec.k.CompareAndSwap(k, tk) {
		return nil, NewErrNotFound(rec.handle)
	}

	placeholder := k.realizePlaceholder

	// Step 2: resolve the placeholder to the handle of the real object.
	actualHandle, err := rec.realizeCb(placeholder)
	if err != nil || actualHandle <= 0 {
		rec.k.Store(k) // release the token, kernel reverts to exactly k.
		return nil, NewErrNotFound(rec.handle)
	}
	if r.codec.typeOf(actualHandle) != r.codec.typeOf(rec.handle) {
		rec.k.Store(k)
		return nil, NewErrNotFound(rec.handle)
	}

	// Step 3: extract the actual object, removing its standalone handle.
	obj, rerr := r.removeInternal(actualHandle, holdsOuterMutex)
	if rerr != nil || obj == nil {
		rec.k.Store(k)
		return nil, NewErrNotFound(rec.handle)
	}

	// Step 4: release the placeholder.
	if derr := rec.discardCb(placeholder); derr != nil {
		rec.k.Store(k)
		return nil, NewErrNotFound(rec.handle)
	}

	// Step 5: install the non-future kernel and release do_not_disturb.
	final := realized(obj, k.count, k.appCount)
	rec.k.Store(final)

	if r.statsOn() {
		r.stats.realizes.Add(1)
	}
	return obj, nil
}
