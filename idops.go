// idops.go: ID lifecycle operations (§4.3)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// resolve validates h's type tag and returns its typeInfo and table record.
func (r *Registry) resolve(h Handle) (*typeInfo, *idInfo, error) {
	if h <= 0 {
		return nil, nil, NewErrNotFound(h)
	}
	t := r.codec.typeOf(h)
	ti, err := r.lookupType(t)
	if err != nil {
		return nil, nil, err
	}
	rec, found := ti.table.find(h)
	if !found {
		return nil, nil, NewErrNotFound(h)
	}
	return ti, rec, nil
}

func (r *Registry) allocIDInfo(handle Handle, k *kernel, realizeCb RealizeFunc, discardCb DiscardFunc) *idInfo {
	if v, ok := r.idFreeList.Allocate(); ok {
		v.reset(handle, k, realizeCb, discardCb)
		r.stats.idAllocFromFreeList.Add(1)
		return v
	}
	r.stats.idAllocFromHeap.Add(1)
	rec := &idInfo{handle: handle, realizeCb: realizeCb, discardCb: discardCb}
	rec.k.Store(k)
	return rec
}

// Register allocates a fresh handle of type t naming object, per §4.3.
// appRef marks the initial reference as application-visible. realizeCb and
// discardCb, if both non-nil, make this a future handle (§4.5); otherwise
// pass nil, nil for a regular registration.
//
// Insertion order matches §4.3 exactly: counter bump, allocate, id_count
// bump, hash-table insert, cache update.
func (r *Registry) Register(t Type, object interface{}, appRef bool, realizeCb RealizeFunc, discardCb DiscardFunc) (Handle, error) {
	r.enter(true)
	defer r.exit()
	start := r.cfg.TimeProvider.Now()
	defer func() { r.cfg.MetricsCollector.RecordRegister(r.cfg.TimeProvider.Now() - start) }()

	ti, err := r.lookupType(t)
	if err != nil {
		return InvalidHandle, err
	}

	idx := ti.nextID.Add(1) - 1
	if idx >= r.codec.maxIndex() {
		return InvalidHandle, NewErrBadRange("register: nextid overflow", idx)
	}
	handle := r.codec.encode(t, idx)

	appCount := int32(0)
	if appRef {
		appCount = 1
	}
	var k *kernel
	isFuture := realizeCb != nil && discardCb != nil
	if isFuture {
		k = liveFuture(object, 1, appCount)
	} else {
		k = liveRegular(object, 1, appCount)
	}
	rec := r.allocIDInfo(handle, k, realizeCb, discardCb)

	ti.idCount.Add(1)
	if !ti.table.add(handle, rec) {
		// Cannot happen for a freshly allocated monotonic index, short of
		// an internal bookkeeping bug.
		ti.idCount.Add(-1)
		return InvalidHandle, NewErrInternal("register: duplicate handle", nil)
	}
	ti.lastIDInfo.Store(rec)

	if r.statsOn() {
		r.stats.registers.Add(1)
	}
	return handle, nil
}

// RegisterUsingExistingID installs object under the caller-supplied handle
// without consuming a nextid slot, per §4.3. It is used by code paths that
// must preserve a specific handle value across a re-open. If handle is
// already occupied by a live record, it fails with InUse; if occupied by a
// stale (marked) record, that record is first removed.
func (r *Registry) RegisterUsingExistingID(t Type, object interface{}, appRef bool, handle Handle) error {
	r.enter(true)
	defer r.exit()

	if r.codec.typeOf(handle) != t {
		return NewErrBadRange("RegisterUsingExistingID: type mismatch", int64(handle))
	}
	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}

	if existing, found := ti.table.find(handle); found {
		if !existing.load().state.marked() {
			return NewErrInUse(handle)
		}
		ti.table.delete(handle)
	}

	appCount := int32(0)
	if appRef {
		appCount = 1
	}
	k := liveRegular(object, 1, appCount)
	rec := r.allocIDInfo(handle, k, nil, nil)

	ti.idCount.Add(1)
	if !ti.table.add(handle, rec) {
		ti.idCount.Add(-1)
		return NewErrInternal("RegisterUsingExistingID: duplicate handle", nil)
	}
	ti.lastIDInfo.Store(rec)

	if r.statsOn() {
		r.stats.registers.Add(1)
	}
	return nil
}

// Substitute replaces the object backing handle and returns the previous
// object, per §4.3.
func (r *Registry) Substitute(h Handle, newObject interface{}) (interface{}, error) {
	r.enter(true)
	defer r.exit()
	return r.substituteInternal(h, newObject, false)
}

// SubstituteLocked is Substitute for a caller that already holds the
// configured OuterMutex; see LookupLocked.
func (r *Registry) SubstituteLocked(h Handle, newObject interface{}) (interface{}, error) {
	r.enter(true)
	defer r.exit()
	return r.substituteInternal(h, newObject, true)
}

func (r *Registry) substituteInternal(h Handle, newObject interface{}, holdsOuterMutex bool) (interface{}, error) {
	_, rec, err := r.resolve(h)
	if err != nil {
		return nil, err
	}
	for {
		k := r.waitDoNotDisturb(rec, holdsOuterMutex)
		if k.state.marked() {
			return nil, NewErrNotFound(h)
		}
		nk := k.withObject(newObject)
		if rec.k.CompareAndSwap(k, nk) {
			return k.object, nil
		}
	}
}

// IncRef increments handle's reference count (and, if appRef, its
// application-visible subset) and returns the new total count, per §4.3.
func (r *Registry) IncRef(h Handle, appRef bool) (int32, error) {
	r.enter(true)
	defer r.exit()
	return r.incRefInternal(h, appRef, false)
}

// IncRefLocked is IncRef for a caller that already holds the configured
// OuterMutex; see LookupLocked.
func (r *Registry) IncRefLocked(h Handle, appRef bool) (int32, error) {
	r.enter(true)
	defer r.exit()
	return r.incRefInternal(h, appRef, true)
}

func (r *Registry) incRefInternal(h Handle, appRef bool, holdsOuterMutex bool) (int32, error) {
	_, rec, err := r.resolve(h)
	if err != nil {
		return 0, err
	}
	for {
		k := r.waitDoNotDisturb(rec, holdsOuterMutex)
		if k.state.marked() {
			return 0, NewErrNotFound(h)
		}
		nc := k.count + 1
		nac := k.appCount
		if appRef {
			nac++
		}
		nk := k.withCounts(nc, nac)
		if rec.k.CompareAndSwap(k, nk) {
			if r.statsOn() {
				r.stats.incRefs.Add(1)
			}
			return nc, nil
		}
	}
}

// DecRef decrements handle's reference count (and, if appRef, its
// application-visible subset) and returns the new total count, per §4.3.
// asyncToken is threaded through to FreeFunc verbatim when the count
// reaches zero and the type defines one.
func (r *Registry) DecRef(h Handle, appRef bool, asyncToken interface{}) (int32, error) {
	r.enter(true)
	defer r.exit()
	start := r.cfg.TimeProvider.Now()
	defer func() { r.cfg.MetricsCollector.RecordDecRef(r.cfg.TimeProvider.Now() - start) }()
	return r.decRefInternal(h, appRef, asyncToken, false)
}

// DecRefLocked is DecRef for a caller that already holds the configured
// OuterMutex — for instance a free_func that drops its own last reference
// to a second handle as part of its own teardown. See LookupLocked.
func (r *Registry) DecRefLocked(h Handle, appRef bool, asyncToken interface{}) (int32, error) {
	r.enter(true)
	defer r.exit()
	start := r.cfg.TimeProvider.Now()
	defer func() { r.cfg.MetricsCollector.RecordDecRef(r.cfg.TimeProvider.Now() - start) }()
	return r.decRefInternal(h, appRef, asyncToken, true)
}

func (r *Registry) decRefInternal(h Handle, appRef bool, asyncToken interface{}, holdsOuterMutex bool) (int32, error) {
	t := r.codec.typeOf(h)
	ti, rec, err := r.resolve(h)
	if err != nil {
		return 0, err
	}

	for {
		k := r.waitDoNotDisturb(rec, holdsOuterMutex)
		if k.state.marked() {
			return 0, NewErrNotFound(h)
		}

		nc := k.count - 1
		nac := k.appCount
		if appRef && nac > 0 {
			nac--
		}
		if nc < 0 {
			return 0, NewErrInternal("dec_ref: count underflow", nil)
		}

		if nc >= 1 || ti.class.FreeFunc == nil {
			nk := k.withCounts(nc, nac)
			if nc == 0 {
				// No FreeFunc to run: the final decrement marks the record
				// in the same CAS.
				nk = markedKernel()
			}
			if rec.k.CompareAndSwap(k, nk) {
				if nc == 0 {
					ti.idCount.Add(-1)
					if r.marking[t].Load() == 0 {
						ti.table.delete(h)
						r.idFreeList.Retire(rec)
					}
				}
				if r.statsOn() {
					r.stats.decRefs.Add(1)
				}
				return nc, nil
			}
			continue
		}

		// Count is about to hit zero and a FreeFunc exists: acquire the
		// do-not-disturb token and invoke it, per §4.3's second bullet. The
		// core does not acquire OuterMutex here itself — per §4.8, unwrap is
		// the only place it does that — it only records whether the caller
		// already held it, via holdsOuterMutex, so a concurrent LookupLocked
		// et al. issued from inside FreeFunc can take the reentrancy bypass.
		tk := k.withToken(holdsOuterMutex)
		if !rec.k.CompareAndSwap(k, tk) {
			continue
		}

		cbErr := ti.class.FreeFunc(k.object, asyncToken)

		// This store is guaranteed to succeed: the token excluded every
		// other writer for the duration of the callback, per §4.3.
		rec.k.Store(markedKernel())
		ti.idCount.Add(-1)
		if r.marking[t].Load() == 0 {
			ti.table.delete(h)
			r.idFreeList.Retire(rec)
		}
		if r.statsOn() {
			r.stats.decRefs.Add(1)
		}

		if cbErr != nil {
			return 0, NewErrCallbackFailed("free_func", cbErr)
		}
		return 0, nil
	}
}

// Remove unconditionally marks handle for deletion and returns the object
// it named, without invoking FreeFunc — the "last dec_ref" path but
// unconditional, per §4.3. Calling Remove twice on the same handle yields
// NotFound the second time (§8 property 6).
func (r *Registry) Remove(h Handle) (interface{}, error) {
	r.enter(true)
	defer r.exit()
	return r.removeInternal(h, false)
}

// RemoveLocked is Remove for a caller that already holds the configured
// OuterMutex; see LookupLocked.
func (r *Registry) RemoveLocked(h Handle) (interface{}, error) {
	r.enter(true)
	defer r.exit()
	return r.removeInternal(h, true)
}

func (r *Registry) removeInternal(h Handle, holdsOuterMutex bool) (interface{}, error) {
	t := r.codec.typeOf(h)
	ti, rec, err := r.resolve(h)
	if err != nil {
		return nil, err
	}

	for {
		k := r.waitDoNotDisturb(rec, holdsOuterMutex)
		if k.state.marked() {
			return nil, NewErrNotFound(h)
		}
		tk := k.withToken(holdsOuterMutex)
		if !rec.k.CompareAndSwap(k, tk) {
			continue
		}
		obj := k.object
		rec.k.Store(markedKernel())
		ti.idCount.Add(-1)
		if r.marking[t].Load() == 0 {
			ti.table.delete(h)
			r.idFreeList.Retire(rec)
		}
		if r.statsOn() {
			r.stats.removes.Add(1)
		}
		return obj, nil
	}
}
