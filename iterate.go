// iterate.go: visitor-driven iteration and the stateless walk (§4.9)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// Iterate visits every live record of type t in the hash table's own
// iteration order, skipping marked records and, if appRefOnly, records with
// app_count == 0. Each survivor is visited with do_not_disturb held (or the
// reentrancy bypass applied if the caller used IterateLocked) and its object
// unwrapped. The visitor's return value is preserved verbatim: negative
// stops iteration with an error, positive stops it successfully, zero
// continues. Concurrent modifications are not snapshotted: records inserted
// during the walk may or may not be visited, and records marked during the
// walk are skipped.
func (r *Registry) Iterate(t Type, visitor Visitor, udata interface{}, appRefOnly bool) error {
	return r.iterateInternal(t, visitor, udata, appRefOnly, false)
}

// IterateLocked is Iterate for a caller that already holds the configured
// OuterMutex; see LookupLocked.
func (r *Registry) IterateLocked(t Type, visitor Visitor, udata interface{}, appRefOnly bool) error {
	return r.iterateInternal(t, visitor, udata, appRefOnly, true)
}

func (r *Registry) iterateInternal(t Type, visitor Visitor, udata interface{}, appRefOnly, holdsOuterMutex bool) error {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}

	key, rec, ok := ti.table.getFirst()
	for ok {
		nextKey, nextRec, nextOk := ti.table.getNext(key)

		status := r.visitOne(ti, t, rec, visitor, udata, appRefOnly, holdsOuterMutex)
		if r.statsOn() {
			r.stats.iterations.Add(1)
		}
		switch {
		case status > 0:
			return nil
		case status < 0:
			return NewErrCallbackFailed("iterate visitor", nil)
		}

		key, rec, ok = nextKey, nextRec, nextOk
	}
	return nil
}

func (r *Registry) visitOne(ti *typeInfo, t Type, rec *idInfo, visitor Visitor, udata interface{}, appRefOnly, holdsOuterMutex bool) VisitorStatus {
	var k *kernel
	for {
		k = r.waitDoNotDisturb(rec, holdsOuterMutex)
		if k.state.marked() {
			return VisitorContinue
		}
		if appRefOnly && k.appCount == 0 {
			return VisitorContinue
		}
		// Recording holdsOuterMutex here (rather than hardcoding false) is
		// what makes the §5 reentrancy bypass reachable: a visitor that
		// reenters the registry via LookupLocked et al. sees this token's
		// haveGlobalMutex bit set and proceeds instead of spinning.
		tk := k.withToken(holdsOuterMutex)
		if rec.k.CompareAndSwap(k, tk) {
			break
		}
	}

	obj, uerr := r.unwrapObject(k.object, t, holdsOuterMutex)
	if uerr != nil {
		rec.k.Store(k)
		return VisitorContinue
	}

	// The core does not acquire OuterMutex around the visitor call itself —
	// per §4.8, unwrap is the only place it does that — it only trusts the
	// holdsOuterMutex signal threaded in from Iterate/IterateLocked.
	status := visitor(obj, rec.handle, udata)

	rec.k.Store(k)
	return status
}

// GetFirst returns the first live (unmarked) record of type t in table
// order, per §4.9. It is a stateless walk, not a snapshot: concurrent
// inserts and deletes may cause entries to repeat or be skipped.
func (r *Registry) GetFirst(t Type) (Handle, interface{}, error) {
	return r.getFirstInternal(t, false)
}

// GetFirstLocked is GetFirst for a caller that already holds the configured
// OuterMutex; see LookupLocked.
func (r *Registry) GetFirstLocked(t Type) (Handle, interface{}, error) {
	return r.getFirstInternal(t, true)
}

func (r *Registry) getFirstInternal(t Type, holdsOuterMutex bool) (Handle, interface{}, error) {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return InvalidHandle, nil, err
	}
	return r.firstLiveFrom(ti, t, ti.table.getFirst, holdsOuterMutex)
}

// GetNext returns the first live record of type t after last, per §4.9.
func (r *Registry) GetNext(t Type, last Handle) (Handle, interface{}, error) {
	return r.getNextInternal(t, last, false)
}

// GetNextLocked is GetNext for a caller that already holds the configured
// OuterMutex; see LookupLocked.
func (r *Registry) GetNextLocked(t Type, last Handle) (Handle, interface{}, error) {
	return r.getNextInternal(t, last, true)
}

func (r *Registry) getNextInternal(t Type, last Handle, holdsOuterMutex bool) (Handle, interface{}, error) {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return InvalidHandle, nil, err
	}
	return r.firstLiveFrom(ti, t, func() (Handle, *idInfo, bool) { return ti.table.getNext(last) }, holdsOuterMutex)
}

func (r *Registry) firstLiveFrom(ti *typeInfo, t Type, start func() (Handle, *idInfo, bool), holdsOuterMutex bool) (Handle, interface{}, error) {
	key, rec, ok := start()
	for ok {
		k := rec.load()
		if !k.state.marked() {
			obj, uerr := r.unwrapObject(k.object, t, holdsOuterMutex)
			if uerr != nil {
				return InvalidHandle, nil, uerr
			}
			return key, obj, nil
		}
		key, rec, ok = ti.table.getNext(key)
	}
	return InvalidHandle, nil, NewErrNotFound(InvalidHandle)
}
