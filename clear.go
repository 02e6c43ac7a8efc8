// clear.go: mark-and-sweep clear_type / destroy_type (§4.10)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// ClearType walks every live record of t and marks for deletion those that
// satisfy the mark predicate, per §4.10. With force=true every record is
// cleared regardless of outstanding references. With force=false, only
// records whose reference count is otherwise exhausted are cleared: a
// record is a mark candidate when count-(appRef?0:appCount) <= 1, i.e. the
// registration's own reference is the last one standing.
func (r *Registry) ClearType(t Type, force, appRef bool) error {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}
	_, err = r.clearTypeInternal(t, ti, force, appRef, false)
	return err
}

// ClearTypeLocked is ClearType for a caller that already holds the
// configured OuterMutex; see LookupLocked.
func (r *Registry) ClearTypeLocked(t Type, force, appRef bool) error {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}
	_, err = r.clearTypeInternal(t, ti, force, appRef, true)
	return err
}

func (r *Registry) clearTypeInternal(t Type, ti *typeInfo, force, appRef, holdsOuterMutex bool) (int64, error) {
	r.marking[t].Add(1)

	var cleared int64
	var firstErr error

	key, rec, ok := ti.table.getFirst()
	for ok {
		nextKey, nextRec, nextOk := ti.table.getNext(key)

		k := rec.load()
		if !k.state.marked() {
			subtract := k.appCount
			if appRef {
				subtract = 0
			}
			if force || k.count-subtract <= 1 {
				didClear, cbErr := r.clearOneRecord(ti, rec, k, force, holdsOuterMutex)
				if didClear {
					cleared++
				}
				if cbErr != nil && firstErr == nil {
					firstErr = cbErr
				}
			}
		}

		key, rec, ok = nextKey, nextRec, nextOk
	}

	if r.marking[t].Add(-1) == 0 {
		r.sweepType(t, ti)
	}
	if r.statsOn() {
		r.stats.clearSweeps.Add(1)
	}
	return cleared, firstErr
}

// clearOneRecord acquires do_not_disturb for rec, runs its release callback
// (discard_cb for a future handle, free_func for a regular one), and marks
// the record. On callback failure the record is marked only when force is
// set; otherwise it is left live, matching §4.10's documented caveat.
func (r *Registry) clearOneRecord(ti *typeInfo, rec *idInfo, k *kernel, force, holdsOuterMutex bool) (bool, error) {
	// The core does not acquire OuterMutex here itself — per §4.8, unwrap is
	// the only place it does that — it only records whether the caller
	// already held it, so a concurrent LookupLocked et al. issued from
	// inside discard_cb/free_func can take the reentrancy bypass.
	tk := k.withToken(holdsOuterMutex)
	if !rec.k.CompareAndSwap(k, tk) {
		return false, nil
	}

	var cbErr error
	if k.state.future() {
		if rec.discardCb != nil {
			cbErr = rec.discardCb(k.realizePlaceholder)
		}
	} else if ti.class.FreeFunc != nil {
		cbErr = ti.class.FreeFunc(k.object, nil)
	}

	if cbErr != nil && !force {
		rec.k.Store(k)
		return false, cbErr
	}

	// Guaranteed to succeed: the token excluded every other writer.
	rec.k.Store(markedKernel())
	ti.idCount.Add(-1)
	return true, cbErr
}

// sweepType physically deletes every marked record of t once the last
// nested clear_type call has exited, retiring each to the free list. If a
// concurrent clearer has re-raised marking[t] in the meantime, the sweep is
// skipped; a later clear_type call will drain the table.
func (r *Registry) sweepType(t Type, ti *typeInfo) {
	if r.marking[t].Load() != 0 {
		return
	}

	key, rec, ok := ti.table.getFirst()
	for ok {
		nextKey, nextRec, nextOk := ti.table.getNext(key)
		if rec.load().state.marked() {
			ti.table.delete(key)
			r.idFreeList.Retire(rec)
		}
		key, rec, ok = nextKey, nextRec, nextOk
	}
}
