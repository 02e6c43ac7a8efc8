// lookup.go: handle resolution and the per-type last-id-info cache (§4.4)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// Lookup resolves handle to its current object, consulting the per-type
// last_id_info cache before the hash table, transparently realizing future
// handles on their first successful lookup (§4.5), and unwrapping
// indirection-bearing objects (§4.8). It returns NotFound if the handle is
// absent or its record has been marked for deletion.
func (r *Registry) Lookup(h Handle) (interface{}, error) {
	r.enter(true)
	defer r.exit()
	start := r.cfg.TimeProvider.Now()
	defer func() { r.cfg.MetricsCollector.RecordLookup(r.cfg.TimeProvider.Now() - start) }()
	return r.lookupInternal(h, false)
}

// LookupLocked is Lookup for a caller that already holds the configured
// OuterMutex for the duration of this call — for example a free_func,
// discard_cb, or Visitor invoked by this same Registry that needs to look
// up another handle of its own type without re-acquiring OuterMutex. It
// enables the reentrancy bypass of §5: if the handle's do-not-disturb token
// is held by another goroutine that itself recorded holding OuterMutex,
// this call proceeds instead of spinning, since OuterMutex already
// serializes the two goroutines.
func (r *Registry) LookupLocked(h Handle) (interface{}, error) {
	r.enter(true)
	defer r.exit()
	return r.lookupInternal(h, true)
}

func (r *Registry) lookupInternal(h Handle, holdsOuterMutex bool) (interface{}, error) {
	if h <= 0 {
		return nil, NewErrNotFound(h)
	}
	t := r.codec.typeOf(h)
	ti, err := r.lookupType(t)
	if err != nil {
		return nil, err
	}

	rec := r.findIDInfo(ti, h)
	if rec == nil {
		return nil, NewErrNotFound(h)
	}

	k := r.waitDoNotDisturb(rec, holdsOuterMutex)
	if k.state.marked() {
		return nil, NewErrNotFound(h)
	}

	if k.state.future() {
		obj, err := r.realize(ti, rec, k, holdsOuterMutex)
		if err != nil {
			return nil, err
		}
		k = rec.load()
		_ = obj
	}

	if k.state.marked() {
		return nil, NewErrNotFound(h)
	}

	ti.lastIDInfo.Store(rec)
	if r.statsOn() {
		r.stats.lookups.Add(1)
	}
	return r.unwrapObject(k.object, t, holdsOuterMutex)
}

// findIDInfo consults ti.lastIDInfo before falling back to the hash table,
// per §4.4.
func (r *Registry) findIDInfo(ti *typeInfo, h Handle) *idInfo {
	if cached := ti.lastIDInfo.Load(); cached != nil && cached.handle == h {
		return cached
	}
	rec, ok := ti.table.find(h)
	if !ok {
		return nil
	}
	return rec
}

// FindByObject performs a linear scan of type t's live records (via the
// same walk Iterate uses) and returns the handle of the first unmarked
// record whose unwrapped object equals query, or InvalidHandle if none
// match, per §4.9.
func (r *Registry) FindByObject(t Type, query interface{}) (Handle, error) {
	r.enter(true)
	defer r.exit()
	return r.findByObjectInternal(t, query, false)
}

// FindByObjectLocked is FindByObject for a caller that already holds the
// configured OuterMutex; see LookupLocked.
func (r *Registry) FindByObjectLocked(t Type, query interface{}) (Handle, error) {
	r.enter(true)
	defer r.exit()
	return r.findByObjectInternal(t, query, true)
}

func (r *Registry) findByObjectInternal(t Type, query interface{}, holdsOuterMutex bool) (Handle, error) {
	ti, err := r.lookupType(t)
	if err != nil {
		return InvalidHandle, err
	}

	found := InvalidHandle
	stop := false
	key, rec, ok := ti.table.getFirst()
	for ok && !stop {
		k := rec.load()
		if !k.state.marked() {
			obj, uerr := r.unwrapObject(k.object, t, holdsOuterMutex)
			if uerr == nil && objectsEqual(obj, query) {
				found = key
				stop = true
			}
		}
		if !stop {
			key, rec, ok = ti.table.getNext(key)
		}
	}
	return found, nil
}

func objectsEqual(a, b interface{}) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
