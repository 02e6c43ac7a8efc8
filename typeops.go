// typeops.go: type-registry operations (§4.2)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// RegisterType installs class as a new type, or, if the slot is already
// occupied, bumps its init_count and returns the existing tag. Per §4.2:
// "On CAS loss, discards the loser and increments the winner's init_count.
// On CAS win, sets init_count = 1."
func (r *Registry) RegisterType(class ClassDescriptor) (Type, error) {
	r.enter(true)
	defer r.exit()

	t := class.TypeTag
	if t == 0 || uint32(t) >= uint32(len(r.types)) {
		return 0, NewErrBadRange("RegisterType", uint32(t))
	}
	if !r.allocated[t].Load() {
		if !r.allocated[t].CompareAndSwap(false, true) {
			// Lost the race to claim the slot; fall through, the winner's
			// type-info install below still applies.
		}
	}

	for {
		existing := r.types[t].Load()
		if existing != nil {
			existing.initCount.Add(1)
			return t, nil
		}

		fresh := r.allocTypeInfo(class)
		if r.types[t].CompareAndSwap(nil, fresh) {
			return t, nil
		}
		// CAS loss: discard the loser and retry, observing the winner.
		r.typeFreeList.Retire(fresh)
	}
}

func (r *Registry) allocTypeInfo(class ClassDescriptor) *typeInfo {
	if v, ok := r.typeFreeList.Allocate(); ok {
		v.reset(class)
		r.stats.typeAllocFromFreeList.Add(1)
		return v
	}
	r.stats.typeAllocFromHeap.Add(1)
	return newTypeInfo(class)
}

// lookupType validates t and returns its live typeInfo, or a BadRange /
// BadGroup error.
func (r *Registry) lookupType(t Type) (*typeInfo, error) {
	if uint32(t) == 0 || uint32(t) >= uint32(len(r.types)) {
		return nil, NewErrBadRange("type", uint32(t))
	}
	ti := r.types[t].Load()
	if ti == nil {
		return nil, NewErrBadGroup(t)
	}
	return ti, nil
}

// NMembers returns the number of live (unmarked) records of type t, or 0 if
// t is uninitialized or has been cleared, per §4.2.
func (r *Registry) NMembers(t Type) (int64, error) {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		if IsBadGroup(err) {
			return 0, nil
		}
		return 0, err
	}
	return ti.idCount.Load(), nil
}

// IncTypeRef bumps a type's init_count.
func (r *Registry) IncTypeRef(t Type) error {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}
	ti.initCount.Add(1)
	return nil
}

// DecTypeRef drops a type's init_count by one; when it transitions 1->0,
// DestroyType is invoked, per §4.2.
func (r *Registry) DecTypeRef(t Type) error {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}
	if ti.initCount.Add(-1) == 0 {
		return r.destroyTypeLocked(t, ti)
	}
	return nil
}

// DestroyType forces a type's teardown regardless of its current
// init_count: clears every live record (force=true), marks the table
// cleared, frees the type slot, and retires the typeInfo to the free list,
// per §4.2. The class descriptor is not released separately, whatever its
// ClassIsApplication flag.
func (r *Registry) DestroyType(t Type) error {
	r.enter(true)
	defer r.exit()

	ti, err := r.lookupType(t)
	if err != nil {
		return err
	}
	return r.destroyTypeLocked(t, ti)
}

func (r *Registry) destroyTypeLocked(t Type, ti *typeInfo) error {
	if _, err := r.clearTypeInternal(t, ti, true, false, false); err != nil {
		return err
	}
	ti.lfhtCleared.Store(true)
	r.types[t].Store(nil)
	r.allocated[t].Store(false)
	r.typeFreeList.Retire(ti)
	return nil
}
