package idreg

import "testing"

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(DefaultConfig())
}

func registerTestType(t *testing.T, reg *Registry, tag Type, free FreeFunc) Type {
	t.Helper()
	typ, err := reg.RegisterType(ClassDescriptor{TypeTag: tag, FreeFunc: free})
	if err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	return typ
}

// S2 — Basic lifecycle.
func TestBasicLifecycle(t *testing.T) {
	reg := newTestRegistry(t)

	var freed []interface{}
	typ := registerTestType(t, reg, 1, func(object, _ interface{}) error {
		freed = append(freed, object)
		return nil
	})

	h, err := reg.Register(typ, 0xDEADBEEF, true, nil, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if n, err := reg.IncRef(h, true); err != nil || n != 2 {
		t.Fatalf("IncRef = (%d, %v), want (2, nil)", n, err)
	}
	if n, err := reg.DecRef(h, true, nil); err != nil || n != 1 {
		t.Fatalf("DecRef#1 = (%d, %v), want (1, nil)", n, err)
	}
	if n, err := reg.DecRef(h, true, nil); err != nil || n != 0 {
		t.Fatalf("DecRef#2 = (%d, %v), want (0, nil)", n, err)
	}

	if len(freed) != 1 || freed[0] != 0xDEADBEEF {
		t.Fatalf("free_func called with %v, want exactly one call with 0xDEADBEEF", freed)
	}

	if _, err := reg.Lookup(h); !IsNotFound(err) {
		t.Fatalf("Lookup after final dec_ref = %v, want NotFound", err)
	}
}

// Invariant 1/2: live record count bookkeeping.
func TestNMembersTracksLiveRecords(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	var handles []Handle
	for i := 0; i < 5; i++ {
		h, err := reg.Register(typ, i, true, nil, nil)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		handles = append(handles, h)
	}

	n, err := reg.NMembers(typ)
	if err != nil || n != 5 {
		t.Fatalf("NMembers = (%d, %v), want (5, nil)", n, err)
	}

	if _, err := reg.Remove(handles[0]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	n, err = reg.NMembers(typ)
	if err != nil || n != 4 {
		t.Fatalf("NMembers after Remove = (%d, %v), want (4, nil)", n, err)
	}
}

// Invariant 3: every handle in a type's table decodes back to that type.
func TestHandleTypeConsistency(t *testing.T) {
	reg := newTestRegistry(t)
	typA := registerTestType(t, reg, 1, nil)
	typB := registerTestType(t, reg, 2, nil)

	ha, _ := reg.Register(typA, "a", true, nil, nil)
	hb, _ := reg.Register(typB, "b", true, nil, nil)

	if reg.codec.typeOf(ha) != typA {
		t.Errorf("handle from type A decodes to %d, want %d", reg.codec.typeOf(ha), typA)
	}
	if reg.codec.typeOf(hb) != typB {
		t.Errorf("handle from type B decodes to %d, want %d", reg.codec.typeOf(hb), typB)
	}
}

// Invariant 6 / register->dec_ref round trip (invariant 5).
func TestRemoveIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	calls := 0
	typ := registerTestType(t, reg, 1, func(interface{}, interface{}) error {
		calls++
		return nil
	})

	h, err := reg.Register(typ, "payload", true, nil, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	obj, err := reg.Remove(h)
	if err != nil || obj != "payload" {
		t.Fatalf("Remove#1 = (%v, %v), want (\"payload\", nil)", obj, err)
	}
	if _, err := reg.Remove(h); !IsNotFound(err) {
		t.Fatalf("Remove#2 = %v, want NotFound", err)
	}
	if calls != 0 {
		t.Fatalf("Remove must never invoke free_func, got %d calls", calls)
	}
}

func TestRegisterUsingExistingIDRejectsLiveHandle(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	h, err := reg.Register(typ, "first", true, nil, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := reg.RegisterUsingExistingID(typ, "second", true, h); !IsInUse(err) {
		t.Fatalf("RegisterUsingExistingID on a live handle = %v, want InUse", err)
	}
}

func TestRegisterUsingExistingIDReusesMarkedSlot(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	h, err := reg.Register(typ, "first", true, nil, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := reg.Remove(h); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if err := reg.RegisterUsingExistingID(typ, "second", true, h); err != nil {
		t.Fatalf("RegisterUsingExistingID after Remove: %v", err)
	}
	obj, err := reg.Lookup(h)
	if err != nil || obj != "second" {
		t.Fatalf("Lookup after reuse = (%v, %v), want (\"second\", nil)", obj, err)
	}
}

func TestSubstitute(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	h, err := reg.Register(typ, "old", false, nil, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	old, err := reg.Substitute(h, "new")
	if err != nil || old != "old" {
		t.Fatalf("Substitute = (%v, %v), want (\"old\", nil)", old, err)
	}
	obj, err := reg.Lookup(h)
	if err != nil || obj != "new" {
		t.Fatalf("Lookup after Substitute = (%v, %v), want (\"new\", nil)", obj, err)
	}
}

func TestLookupBadTypeAndBadRange(t *testing.T) {
	reg := newTestRegistry(t)

	if _, err := reg.Lookup(0); !IsNotFound(err) {
		t.Errorf("Lookup(0) = %v, want NotFound", err)
	}
	if _, err := reg.Lookup(InvalidHandle); !IsNotFound(err) {
		t.Errorf("Lookup(InvalidHandle) = %v, want NotFound", err)
	}

	typ := registerTestType(t, reg, 1, nil)
	h, _ := reg.Register(typ, "x", true, nil, nil)
	bogus := reg.codec.encode(Type(200), reg.codec.indexOf(h))
	if _, err := reg.Lookup(bogus); !IsBadGroup(err) {
		t.Errorf("Lookup with unregistered type = %v, want BadGroup", err)
	}
}

func TestDecRefAfterFinalReleaseIsNotFound(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)
	h, _ := reg.Register(typ, "x", false, nil, nil)

	if _, err := reg.DecRef(h, false, nil); err != nil {
		t.Fatalf("DecRef to zero: %v", err)
	}
	if _, err := reg.DecRef(h, false, nil); !IsNotFound(err) {
		t.Fatalf("DecRef after record marked = %v, want NotFound", err)
	}
}
