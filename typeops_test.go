package idreg

import "testing"

func TestIncTypeRefBumpsInitCount(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	if err := reg.IncTypeRef(typ); err != nil {
		t.Fatalf("IncTypeRef: %v", err)
	}

	// init_count is now 2 (1 from RegisterType, 1 from IncTypeRef): a single
	// DecTypeRef must not tear the type down yet.
	if err := reg.DecTypeRef(typ); err != nil {
		t.Fatalf("DecTypeRef#1: %v", err)
	}
	if _, err := reg.NMembers(typ); err != nil {
		t.Fatalf("type torn down after first DecTypeRef: %v", err)
	}

	if err := reg.DecTypeRef(typ); err != nil {
		t.Fatalf("DecTypeRef#2: %v", err)
	}
	if _, err := reg.lookupType(typ); !IsBadGroup(err) {
		t.Fatalf("lookupType after init_count reaches zero = %v, want BadGroup", err)
	}
}

func TestIncTypeRefRejectsUnknownType(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.IncTypeRef(Type(99)); !IsBadGroup(err) {
		t.Fatalf("IncTypeRef on unregistered type = %v, want BadGroup", err)
	}
}

func TestDecTypeRefDestroysTypeOnLastRef(t *testing.T) {
	reg := newTestRegistry(t)

	var freed []interface{}
	typ := registerTestType(t, reg, 1, func(object, _ interface{}) error {
		freed = append(freed, object)
		return nil
	})

	h, err := reg.Register(typ, "payload", true, nil, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := reg.DecTypeRef(typ); err != nil {
		t.Fatalf("DecTypeRef: %v", err)
	}

	if len(freed) != 1 || freed[0] != "payload" {
		t.Fatalf("free_func called with %v, want exactly one call with \"payload\"", freed)
	}
	if _, err := reg.Lookup(h); !IsBadGroup(err) {
		t.Fatalf("Lookup after DecTypeRef destroys type = %v, want BadGroup", err)
	}

	// The type tag is free for reuse after destruction.
	reuse, err := reg.RegisterType(ClassDescriptor{TypeTag: typ})
	if err != nil {
		t.Fatalf("RegisterType after destroy: %v", err)
	}
	if n, err := reg.NMembers(reuse); err != nil || n != 0 {
		t.Fatalf("NMembers of freshly reregistered type = (%d, %v), want (0, nil)", n, err)
	}
}

func TestDestroyTypeForcesTeardownRegardlessOfInitCount(t *testing.T) {
	reg := newTestRegistry(t)

	var freed []interface{}
	typ := registerTestType(t, reg, 1, func(object, _ interface{}) error {
		freed = append(freed, object)
		return nil
	})
	if err := reg.IncTypeRef(typ); err != nil {
		t.Fatalf("IncTypeRef: %v", err)
	}

	h1, err := reg.Register(typ, 1, true, nil, nil)
	if err != nil {
		t.Fatalf("Register #1: %v", err)
	}
	h2, err := reg.Register(typ, 2, true, nil, nil)
	if err != nil {
		t.Fatalf("Register #2: %v", err)
	}

	if err := reg.DestroyType(typ); err != nil {
		t.Fatalf("DestroyType: %v", err)
	}

	if len(freed) != 2 {
		t.Fatalf("free_func called %d times, want 2 (both live records force-cleared)", len(freed))
	}
	if _, err := reg.Lookup(h1); !IsBadGroup(err) {
		t.Fatalf("Lookup(h1) after DestroyType = %v, want BadGroup", err)
	}
	if _, err := reg.Lookup(h2); !IsBadGroup(err) {
		t.Fatalf("Lookup(h2) after DestroyType = %v, want BadGroup", err)
	}

	if _, err := reg.lookupType(typ); !IsBadGroup(err) {
		t.Fatalf("lookupType after DestroyType = %v, want BadGroup", err)
	}
}

func TestDestroyTypeRejectsUnknownType(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.DestroyType(Type(99)); !IsBadGroup(err) {
		t.Fatalf("DestroyType on unregistered type = %v, want BadGroup", err)
	}
}
